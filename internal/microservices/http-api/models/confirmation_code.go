package models

import (
	"time"
)

// ConfirmationCode holds the bcrypt hash of the code mailed at sign-up.
// There is at most one live code per user; signing up again replaces it.
type ConfirmationCode struct {
	UserID    string    `gorm:"primaryKey;type:uuid" json:"user_id"`
	CodeHash  string    `gorm:"not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (ConfirmationCode) TableName() string {
	return "confirmation_codes"
}

func (c *ConfirmationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
