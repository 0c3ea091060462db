package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"-"`
	Username    string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email       string    `gorm:"uniqueIndex;size:254;not null" json:"email"`
	Role        Role      `gorm:"type:varchar(16);default:'user';not null" json:"role"`
	Bio         string    `gorm:"type:text;not null;default:''" json:"bio"`
	FirstName   string    `gorm:"size:150;not null;default:''" json:"first_name"`
	LastName    string    `gorm:"size:150;not null;default:''" json:"last_name"`
	IsSuperuser bool      `gorm:"not null;default:false" json:"-"`
	IsStaff     bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports admin privileges. Superusers and staff accounts are admins
// regardless of their role column.
func (user *User) IsAdmin() bool {
	return user.Role == RoleAdmin || user.IsSuperuser || user.IsStaff
}

func (user *User) IsModerator() bool {
	return user.Role == RoleModerator
}
