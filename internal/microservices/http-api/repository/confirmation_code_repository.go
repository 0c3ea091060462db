package repository

import (
	"context"
	"time"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConfirmationCodeRepository handles database operations for confirmation codes
type ConfirmationCodeRepository interface {
	Upsert(ctx context.Context, code *models.ConfirmationCode) error
	FindByUserID(ctx context.Context, userID string) (*models.ConfirmationCode, error)
	Delete(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type confirmationCodeRepository struct {
	db *gorm.DB
}

func NewConfirmationCodeRepository(db *gorm.DB) ConfirmationCodeRepository {
	return &confirmationCodeRepository{db: db}
}

// Upsert stores the code, replacing any previous code of the same user.
func (r *confirmationCodeRepository) Upsert(ctx context.Context, code *models.ConfirmationCode) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"code_hash", "expires_at", "created_at"}),
		}).
		Create(code).Error
	return translateError("store confirmation code", err)
}

func (r *confirmationCodeRepository) FindByUserID(ctx context.Context, userID string) (*models.ConfirmationCode, error) {
	var code models.ConfirmationCode
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&code).Error; err != nil {
		return nil, err
	}
	return &code, nil
}

// Delete consumes the code after a successful exchange
func (r *confirmationCodeRepository) Delete(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.ConfirmationCode{}).Error
	return translateError("delete confirmation code", err)
}

// DeleteExpired removes codes past their expiry, used by the periodic cleanup.
func (r *confirmationCodeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.ConfirmationCode{})
	if result.Error != nil {
		return 0, translateError("delete expired confirmation codes", result.Error)
	}
	return result.RowsAffected, nil
}
