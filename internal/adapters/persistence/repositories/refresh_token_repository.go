package repositories

import (
	"context"
	"time"

	"delivery-tracker/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// refreshTokenRepository implements RefreshTokenRepository interface
type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

// Replace stores token as the only refresh token of its user.
// The unique username index turns a concurrent second login into an update.
func (r *refreshTokenRepository) Replace(ctx context.Context, token *models.RefreshToken) error {
	return conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoUpdates: clause.AssignmentColumns([]string{"token_hash", "expires_at", "created_at"}),
		}).
		Create(token).Error
}

// GetByTokenHash gets a refresh token by its hash
func (r *refreshTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := conn(ctx, r.db).
		Where("token_hash = ?", tokenHash).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Delete deletes a refresh token by ID
func (r *refreshTokenRepository) Delete(ctx context.Context, id uint) error {
	return conn(ctx, r.db).Delete(&models.RefreshToken{}, id).Error
}

// DeleteByUsername deletes the refresh token of a user, if any
func (r *refreshTokenRepository) DeleteByUsername(ctx context.Context, username string) error {
	return conn(ctx, r.db).
		Where("username = ?", username).
		Delete(&models.RefreshToken{}).Error
}

// DeleteExpired deletes all expired tokens (cleanup job)
func (r *refreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := conn(ctx, r.db).
		Where("expires_at < ?", now).
		Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}
