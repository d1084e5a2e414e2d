package repositories

import (
	"context"
	"time"

	"delivery-tracker/internal/adapters/persistence/models"
	"delivery-tracker/internal/core/domain"
	"delivery-tracker/internal/pkg/pagination"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// DeliveryRepository defines delivery repository interface.
// Every read is scoped to an owning user id in the query itself.
type DeliveryRepository interface {
	Create(ctx context.Context, delivery *models.Delivery) error
	Update(ctx context.Context, delivery *models.Delivery) error
	GetByIDAndUserID(ctx context.Context, id, userID uint) (*models.Delivery, error)
	FindByUserIDAndRequestedAtBetween(ctx context.Context, userID uint, start, end time.Time, params pagination.Params) ([]*models.Delivery, int64, error)
	FindByUserIDAndRequestedAtBetweenAndStatus(ctx context.Context, userID uint, start, end time.Time, status domain.DeliveryStatus, params pagination.Params) ([]*models.Delivery, int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Replace(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Delete(ctx context.Context, id uint) error
	DeleteByUsername(ctx context.Context, username string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Transactor runs fn inside one database transaction.
// Repositories called with the ctx passed to fn join that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
