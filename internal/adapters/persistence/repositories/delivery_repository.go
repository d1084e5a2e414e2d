package repositories

import (
	"context"
	"time"

	"delivery-tracker/internal/adapters/persistence/models"
	"delivery-tracker/internal/core/domain"
	"delivery-tracker/internal/pkg/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// deliveryRepository implements DeliveryRepository interface
type deliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository creates a new delivery repository
func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

// Create creates a new delivery
func (r *deliveryRepository) Create(ctx context.Context, delivery *models.Delivery) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(delivery).Error
}

// Update saves all columns of a delivery
func (r *deliveryRepository) Update(ctx context.Context, delivery *models.Delivery) error {
	return conn(ctx, r.db).Omit(clause.Associations).Save(delivery).Error
}

// GetByIDAndUserID gets a delivery only when it belongs to userID
func (r *deliveryRepository) GetByIDAndUserID(ctx context.Context, id, userID uint) (*models.Delivery, error) {
	var delivery models.Delivery
	err := conn(ctx, r.db).
		Where("id = ? AND user_id = ?", id, userID).
		First(&delivery).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

// FindByUserIDAndRequestedAtBetween lists a user's deliveries requested within [start, end]
func (r *deliveryRepository) FindByUserIDAndRequestedAtBetween(ctx context.Context, userID uint, start, end time.Time, params pagination.Params) ([]*models.Delivery, int64, error) {
	return r.findPage(ctx, params, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? AND requested_at BETWEEN ? AND ?", userID, start, end)
	})
}

// FindByUserIDAndRequestedAtBetweenAndStatus lists a user's deliveries in one status requested within [start, end]
func (r *deliveryRepository) FindByUserIDAndRequestedAtBetweenAndStatus(ctx context.Context, userID uint, start, end time.Time, status domain.DeliveryStatus, params pagination.Params) ([]*models.Delivery, int64, error) {
	return r.findPage(ctx, params, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? AND requested_at BETWEEN ? AND ? AND status = ?", userID, start, end, status)
	})
}

func (r *deliveryRepository) findPage(ctx context.Context, params pagination.Params, scope func(*gorm.DB) *gorm.DB) ([]*models.Delivery, int64, error) {
	var deliveries []*models.Delivery
	var total int64

	// Count total
	if err := conn(ctx, r.db).Model(&models.Delivery{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*models.Delivery{}, 0, nil
	}

	// Get page, id as tie breaker keeps pages stable
	err := conn(ctx, r.db).
		Scopes(scope).
		Order(params.Sort.OrderBy()).
		Order("id DESC").
		Offset(params.Offset).
		Limit(params.Size).
		Find(&deliveries).Error
	if err != nil {
		return nil, 0, err
	}

	return deliveries, total, nil
}
