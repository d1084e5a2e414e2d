package models

import (
	"time"

	"delivery-tracker/internal/core/domain"
)

// Delivery represents deliveries table
type Delivery struct {
	ID                    uint                  `gorm:"primaryKey"`
	UserID                uint                  `gorm:"not null;index:idx_deliveries_user_requested,priority:1"`
	User                  User                  `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Status                domain.DeliveryStatus `gorm:"size:20;not null;index"`
	OriginAddress         string                `gorm:"size:255;not null"`
	DestinationAddress    string                `gorm:"size:255;not null"`
	RequestedAt           time.Time             `gorm:"not null;index:idx_deliveries_user_requested,priority:2"`
	EstimatedDeliveryTime *time.Time
	CompletedAt           *time.Time
	Price                 int       `gorm:"not null"`
	Memo                  string    `gorm:"size:500"`
	CreatedAt             time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt             time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (Delivery) TableName() string {
	return "deliveries"
}

// NewDelivery builds a delivery in the initial RECEIVED state
func NewDelivery(userID uint, origin, destination string, price int, memo string, estimated *time.Time, now time.Time) *Delivery {
	return &Delivery{
		UserID:                userID,
		Status:                domain.StatusReceived,
		OriginAddress:         origin,
		DestinationAddress:    destination,
		RequestedAt:           now,
		EstimatedDeliveryTime: estimated,
		Price:                 price,
		Memo:                  memo,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// ChangeStatus moves the delivery along the lifecycle graph.
// Re-applying the current status succeeds without touching any field.
func (d *Delivery) ChangeStatus(next domain.DeliveryStatus, now time.Time) error {
	if !next.IsValid() {
		return domain.ErrUnknownDeliveryStatus
	}
	if d.Status == next {
		return nil
	}
	if !d.Status.CanTransitionTo(next) {
		return &domain.InvalidTransitionError{From: d.Status, To: next}
	}

	d.Status = next
	if next == domain.StatusDelivered && d.CompletedAt == nil {
		completed := now
		d.CompletedAt = &completed
	}
	d.UpdatedAt = now
	return nil
}

// UpdateDestinationAddress changes the destination while the delivery is still pre-transit
func (d *Delivery) UpdateDestinationAddress(address string, now time.Time) error {
	if !d.Status.IsAddressMutable() {
		return &domain.AddressNotUpdatableError{Status: d.Status}
	}

	d.DestinationAddress = address
	d.UpdatedAt = now
	return nil
}

// DeliveryResponse DTO
type DeliveryResponse struct {
	ID                    uint                  `json:"id"`
	Status                domain.DeliveryStatus `json:"status"`
	StatusLabel           string                `json:"status_label"`
	OriginAddress         string                `json:"origin_address"`
	DestinationAddress    string                `json:"destination_address"`
	RequestedAt           time.Time             `json:"requested_at"`
	EstimatedDeliveryTime *time.Time            `json:"estimated_delivery_time"`
	CompletedAt           *time.Time            `json:"completed_at"`
	Price                 int                   `json:"price"`
	Memo                  string                `json:"memo"`
	UpdatedAt             time.Time             `json:"updated_at"`
}

func (d *Delivery) ToResponse() DeliveryResponse {
	return DeliveryResponse{
		ID:                    d.ID,
		Status:                d.Status,
		StatusLabel:           d.Status.Label(),
		OriginAddress:         d.OriginAddress,
		DestinationAddress:    d.DestinationAddress,
		RequestedAt:           d.RequestedAt,
		EstimatedDeliveryTime: d.EstimatedDeliveryTime,
		CompletedAt:           d.CompletedAt,
		Price:                 d.Price,
		Memo:                  d.Memo,
		UpdatedAt:             d.UpdatedAt,
	}
}
