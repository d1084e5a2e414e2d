package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"delivery-tracker/internal/adapters/persistence/models"
	"delivery-tracker/internal/adapters/persistence/repositories"
	"delivery-tracker/internal/core/domain"
	"delivery-tracker/internal/pkg/pagination"

	"gorm.io/gorm"
)

const (
	maxAddressLength = 255
	maxMemoLength    = 500
)

// DeliverySortable lists the fields a delivery page may be sorted by
var DeliverySortable = pagination.Sortable{
	"requested_at": "requested_at",
	"requestedAt":  "requested_at",
	"created_at":   "created_at",
	"price":        "price",
	"status":       "status",
	"id":           "id",
}

// DefaultDeliverySort orders newest requests first
var DefaultDeliverySort = pagination.Sort{Column: "requested_at", Desc: true}

// DeliveryService handles delivery queries and lifecycle changes
type DeliveryService struct {
	deliveryRepo repositories.DeliveryRepository
	userRepo     repositories.UserRepository
	tx           repositories.Transactor
	now          Clock
}

// NewDeliveryService creates a new delivery service
func NewDeliveryService(
	deliveryRepo repositories.DeliveryRepository,
	userRepo repositories.UserRepository,
	tx repositories.Transactor,
	now Clock,
) *DeliveryService {
	return &DeliveryService{
		deliveryRepo: deliveryRepo,
		userRepo:     userRepo,
		tx:           tx,
		now:          clockOrDefault(now),
	}
}

// SearchInput represents the delivery search filter
type SearchInput struct {
	StartDate time.Time
	EndDate   time.Time
	Status    *domain.DeliveryStatus
}

// CreateDeliveryInput represents a new delivery request
type CreateDeliveryInput struct {
	OriginAddress         string     `json:"origin_address"`
	DestinationAddress    string     `json:"destination_address"`
	Price                 int        `json:"price"`
	Memo                  string     `json:"memo"`
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time"`
}

// ValidateCreateDelivery checks every creation constraint and reports all violations
func ValidateCreateDelivery(input *CreateDeliveryInput) error {
	verr := &domain.ValidationError{}
	checkAddress(verr, "origin_address", "출발지 주소", input.OriginAddress)
	checkAddress(verr, "destination_address", "도착지 주소", input.DestinationAddress)
	if input.Price < 0 {
		verr.Add("price", "배달 요금은 0 이상이어야 합니다.")
	}
	if utf8.RuneCountInString(input.Memo) > maxMemoLength {
		verr.Add("memo", "배달 요청 사항은 500자 이하여야 합니다.")
	}
	return verr.OrNil()
}

// ValidateDestination checks a new destination address
func ValidateDestination(address string) error {
	verr := &domain.ValidationError{}
	checkAddress(verr, "destination_address", "도착지 주소", address)
	return verr.OrNil()
}

func checkAddress(verr *domain.ValidationError, field, label, value string) {
	switch {
	case strings.TrimSpace(value) == "":
		verr.Add(field, label+"는 필수입니다.")
	case utf8.RuneCountInString(value) > maxAddressLength:
		verr.Add(field, label+"는 255자 이하여야 합니다.")
	}
}

// GetDeliveriesByDateRange lists the caller's deliveries requested within the range.
// The range is checked before any storage access.
func (s *DeliveryService) GetDeliveriesByDateRange(ctx context.Context, username string, input SearchInput, params pagination.Params) (*pagination.Page[models.DeliveryResponse], error) {
	dateRange := domain.DateRange{Start: input.StartDate, End: input.EndDate}
	if err := dateRange.Validate(); err != nil {
		return nil, err
	}
	if input.Status != nil && !input.Status.IsValid() {
		verr := &domain.ValidationError{}
		verr.Add("status", "알 수 없는 배달 상태입니다.")
		return nil, verr
	}

	user, err := s.getUser(ctx, username)
	if err != nil {
		return nil, err
	}

	start, end := dateRange.Start.UTC(), dateRange.End.UTC()

	var deliveries []*models.Delivery
	var total int64
	if input.Status != nil {
		deliveries, total, err = s.deliveryRepo.FindByUserIDAndRequestedAtBetweenAndStatus(ctx, user.ID, start, end, *input.Status, params)
	} else {
		deliveries, total, err = s.deliveryRepo.FindByUserIDAndRequestedAtBetween(ctx, user.ID, start, end, params)
	}
	if err != nil {
		return nil, fmt.Errorf("find deliveries: %w", err)
	}

	content := make([]models.DeliveryResponse, 0, len(deliveries))
	for _, d := range deliveries {
		content = append(content, d.ToResponse())
	}
	return pagination.NewPage(content, params, total), nil
}

// GetDelivery returns one of the caller's deliveries
func (s *DeliveryService) GetDelivery(ctx context.Context, username string, id uint) (*models.DeliveryResponse, error) {
	user, err := s.getUser(ctx, username)
	if err != nil {
		return nil, err
	}

	delivery, err := s.getOwned(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}

	response := delivery.ToResponse()
	return &response, nil
}

// CreateDelivery registers a new delivery owned by the caller in the RECEIVED state
func (s *DeliveryService) CreateDelivery(ctx context.Context, username string, input *CreateDeliveryInput) (*models.DeliveryResponse, error) {
	if err := ValidateCreateDelivery(input); err != nil {
		return nil, err
	}

	var delivery *models.Delivery
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.getUser(ctx, username)
		if err != nil {
			return err
		}

		delivery = models.NewDelivery(
			user.ID,
			strings.TrimSpace(input.OriginAddress),
			strings.TrimSpace(input.DestinationAddress),
			input.Price,
			strings.TrimSpace(input.Memo),
			input.EstimatedDeliveryTime,
			s.now(),
		)
		if err := s.deliveryRepo.Create(ctx, delivery); err != nil {
			return fmt.Errorf("create delivery: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Delivery %d created for %s", delivery.ID, username)
	response := delivery.ToResponse()
	return &response, nil
}

// UpdateDestination changes the destination of one of the caller's deliveries
func (s *DeliveryService) UpdateDestination(ctx context.Context, username string, id uint, address string) (*models.DeliveryResponse, error) {
	if err := ValidateDestination(address); err != nil {
		return nil, err
	}

	return s.mutate(ctx, username, id, func(d *models.Delivery, now time.Time) (bool, error) {
		if err := d.UpdateDestinationAddress(strings.TrimSpace(address), now); err != nil {
			return false, err
		}
		return true, nil
	})
}

// ChangeStatus moves one of the caller's deliveries along its lifecycle
func (s *DeliveryService) ChangeStatus(ctx context.Context, username string, id uint, status domain.DeliveryStatus) (*models.DeliveryResponse, error) {
	if !status.IsValid() {
		verr := &domain.ValidationError{}
		verr.Add("status", "알 수 없는 배달 상태입니다.")
		return nil, verr
	}

	return s.mutate(ctx, username, id, func(d *models.Delivery, now time.Time) (bool, error) {
		if d.Status == status {
			return false, nil
		}
		if err := d.ChangeStatus(status, now); err != nil {
			return false, err
		}
		return true, nil
	})
}

// mutate loads an owned delivery, applies change and saves it in one transaction
func (s *DeliveryService) mutate(ctx context.Context, username string, id uint, change func(*models.Delivery, time.Time) (bool, error)) (*models.DeliveryResponse, error) {
	var delivery *models.Delivery
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.getUser(ctx, username)
		if err != nil {
			return err
		}

		delivery, err = s.getOwned(ctx, id, user.ID)
		if err != nil {
			return err
		}

		changed, err := change(delivery, s.now())
		if err != nil || !changed {
			return err
		}

		if err := s.deliveryRepo.Update(ctx, delivery); err != nil {
			return fmt.Errorf("update delivery: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := delivery.ToResponse()
	return &response, nil
}

func (s *DeliveryService) getUser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// getOwned hides whether a delivery is missing or belongs to someone else
func (s *DeliveryService) getOwned(ctx context.Context, id, userID uint) (*models.Delivery, error) {
	delivery, err := s.deliveryRepo.GetByIDAndUserID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDeliveryNotAccessible
		}
		return nil, fmt.Errorf("find delivery: %w", err)
	}
	return delivery, nil
}
