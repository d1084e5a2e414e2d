package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"delivery-tracker/internal/adapters/persistence/models"
	"delivery-tracker/internal/adapters/persistence/repositories"
	"delivery-tracker/internal/core/domain"
	"delivery-tracker/internal/core/services"
	"delivery-tracker/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firstPage() pagination.Params {
	return pagination.NewParams(0, pagination.DefaultSize, services.DefaultDeliverySort)
}

func (e *env) createDelivery(t *testing.T, username, destination string) *models.DeliveryResponse {
	t.Helper()
	d, err := e.delivery.CreateDelivery(context.Background(), username, &services.CreateDeliveryInput{
		OriginAddress:      "서울시 강남구 테헤란로 1",
		DestinationAddress: destination,
		Price:              5000,
	})
	require.NoError(t, err)
	return d
}

func TestDeliveryService_CreateDelivery(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signUp(t, "alice")

	d := e.createDelivery(t, "alice", "서울시 송파구 올림픽로 300")
	assert.NotZero(t, d.ID)
	assert.Equal(t, domain.StatusReceived, d.Status)
	assert.Equal(t, "접수됨", d.StatusLabel)
	assert.True(t, d.RequestedAt.Equal(e.clock.Now()))
	assert.Nil(t, d.CompletedAt)

	_, err := e.delivery.CreateDelivery(ctx, "alice", &services.CreateDeliveryInput{Price: -1, Memo: strings.Repeat("m", 501)})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Violations, 4)

	_, err = e.delivery.CreateDelivery(ctx, "ghost", &services.CreateDeliveryInput{OriginAddress: "a", DestinationAddress: "b"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDeliveryService_GetDeliveriesByDateRange(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signUp(t, "alice")
	e.signUp(t, "bobby")

	start := e.clock.Now()
	for i := 0; i < 3; i++ {
		e.createDelivery(t, "alice", "alice destination")
		e.clock.Advance(time.Hour)
	}
	e.createDelivery(t, "bobby", "bobby destination")

	page, err := e.delivery.GetDeliveriesByDateRange(ctx, "alice", services.SearchInput{
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 3),
	}, firstPage())
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalElements)
	require.Len(t, page.Content, 3)
	assert.True(t, page.Content[0].RequestedAt.After(page.Content[2].RequestedAt))
	for _, d := range page.Content {
		assert.Equal(t, "alice destination", d.DestinationAddress)
	}

	assigned := domain.StatusAssigned
	page, err = e.delivery.GetDeliveriesByDateRange(ctx, "alice", services.SearchInput{
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 1),
		Status:    &assigned,
	}, firstPage())
	require.NoError(t, err)
	assert.Zero(t, page.TotalElements)
	assert.NotNil(t, page.Content)

	_, err = e.delivery.GetDeliveriesByDateRange(ctx, "ghost", services.SearchInput{StartDate: start, EndDate: start}, firstPage())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

type spyUserRepo struct {
	repositories.UserRepository
	calls int
}

func (r *spyUserRepo) GetByUsername(context.Context, string) (*models.User, error) {
	r.calls++
	return &models.User{ID: 1, Username: "alice"}, nil
}

type spyDeliveryRepo struct {
	repositories.DeliveryRepository
	calls int
}

func (r *spyDeliveryRepo) FindByUserIDAndRequestedAtBetween(context.Context, uint, time.Time, time.Time, pagination.Params) ([]*models.Delivery, int64, error) {
	r.calls++
	return nil, 0, nil
}

func (r *spyDeliveryRepo) FindByUserIDAndRequestedAtBetweenAndStatus(context.Context, uint, time.Time, time.Time, domain.DeliveryStatus, pagination.Params) ([]*models.Delivery, int64, error) {
	r.calls++
	return nil, 0, nil
}

func TestDeliveryService_InvalidRangeNeverTouchesStorage(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input services.SearchInput
	}{
		{"start after end", services.SearchInput{StartDate: start.Add(time.Hour), EndDate: start}},
		{"longer than three days", services.SearchInput{StartDate: start, EndDate: start.AddDate(0, 0, 3).Add(time.Second)}},
		{"missing start", services.SearchInput{EndDate: start}},
		{"missing end", services.SearchInput{StartDate: start}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &spyUserRepo{}
			deliveries := &spyDeliveryRepo{}
			svc := services.NewDeliveryService(deliveries, users, nil, nil)

			_, err := svc.GetDeliveriesByDateRange(context.Background(), "alice", tt.input, firstPage())
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Zero(t, users.calls)
			assert.Zero(t, deliveries.calls)
		})
	}

	t.Run("exactly three days", func(t *testing.T) {
		users := &spyUserRepo{}
		deliveries := &spyDeliveryRepo{}
		svc := services.NewDeliveryService(deliveries, users, nil, nil)

		page, err := svc.GetDeliveriesByDateRange(context.Background(), "alice", services.SearchInput{
			StartDate: start,
			EndDate:   start.AddDate(0, 0, 3),
		}, firstPage())
		require.NoError(t, err)
		assert.Empty(t, page.Content)
		assert.Equal(t, 1, deliveries.calls)
	})
}

func TestDeliveryService_UpdateDestination(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signUp(t, "alice")
	d := e.createDelivery(t, "alice", "old destination")

	e.clock.Advance(time.Minute)
	updated, err := e.delivery.UpdateDestination(ctx, "alice", d.ID, "  new destination ")
	require.NoError(t, err)
	assert.Equal(t, "new destination", updated.DestinationAddress)
	assert.True(t, updated.UpdatedAt.Equal(e.clock.Now()))

	_, err = e.delivery.ChangeStatus(ctx, "alice", d.ID, domain.StatusAssigned)
	require.NoError(t, err)
	_, err = e.delivery.UpdateDestination(ctx, "alice", d.ID, "still allowed")
	require.NoError(t, err)

	_, err = e.delivery.ChangeStatus(ctx, "alice", d.ID, domain.StatusInTransit)
	require.NoError(t, err)

	_, err = e.delivery.UpdateDestination(ctx, "alice", d.ID, "too late")
	assert.ErrorIs(t, err, domain.ErrAddressNotUpdatable)
	assert.Contains(t, err.Error(), "배달 중")

	current, err := e.delivery.GetDelivery(ctx, "alice", d.ID)
	require.NoError(t, err)
	assert.Equal(t, "still allowed", current.DestinationAddress)

	_, err = e.delivery.UpdateDestination(ctx, "alice", d.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeliveryService_OwnershipIsIndistinguishableFromAbsence(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signUp(t, "alice")
	e.signUp(t, "bobby")
	d := e.createDelivery(t, "alice", "alice destination")

	_, foreign := e.delivery.UpdateDestination(ctx, "bobby", d.ID, "hijacked")
	_, missing := e.delivery.UpdateDestination(ctx, "bobby", d.ID+100, "hijacked")
	assert.ErrorIs(t, foreign, domain.ErrDeliveryNotAccessible)
	assert.ErrorIs(t, missing, domain.ErrDeliveryNotAccessible)
	assert.Equal(t, foreign.Error(), missing.Error())

	_, err := e.delivery.GetDelivery(ctx, "bobby", d.ID)
	assert.ErrorIs(t, err, domain.ErrDeliveryNotAccessible)
	_, err = e.delivery.ChangeStatus(ctx, "bobby", d.ID, domain.StatusCancelled)
	assert.ErrorIs(t, err, domain.ErrDeliveryNotAccessible)

	current, err := e.delivery.GetDelivery(ctx, "alice", d.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice destination", current.DestinationAddress)
	assert.Equal(t, domain.StatusReceived, current.Status)
}

func TestDeliveryService_ChangeStatus(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signUp(t, "alice")
	d := e.createDelivery(t, "alice", "destination")

	_, err := e.delivery.ChangeStatus(ctx, "alice", d.ID, domain.StatusDelivered)
	var terr *domain.InvalidTransitionError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, domain.StatusReceived, terr.From)

	for _, next := range []domain.DeliveryStatus{domain.StatusAssigned, domain.StatusInTransit} {
		e.clock.Advance(time.Minute)
		_, err := e.delivery.ChangeStatus(ctx, "alice", d.ID, next)
		require.NoError(t, err)
	}

	e.clock.Advance(time.Minute)
	deliveredAt := e.clock.Now()
	delivered, err := e.delivery.ChangeStatus(ctx, "alice", d.ID, domain.StatusDelivered)
	require.NoError(t, err)
	require.NotNil(t, delivered.CompletedAt)
	assert.True(t, delivered.CompletedAt.Equal(deliveredAt))

	// re-applying the terminal status is a no-op
	e.clock.Advance(time.Hour)
	again, err := e.delivery.ChangeStatus(ctx, "alice", d.ID, domain.StatusDelivered)
	require.NoError(t, err)
	assert.True(t, again.CompletedAt.Equal(deliveredAt))
	assert.True(t, again.UpdatedAt.Equal(deliveredAt))

	_, err = e.delivery.ChangeStatus(ctx, "alice", d.ID, domain.StatusCancelled)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	_, err = e.delivery.ChangeStatus(ctx, "alice", d.ID, domain.DeliveryStatus("LOST"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCronService_CleanupExpiredRefreshTokens(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signUp(t, "alice")
	e.signUp(t, "bobby")

	_, err := e.auth.Login(ctx, &services.LoginInput{Username: "alice", Password: strongPassword})
	require.NoError(t, err)
	e.clock.Advance(7 * 24 * time.Hour)
	bobTokens, err := e.auth.Login(ctx, &services.LoginInput{Username: "bobby", Password: strongPassword})
	require.NoError(t, err)

	e.clock.Advance(8 * 24 * time.Hour)
	cron := services.NewCronService(e.refresh, "", e.clock.Now)
	deleted, err := cron.CleanupExpiredRefreshTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = e.auth.Refresh(ctx, bobTokens.RefreshToken)
	assert.NoError(t, err)
}

func TestCronService_RejectsBadSchedule(t *testing.T) {
	e := newEnv(t)
	cron := services.NewCronService(e.refresh, "not a schedule", e.clock.Now)
	assert.Error(t, cron.Start())
}
