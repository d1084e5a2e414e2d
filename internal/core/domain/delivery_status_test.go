package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo_Matrix(t *testing.T) {
	allowed := map[DeliveryStatus]map[DeliveryStatus]bool{
		StatusReceived:  {StatusAssigned: true, StatusCancelled: true},
		StatusAssigned:  {StatusInTransit: true, StatusCancelled: true},
		StatusInTransit: {StatusDelivered: true},
		StatusDelivered: {},
		StatusCancelled: {},
	}

	for _, from := range AllDeliveryStatuses {
		for _, to := range AllDeliveryStatuses {
			want := allowed[from][to]
			assert.Equalf(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusReceived.IsTerminal())
	assert.False(t, StatusAssigned.IsTerminal())
	assert.False(t, StatusInTransit.IsTerminal())
	assert.False(t, DeliveryStatus("LOST").IsTerminal())
}

func TestIsAddressMutable(t *testing.T) {
	tests := []struct {
		status DeliveryStatus
		want   bool
	}{
		{StatusReceived, true},
		{StatusAssigned, true},
		{StatusInTransit, false},
		{StatusDelivered, false},
		{StatusCancelled, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsAddressMutable())
		})
	}
}

func TestParseDeliveryStatus(t *testing.T) {
	s, err := ParseDeliveryStatus(" in_transit ")
	require.NoError(t, err)
	assert.Equal(t, StatusInTransit, s)

	_, err = ParseDeliveryStatus("LOST")
	assert.ErrorIs(t, err, ErrUnknownDeliveryStatus)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "배달 중", StatusInTransit.Label())
	assert.Equal(t, "LOST", DeliveryStatus("LOST").Label())
}

func TestAddressNotUpdatableError(t *testing.T) {
	err := error(&AddressNotUpdatableError{Status: StatusInTransit})
	assert.True(t, errors.Is(err, ErrAddressNotUpdatable))
	assert.Contains(t, err.Error(), "배달 중")
}

func TestDateRange_Validate(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		r       DateRange
		wantErr bool
	}{
		{"same instant", DateRange{start, start}, false},
		{"one day", DateRange{start, start.Add(24 * time.Hour)}, false},
		{"exactly three days", DateRange{start, start.AddDate(0, 0, 3)}, false},
		{"three days and a nanosecond", DateRange{start, start.AddDate(0, 0, 3).Add(time.Nanosecond)}, true},
		{"start after end", DateRange{start.Add(time.Second), start}, true},
		{"missing start", DateRange{End: start}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidationError_CollectsAll(t *testing.T) {
	err := DateRange{}.Validate()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, 2)
}
