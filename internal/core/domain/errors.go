package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors
var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// Refresh token errors
var (
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenExpired  = errors.New("refresh token expired")
)

// Delivery errors
var (
	ErrDeliveryNotAccessible   = errors.New("delivery not found or not accessible")
	ErrInvalidStatusTransition = errors.New("invalid delivery status transition")
	ErrAddressNotUpdatable     = errors.New("destination address is not updatable")
	ErrUnknownDeliveryStatus   = errors.New("unknown delivery status")
)

// Violation is a single failed input constraint.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every constraint an input violated.
type ValidationError struct {
	Violations []Violation
}

// Add records a violation for field.
func (e *ValidationError) Add(field, message string) {
	e.Violations = append(e.Violations, Violation{Field: field, Message: message})
}

// OrNil returns e when it holds violations and nil otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Violations) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return strings.Join(msgs, " ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// InvalidTransitionError is returned when a status change is not an edge of
// the lifecycle graph.
type InvalidTransitionError struct {
	From DeliveryStatus
	To   DeliveryStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s 상태에서 %s 상태로 변경할 수 없습니다.", e.From.Label(), e.To.Label())
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidStatusTransition
}

// AddressNotUpdatableError is returned when the destination address is
// changed after the delivery left the pre-transit states.
type AddressNotUpdatableError struct {
	Status DeliveryStatus
}

func (e *AddressNotUpdatableError) Error() string {
	return fmt.Sprintf("%s 상태에서는 도착지 주소를 변경할 수 없습니다.", e.Status.Label())
}

func (e *AddressNotUpdatableError) Unwrap() error {
	return ErrAddressNotUpdatable
}
