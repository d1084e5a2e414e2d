package domain

import "strings"

// DeliveryStatus represents the lifecycle state of a delivery
type DeliveryStatus string

const (
	StatusReceived  DeliveryStatus = "RECEIVED"
	StatusAssigned  DeliveryStatus = "ASSIGNED"
	StatusInTransit DeliveryStatus = "IN_TRANSIT"
	StatusDelivered DeliveryStatus = "DELIVERED"
	StatusCancelled DeliveryStatus = "CANCELLED"
)

// AllDeliveryStatuses lists every status in lifecycle order
var AllDeliveryStatuses = []DeliveryStatus{
	StatusReceived,
	StatusAssigned,
	StatusInTransit,
	StatusDelivered,
	StatusCancelled,
}

// transitions is the lifecycle graph. It is never written after init.
var transitions = map[DeliveryStatus][]DeliveryStatus{
	StatusReceived:  {StatusAssigned, StatusCancelled},
	StatusAssigned:  {StatusInTransit, StatusCancelled},
	StatusInTransit: {StatusDelivered},
	StatusDelivered: nil,
	StatusCancelled: nil,
}

var labels = map[DeliveryStatus]string{
	StatusReceived:  "접수됨",
	StatusAssigned:  "배달원 배정됨",
	StatusInTransit: "배달 중",
	StatusDelivered: "배달 완료",
	StatusCancelled: "배달 취소",
}

// ParseDeliveryStatus converts a case-insensitive name into a status
func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	status := DeliveryStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", ErrUnknownDeliveryStatus
	}
	return status, nil
}

// IsValid reports whether s is one of the five known statuses
func (s DeliveryStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// Label returns the human-readable status name
func (s DeliveryStatus) Label() string {
	if label, ok := labels[s]; ok {
		return label
	}
	return string(s)
}

// CanTransitionTo reports whether next is an edge from s.
// A self transition is not an edge; callers treat it as a no-op.
func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	for _, candidate := range transitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s has no outgoing transitions
func (s DeliveryStatus) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}

// IsAddressMutable reports whether the destination address may still change
func (s DeliveryStatus) IsAddressMutable() bool {
	return s == StatusReceived || s == StatusAssigned
}
