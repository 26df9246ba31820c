package enums

import "fmt"

// OrderState tracks the lifecycle of a rental order.
type OrderState string

const (
	OrderStateDraft      OrderState = "draft"
	OrderStateConfirmed  OrderState = "confirmed"
	OrderStateInProgress OrderState = "in_progress"
	OrderStateReturned   OrderState = "returned"
	OrderStateCancelled  OrderState = "cancelled"
)

var validOrderStates = []OrderState{
	OrderStateDraft,
	OrderStateConfirmed,
	OrderStateInProgress,
	OrderStateReturned,
	OrderStateCancelled,
}

// String implements fmt.Stringer.
func (s OrderState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderState.
func (s OrderState) IsValid() bool {
	for _, candidate := range validOrderStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderState converts raw input into an OrderState.
func ParseOrderState(value string) (OrderState, error) {
	for _, candidate := range validOrderStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order state %q", value)
}
