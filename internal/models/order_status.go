package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// OrderStatus is the lifecycle state of an order. Codes start at 1 and are
// persisted as-is, so existing values must never be renumbered.
type OrderStatus int

const (
	WaitingPayment OrderStatus = 1
	Paid           OrderStatus = 2
	Shipped        OrderStatus = 3
	Delivered      OrderStatus = 4
	Canceled       OrderStatus = 5
)

// ErrInvalidStatusCode is returned when a code or name maps to no OrderStatus
var ErrInvalidStatusCode = errors.New("invalid order status code")

var statusNames = map[OrderStatus]string{
	WaitingPayment: "WAITING_PAYMENT",
	Paid:           "PAID",
	Shipped:        "SHIPPED",
	Delivered:      "DELIVERED",
	Canceled:       "CANCELED",
}

// OrderStatuses lists every status in code order
func OrderStatuses() []OrderStatus {
	return []OrderStatus{WaitingPayment, Paid, Shipped, Delivered, Canceled}
}

// StatusFromCode returns the status with the given code
func StatusFromCode(code int) (OrderStatus, error) {
	s := OrderStatus(code)
	if _, ok := statusNames[s]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrInvalidStatusCode, code)
	}
	return s, nil
}

// StatusFromName returns the status with the given name, e.g. "PAID"
func StatusFromName(name string) (OrderStatus, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStatusCode, name)
}

// Code returns the persisted integer code
func (s OrderStatus) Code() int {
	return int(s)
}

// Valid reports whether s is one of the defined statuses
func (s OrderStatus) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s OrderStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("OrderStatus(%d)", int(s))
}

// MarshalJSON renders the status by name
func (s OrderStatus) MarshalJSON() ([]byte, error) {
	name, ok := statusNames[s]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatusCode, int(s))
	}
	return json.Marshal(name)
}

// UnmarshalJSON accepts a status name
func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("order status must be a string: %w", err)
	}
	parsed, err := StatusFromName(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value stores the status as its integer code
func (s OrderStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatusCode, int(s))
	}
	return int64(s), nil
}

// Scan reads an integer code; unknown codes abort the scan
func (s *OrderStatus) Scan(src any) error {
	var code int64
	switch v := src.(type) {
	case int64:
		code = v
	case int32:
		code = int64(v)
	case int:
		code = int64(v)
	case []byte:
		var n int
		if _, err := fmt.Sscanf(string(v), "%d", &n); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidStatusCode, v)
		}
		code = int64(n)
	case nil:
		return fmt.Errorf("%w: NULL", ErrInvalidStatusCode)
	default:
		return fmt.Errorf("cannot scan %T into OrderStatus", src)
	}

	parsed, err := StatusFromCode(int(code))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
