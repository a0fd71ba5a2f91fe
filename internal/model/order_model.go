package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusPending  OrderStatus = "PENDING"
	StatusPaid     OrderStatus = "PAID"
	StatusCanceled OrderStatus = "CANCELED"
)

var statusAliases = map[string]OrderStatus{
	"PENDING":   StatusPending,
	"PENDIENTE": StatusPending,
	"PAID":      StatusPaid,
	"PAGADO":    StatusPaid,
	"CANCELED":  StatusCanceled,
	"CANCELLED": StatusCanceled,
	"CANCELADO": StatusCanceled,
}

// ParseOrderStatus accepts the canonical names and the Spanish aliases the
// backend historically used.
func ParseOrderStatus(s string) (OrderStatus, error) {
	if st, ok := statusAliases[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

func (s *OrderStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	st, err := ParseOrderStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// OrderItem freezes the unit price at purchase time.
type OrderItem struct {
	ID              int64   `json:"id"`
	ProductID       string  `json:"productId"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"priceAtPurchase"`
}

type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Total     float64     `json:"total"`
	Status    OrderStatus `json:"status"`
	CreatedAt *time.Time  `json:"createdAt,omitempty"`
	Items     []OrderItem `json:"items"`
}
