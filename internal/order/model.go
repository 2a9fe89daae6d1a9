package order

import (
	"time"
)

type OrderStatus string

const (
	StatusPending  OrderStatus = "PENDING"
	StatusFailed   OrderStatus = "FAILED"
	StatusComplete OrderStatus = "COMPLETE"
)

// IsTerminal reports whether the payment flow is finished for this status.
// Terminal orders are never transitioned again by a gateway notification.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusComplete || s == StatusFailed
}

type Order struct {
	ID        uint
	UserID    uint
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Total     float64
	Status    OrderStatus
	CreatedAt time.Time
	UpdatedAt time.Time
	Items     []OrderItem
}

type OrderItem struct {
	ID       uint
	OrderID  uint
	Name     string
	Quantity int
	// Subtotal is the line total as stored by the shop, not recomputed.
	Subtotal float64
}
