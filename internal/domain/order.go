package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

func (s OrderStatus) String() string {
	return string(s)
}

// orderRank orders the forward progression of an order. Canceled is a
// side exit, not part of the rank.
var orderRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusPaid:      1,
	OrderStatusShipped:   2,
	OrderStatusDelivered: 3,
}

// CanProgressTo reports whether an order may move from s to next.
// Progression is monotonic forward; canceled is reachable from any
// non-terminal state and is terminal itself.
func (s OrderStatus) CanProgressTo(next OrderStatus) bool {
	if s == next {
		return false
	}
	if s == OrderStatusCanceled || s == OrderStatusDelivered {
		return false
	}
	if next == OrderStatusCanceled {
		return true
	}

	from, ok := orderRank[s]
	if !ok {
		return false
	}
	to, ok := orderRank[next]
	if !ok {
		return false
	}
	return to > from
}

func ParseOrderStatus(raw string) (OrderStatus, error) {
	switch s := OrderStatus(strings.ToLower(raw)); s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCanceled:
		return s, nil
	}
	return "", fmt.Errorf("unknown order status %q: %w", raw, ErrValidation)
}

// Order is created atomically from a cart snapshot; its items are
// immutable once written.
type Order struct {
	ID     uuid.UUID
	UserID string
	Status OrderStatus
	Items  []OrderItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o Order) Total() Money {
	var total Money
	for i, item := range o.Items {
		if i == 0 {
			total = item.UnitPrice.Mul(item.Quantity)
			continue
		}
		total = total.Add(item.UnitPrice.Mul(item.Quantity))
	}
	return total
}

// OrderItem copies product, quantity and the unit price observed at
// checkout time.
type OrderItem struct {
	ProductID uuid.UUID
	Quantity  int32
	UnitPrice Money
}
