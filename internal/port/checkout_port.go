package port

import (
	"context"
	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-core/internal/domain"
)

// CheckoutResult is the caller-visible outcome of a successful checkout.
type CheckoutResult struct {
	OrderID           uuid.UUID
	OrderStatus       domain.OrderStatus
	TransactionID     string
	TransactionStatus domain.TransactionStatus
	Total             domain.Money
}

type CheckoutRepository interface {
	// CreateOrder performs the whole checkout write as one transaction:
	// conditionally deactivates the cart (losing racers get
	// domain.ErrCartAlreadyCheckedOut), inserts the order with items
	// priced from the snapshot, and opens a pending ledger transaction.
	// Either all rows land or none do.
	CreateOrder(ctx context.Context, cart domain.Cart, snapshot domain.CartSnapshot,
		paymentMethodID int64, transactionID string) (CheckoutResult, error)
}

type OrderRepository interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)

	// UpdateStatus enforces monotonic forward progression.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (domain.Order, error)
}
