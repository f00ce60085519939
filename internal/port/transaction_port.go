package port

import (
	"context"
	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-core/internal/domain"
)

// TransitionEffects carries the side payload of a status transition.
// All fields are optional.
type TransitionEffects struct {
	// RejectionReason is merged into metadata under "rejection_reason".
	RejectionReason string

	// GatewayResponse replaces the stored raw gateway payload.
	GatewayResponse map[string]any

	// GatewayTransactionID is recorded when non-empty.
	GatewayTransactionID string
}

type TransactionFilter struct {
	Status  *domain.TransactionStatus
	OrderID *uuid.UUID
}

type TransactionRepository interface {
	GetTransaction(ctx context.Context, transactionID string) (domain.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, error)

	// UpdateStatus serializes on the transaction row, validates the move
	// against the ledger state machine and applies it together with its
	// effects: entering approved stamps processed_at once and marks the
	// settled order paid, entering rejected merges the reason into
	// metadata. Returns domain.ErrAlreadyInState when status == current
	// and domain.ErrInvalidTransition for any other disallowed move.
	UpdateStatus(ctx context.Context, transactionID string, status domain.TransactionStatus,
		effects TransitionEffects) (domain.Transaction, error)
}

type PaymentMethodRepository interface {
	ListPaymentMethods(ctx context.Context, activeOnly bool) ([]domain.PaymentMethod, error)
	GetPaymentMethodByName(ctx context.Context, name string) (domain.PaymentMethod, error)
	GetPaymentMethodByID(ctx context.Context, id int64) (domain.PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, name, description string) (domain.PaymentMethod, error)
	DeactivatePaymentMethod(ctx context.Context, id int64) error

	// DeletePaymentMethod fails with domain.ErrPaymentMethodInUse while
	// any transaction references the method.
	DeletePaymentMethod(ctx context.Context, id int64) error
}
