package port

import (
	"context"
	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-core/internal/domain"
)

// CatalogProvider supplies the product snapshot (price, stock, active)
// the cart and checkout price against.
type CatalogProvider interface {
	// GetProduct returns domain.ErrNotFound for unknown ids.
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)
}

// CatalogRepository is the local stand-in for an external catalog:
// the provider contract plus seeding.
type CatalogRepository interface {
	CatalogProvider
	CreateProduct(ctx context.Context, product domain.Product) error
}

// ChargeStatus is the gateway's verdict on a charge attempt.
type ChargeStatus string

const (
	ChargeStatusApproved ChargeStatus = "approved"
	ChargeStatusDeclined ChargeStatus = "declined"
)

type ChargeRequest struct {
	Amount domain.Money
	Method string

	// IdempotencyKey equals the ledger transaction id so a retried
	// charge is never double-applied.
	IdempotencyKey string
}

type ChargeResult struct {
	GatewayTransactionID string
	Status               ChargeStatus
	RawResponse          map[string]any
}

// PaymentGateway performs the actual charge; the core only models its
// contract. Implementations must honor the context deadline.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}
