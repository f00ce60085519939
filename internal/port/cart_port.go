package port

import (
	"context"
	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-core/internal/domain"
)

type CartRepository interface {
	// GetOrCreateActiveCart resolves the single active cart of a user,
	// creating it when absent. Safe under concurrent callers: the
	// uniqueness constraint guarantees one winner.
	GetOrCreateActiveCart(ctx context.Context, userID string) (domain.Cart, error)

	// GetActiveCart returns domain.ErrNotFound when the user has no active cart.
	GetActiveCart(ctx context.Context, userID string) (domain.Cart, error)

	// AddLine accumulates quantity on the (cart, product) line.
	AddLine(ctx context.Context, cartID, productID uuid.UUID, quantity int32) error

	// SetLineQuantity replaces the quantity; zero or negative deletes the line.
	SetLineQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int32) error

	// DeleteLine reports whether a line was actually removed.
	DeleteLine(ctx context.Context, cartID, productID uuid.UUID) (bool, error)
}
