package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
	"go.uber.org/zap"
)

// PricedCart is the caller-visible view of the active cart: its raw
// lines plus a total computed from current catalog prices. Lines whose
// product has no known price contribute nothing to the total.
type PricedCart struct {
	Cart  domain.Cart
	Total domain.Money
}

type CartService struct {
	carts   port.CartRepository
	catalog port.CatalogProvider
	logger  *zap.Logger
}

func NewCartService(carts port.CartRepository, catalog port.CatalogProvider, logger *zap.Logger) (*CartService, error) {
	if carts == nil {
		return nil, fmt.Errorf("carts repository is nil")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog provider is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CartService{
		carts:   carts,
		catalog: catalog,
		logger:  logger,
	}, nil
}

// AddLine verifies the product exists before touching the cart, then
// accumulates quantity on the (cart, product) line of the user's active
// cart, creating the cart on first use.
func (s *CartService) AddLine(ctx context.Context, userID string, productID uuid.UUID, quantity int32) (PricedCart, error) {
	if userID == "" {
		return PricedCart{}, domain.ErrUnauthenticated
	}
	if quantity < 1 {
		return PricedCart{}, fmt.Errorf("quantity must be at least 1: %w", domain.ErrValidation)
	}

	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return PricedCart{}, fmt.Errorf("catalog.GetProduct: %w", err)
	}

	cart, err := s.carts.GetOrCreateActiveCart(ctx, userID)
	if err != nil {
		return PricedCart{}, fmt.Errorf("carts.GetOrCreateActiveCart: %w", err)
	}

	if err := s.carts.AddLine(ctx, cart.ID, productID, quantity); err != nil {
		return PricedCart{}, fmt.Errorf("carts.AddLine: %w", err)
	}

	return s.GetCart(ctx, userID)
}

// RemoveLine is a no-op when the line or even the cart does not exist.
func (s *CartService) RemoveLine(ctx context.Context, userID string, productID uuid.UUID) (PricedCart, error) {
	if userID == "" {
		return PricedCart{}, domain.ErrUnauthenticated
	}

	cart, err := s.carts.GetOrCreateActiveCart(ctx, userID)
	if err != nil {
		return PricedCart{}, fmt.Errorf("carts.GetOrCreateActiveCart: %w", err)
	}

	if _, err := s.carts.DeleteLine(ctx, cart.ID, productID); err != nil {
		return PricedCart{}, fmt.Errorf("carts.DeleteLine: %w", err)
	}

	return s.GetCart(ctx, userID)
}

// SetQuantity replaces the line quantity; zero or negative removes the line.
func (s *CartService) SetQuantity(ctx context.Context, userID string, productID uuid.UUID, quantity int32) (PricedCart, error) {
	if userID == "" {
		return PricedCart{}, domain.ErrUnauthenticated
	}

	cart, err := s.carts.GetOrCreateActiveCart(ctx, userID)
	if err != nil {
		return PricedCart{}, fmt.Errorf("carts.GetOrCreateActiveCart: %w", err)
	}

	if err := s.carts.SetLineQuantity(ctx, cart.ID, productID, quantity); err != nil {
		return PricedCart{}, fmt.Errorf("carts.SetLineQuantity: %w", err)
	}

	return s.GetCart(ctx, userID)
}

func (s *CartService) GetCart(ctx context.Context, userID string) (PricedCart, error) {
	if userID == "" {
		return PricedCart{}, domain.ErrUnauthenticated
	}

	cart, err := s.carts.GetOrCreateActiveCart(ctx, userID)
	if err != nil {
		return PricedCart{}, fmt.Errorf("carts.GetOrCreateActiveCart: %w", err)
	}

	snapshot, err := buildSnapshot(ctx, s.catalog, cart.Lines, false, s.logger)
	if err != nil {
		return PricedCart{}, fmt.Errorf("buildSnapshot: %w", err)
	}

	return PricedCart{
		Cart:  cart,
		Total: snapshot.Total,
	}, nil
}
