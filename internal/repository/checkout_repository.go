package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
)

type checkoutRepository struct {
	pool *pgxpool.Pool
}

func NewCheckout(pool *pgxpool.Pool) (port.CheckoutRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &checkoutRepository{pool: pool}, nil
}

// CreateOrder runs the whole checkout write in one transaction. The
// conditional cart deactivation is the serialization point: of two
// concurrent checkouts on the same cart only one sees rows affected,
// the other aborts with ErrCartAlreadyCheckedOut and nothing it wrote
// becomes visible.
func (r *checkoutRepository) CreateOrder(ctx context.Context, cart domain.Cart,
	snapshot domain.CartSnapshot, paymentMethodID int64, transactionID string) (port.CheckoutResult, error) {

	if cart.IsEmpty() || len(snapshot.Lines) == 0 {
		return port.CheckoutResult{}, domain.ErrEmptyCart
	}
	if !snapshot.Total.IsPositive() {
		return port.CheckoutResult{}, fmt.Errorf("checkout total must be positive: %w", domain.ErrValidation)
	}

	return withTx(ctx, r.pool, func(tx pgx.Tx) (port.CheckoutResult, error) {
		if err := deactivateCart(ctx, tx, cart.ID); err != nil {
			return port.CheckoutResult{}, err
		}

		orderID := uuid.New()
		_, err := tx.Exec(ctx,
			`INSERT INTO orders (id, user_id, status) VALUES ($1, $2, $3)`,
			orderID, cart.UserID, domain.OrderStatusPending)
		if err != nil {
			return port.CheckoutResult{}, fmt.Errorf("insert order: %w", err)
		}

		for _, line := range snapshot.Lines {
			_, err := tx.Exec(ctx,
				`INSERT INTO order_items (order_id, product_id, quantity, unit_price, price_currency)
				 VALUES ($1, $2, $3, $4, $5)`,
				orderID, line.ProductID, line.Quantity,
				line.UnitPrice.Amount, line.UnitPrice.Currency.String())
			if err != nil {
				return port.CheckoutResult{}, fmt.Errorf("insert order item %s: %w", line.ProductID, err)
			}
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO transactions (transaction_id, order_id, payment_method_id, amount, currency, status)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			transactionID, orderID, paymentMethodID,
			snapshot.Total.Amount, snapshot.Total.Currency.String(), domain.TransactionStatusPending)
		if err != nil {
			return port.CheckoutResult{}, fmt.Errorf("insert transaction: %w", err)
		}

		return port.CheckoutResult{
			OrderID:           orderID,
			OrderStatus:       domain.OrderStatusPending,
			TransactionID:     transactionID,
			TransactionStatus: domain.TransactionStatusPending,
			Total:             snapshot.Total,
		}, nil
	})
}

func deactivateCart(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error {
	tag, err := tx.Exec(ctx,
		`UPDATE carts SET is_active = FALSE, updated_at = NOW()
		 WHERE id = $1 AND is_active`,
		cartID)
	if err != nil {
		return fmt.Errorf("deactivate cart: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrCartAlreadyCheckedOut
	}

	return nil
}
