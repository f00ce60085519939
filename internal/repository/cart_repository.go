package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
)

type cartRepository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) (port.CartRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &cartRepository{
		db:   pool,
		pool: pool,
	}, nil
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		db:   tx,
		pool: nil, // use provided transaction instead
	}
}

func (r *cartRepository) GetOrCreateActiveCart(ctx context.Context, userID string) (domain.Cart, error) {
	if userID == "" {
		return domain.Cart{}, domain.ErrUnauthenticated
	}

	// Conditional insert against the partial unique index: under a race
	// exactly one caller creates the cart, the rest fall through to the
	// read below.
	_, err := r.db.Exec(ctx,
		`INSERT INTO carts (id, user_id) VALUES ($1, $2)
		 ON CONFLICT (user_id) WHERE is_active DO NOTHING`,
		uuid.New(), userID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("insert cart: %w", err)
	}

	return r.GetActiveCart(ctx, userID)
}

func (r *cartRepository) GetActiveCart(ctx context.Context, userID string) (domain.Cart, error) {
	if userID == "" {
		return domain.Cart{}, domain.ErrUnauthenticated
	}

	var cart domain.Cart
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, is_active, created_at, updated_at
		 FROM carts WHERE user_id = $1 AND is_active`,
		userID).Scan(&cart.ID, &cart.UserID, &cart.Active, &cart.CreatedAt, &cart.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Cart{}, fmt.Errorf("active cart for user %s: %w", userID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("query active cart: %w", err)
	}

	cart.Lines, err = r.getLines(ctx, cart.ID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("getLines: %w", err)
	}

	return cart, nil
}

func (r *cartRepository) AddLine(ctx context.Context, cartID, productID uuid.UUID, quantity int32) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1: %w", domain.ErrValidation)
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO cart_lines (cart_id, product_id, quantity) VALUES ($1, $2, $3)
		 ON CONFLICT (cart_id, product_id)
		 DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity`,
		cartID, productID, quantity)
	if err != nil {
		return fmt.Errorf("upsert cart line: %w", err)
	}

	return nil
}

func (r *cartRepository) SetLineQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int32) error {
	if quantity <= 0 {
		_, err := r.DeleteLine(ctx, cartID, productID)
		return err
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO cart_lines (cart_id, product_id, quantity) VALUES ($1, $2, $3)
		 ON CONFLICT (cart_id, product_id)
		 DO UPDATE SET quantity = EXCLUDED.quantity`,
		cartID, productID, quantity)
	if err != nil {
		return fmt.Errorf("set cart line quantity: %w", err)
	}

	return nil
}

func (r *cartRepository) DeleteLine(ctx context.Context, cartID, productID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM cart_lines WHERE cart_id = $1 AND product_id = $2`,
		cartID, productID)
	if err != nil {
		return false, fmt.Errorf("delete cart line: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *cartRepository) getLines(ctx context.Context, cartID uuid.UUID) ([]domain.CartLine, error) {
	rows, err := r.db.Query(ctx,
		`SELECT product_id, quantity, created_at
		 FROM cart_lines WHERE cart_id = $1 ORDER BY created_at`,
		cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(&line.ProductID, &line.Quantity, &line.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return lines, nil
}
