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
	"github.com/shopspring/decimal"
)

type orderRepository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewOrder(pool *pgxpool.Pool) (port.OrderRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &orderRepository{
		db:   pool,
		pool: pool,
	}, nil
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var order domain.Order
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, status, created_at, updated_at FROM orders WHERE id = $1`,
		orderID).Scan(&order.ID, &order.UserID, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("query order: %w", err)
	}

	order.Items, err = r.getItems(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("getItems: %w", err)
	}

	return order, nil
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, status, created_at, updated_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.UserID, &order.Status, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	for i := range orders {
		orders[i].Items, err = r.getItems(ctx, orders[i].ID)
		if err != nil {
			return nil, fmt.Errorf("getItems: %w", err)
		}
	}

	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (domain.Order, error) {
	_, err := withTx(ctx, r.pool, func(tx pgx.Tx) (struct{}, error) {
		var current domain.OrderStatus
		err := tx.QueryRow(ctx,
			`SELECT status FROM orders WHERE id = $1 FOR UPDATE`,
			orderID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return struct{}{}, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
		}
		if err != nil {
			return struct{}{}, fmt.Errorf("lock order: %w", err)
		}

		if !current.CanProgressTo(status) {
			return struct{}{}, fmt.Errorf("order status %s -> %s: %w",
				current, status, domain.ErrInvalidTransition)
		}

		_, err = tx.Exec(ctx,
			`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`,
			orderID, status)
		if err != nil {
			return struct{}{}, fmt.Errorf("update order status: %w", err)
		}

		return struct{}{}, nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	return r.GetOrder(ctx, orderID)
}

func (r *orderRepository) getItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT product_id, quantity, unit_price, price_currency
		 FROM order_items WHERE order_id = $1`,
		orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			item   domain.OrderItem
			amount decimal.Decimal
			code   string
		)
		if err := rows.Scan(&item.ProductID, &item.Quantity, &amount, &code); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}

		item.UnitPrice, err = parseMoney(amount, code)
		if err != nil {
			return nil, fmt.Errorf("parseMoney: %w", err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return items, nil
}
