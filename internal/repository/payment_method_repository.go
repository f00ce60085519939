package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
)

// foreignKeyViolation is the Postgres error code raised when a delete
// would orphan referencing transactions.
const foreignKeyViolation = "23503"

type paymentMethodRepository struct {
	db dbtx
}

func NewPaymentMethod(pool *pgxpool.Pool) (port.PaymentMethodRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &paymentMethodRepository{db: pool}, nil
}

func (r *paymentMethodRepository) ListPaymentMethods(ctx context.Context, activeOnly bool) ([]domain.PaymentMethod, error) {
	query := `SELECT id, name, description, is_active, created_at, updated_at
	          FROM payment_methods`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query payment methods: %w", err)
	}
	defer rows.Close()

	var methods []domain.PaymentMethod
	for rows.Next() {
		var m domain.PaymentMethod
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Active, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		methods = append(methods, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return methods, nil
}

func (r *paymentMethodRepository) GetPaymentMethodByName(ctx context.Context, name string) (domain.PaymentMethod, error) {
	if name == "" {
		return domain.PaymentMethod{}, fmt.Errorf("name is empty: %w", domain.ErrValidation)
	}

	var m domain.PaymentMethod
	err := r.db.QueryRow(ctx,
		`SELECT id, name, description, is_active, created_at, updated_at
		 FROM payment_methods WHERE name = $1`,
		name).Scan(&m.ID, &m.Name, &m.Description, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PaymentMethod{}, fmt.Errorf("payment method %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return domain.PaymentMethod{}, fmt.Errorf("query payment method: %w", err)
	}

	return m, nil
}

func (r *paymentMethodRepository) GetPaymentMethodByID(ctx context.Context, id int64) (domain.PaymentMethod, error) {
	var m domain.PaymentMethod
	err := r.db.QueryRow(ctx,
		`SELECT id, name, description, is_active, created_at, updated_at
		 FROM payment_methods WHERE id = $1`,
		id).Scan(&m.ID, &m.Name, &m.Description, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PaymentMethod{}, fmt.Errorf("payment method %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.PaymentMethod{}, fmt.Errorf("query payment method: %w", err)
	}

	return m, nil
}

func (r *paymentMethodRepository) CreatePaymentMethod(ctx context.Context, name, description string) (domain.PaymentMethod, error) {
	if name == "" {
		return domain.PaymentMethod{}, fmt.Errorf("name is empty: %w", domain.ErrValidation)
	}

	var m domain.PaymentMethod
	err := r.db.QueryRow(ctx,
		`INSERT INTO payment_methods (name, description) VALUES ($1, $2)
		 RETURNING id, name, description, is_active, created_at, updated_at`,
		name, description).Scan(&m.ID, &m.Name, &m.Description, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return domain.PaymentMethod{}, fmt.Errorf("insert payment method: %w", err)
	}

	return m, nil
}

func (r *paymentMethodRepository) DeactivatePaymentMethod(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE payment_methods SET is_active = FALSE, updated_at = NOW() WHERE id = $1`,
		id)
	if err != nil {
		return fmt.Errorf("deactivate payment method: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment method %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *paymentMethodRepository) DeletePaymentMethod(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM payment_methods WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return fmt.Errorf("payment method %d: %w", id, domain.ErrPaymentMethodInUse)
		}
		return fmt.Errorf("delete payment method: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment method %d: %w", id, domain.ErrNotFound)
	}

	return nil
}
