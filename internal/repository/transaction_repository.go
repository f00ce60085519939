package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
	"github.com/shopspring/decimal"
)

type transactionRepository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewTransaction(pool *pgxpool.Pool) (port.TransactionRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &transactionRepository{
		db:   pool,
		pool: pool,
	}, nil
}

const transactionColumns = `transaction_id, order_id, payment_method_id, amount, currency, status,
	description, metadata, gateway_response, gateway_transaction_id,
	created_at, updated_at, processed_at`

func (r *transactionRepository) GetTransaction(ctx context.Context, transactionID string) (domain.Transaction, error) {
	if transactionID == "" {
		return domain.Transaction{}, fmt.Errorf("transactionID is empty: %w", domain.ErrValidation)
	}

	row := r.db.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = $1`,
		transactionID)

	txn, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Transaction{}, fmt.Errorf("transaction %s: %w", transactionID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("scanTransaction: %w", err)
	}

	return txn, nil
}

func (r *transactionRepository) ListTransactions(ctx context.Context, filter port.TransactionFilter) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions`

	var (
		conds []string
		args  []any
	)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.OrderID != nil {
		args = append(args, *filter.OrderID)
		conds = append(conds, fmt.Sprintf("order_id = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanTransaction: %w", err)
		}
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return txns, nil
}

// UpdateStatus locks the row, validates the move against the state
// machine and applies it with its side effects in the same transaction.
// Racing callers serialize on the row lock; the loser revalidates
// against the winner's status and fails accordingly.
func (r *transactionRepository) UpdateStatus(ctx context.Context, transactionID string,
	status domain.TransactionStatus, effects port.TransitionEffects) (domain.Transaction, error) {

	if transactionID == "" {
		return domain.Transaction{}, fmt.Errorf("transactionID is empty: %w", domain.ErrValidation)
	}

	return withTx(ctx, r.pool, func(tx pgx.Tx) (domain.Transaction, error) {
		row := tx.QueryRow(ctx,
			`SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = $1 FOR UPDATE`,
			transactionID)

		txn, err := scanTransaction(row)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Transaction{}, fmt.Errorf("transaction %s: %w", transactionID, domain.ErrNotFound)
		}
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("scanTransaction: %w", err)
		}

		if txn.Status == status {
			return domain.Transaction{}, fmt.Errorf("transaction %s already %s: %w",
				transactionID, status, domain.ErrAlreadyInState)
		}
		if !domain.CanTransitionTo(txn.Status, status) {
			return domain.Transaction{}, fmt.Errorf("transaction %s: %s -> %s: %w",
				transactionID, txn.Status, status, domain.ErrInvalidTransition)
		}

		if status == domain.TransactionStatusRejected && effects.RejectionReason != "" {
			txn.Metadata = domain.MergeMetadata(txn.Metadata,
				map[string]any{"rejection_reason": effects.RejectionReason})
		}
		if effects.GatewayResponse != nil {
			txn.GatewayResponse = effects.GatewayResponse
		}
		if effects.GatewayTransactionID != "" {
			txn.GatewayTransactionID = effects.GatewayTransactionID
		}

		// Idempotent timestamp: only the first entry into approved
		// stamps processed_at.
		stampProcessed := status == domain.TransactionStatusApproved && txn.ProcessedAt == nil

		row = tx.QueryRow(ctx,
			`UPDATE transactions
			 SET status = $2,
			     metadata = $3,
			     gateway_response = $4,
			     gateway_transaction_id = $5,
			     processed_at = CASE WHEN $6 THEN NOW() ELSE processed_at END,
			     updated_at = NOW()
			 WHERE transaction_id = $1
			 RETURNING `+transactionColumns,
			transactionID, status, txn.Metadata, txn.GatewayResponse,
			txn.GatewayTransactionID, stampProcessed)

		updated, err := scanTransaction(row)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("update transaction: %w", err)
		}

		// An approved charge settles its order.
		if status == domain.TransactionStatusApproved {
			_, err := tx.Exec(ctx,
				`UPDATE orders SET status = $2, updated_at = NOW()
				 WHERE id = $1 AND status = $3`,
				updated.OrderID, domain.OrderStatusPaid, domain.OrderStatusPending)
			if err != nil {
				return domain.Transaction{}, fmt.Errorf("mark order paid: %w", err)
			}
		}

		return updated, nil
	})
}

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var (
		txn    domain.Transaction
		amount decimal.Decimal
		code   string
	)

	err := row.Scan(&txn.TransactionID, &txn.OrderID, &txn.PaymentMethodID,
		&amount, &code, &txn.Status, &txn.Description, &txn.Metadata,
		&txn.GatewayResponse, &txn.GatewayTransactionID,
		&txn.CreatedAt, &txn.UpdatedAt, &txn.ProcessedAt)
	if err != nil {
		return domain.Transaction{}, err
	}

	txn.Amount, err = parseMoney(amount, code)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("parseMoney: %w", err)
	}

	return txn, nil
}
