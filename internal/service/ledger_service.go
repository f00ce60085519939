package service

import (
	"context"
	"fmt"

	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
	"go.uber.org/zap"
)

// LedgerService exposes the transaction ledger operations. All state
// changes funnel through the repository's guarded transition, so two
// concurrent callers cannot both apply the same move.
type LedgerService struct {
	ledger port.TransactionRepository
	logger *zap.Logger
}

func NewLedgerService(ledger port.TransactionRepository, logger *zap.Logger) (*LedgerService, error) {
	if ledger == nil {
		return nil, fmt.Errorf("ledger repository is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LedgerService{
		ledger: ledger,
		logger: logger,
	}, nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, transactionID string) (domain.Transaction, error) {
	return s.ledger.GetTransaction(ctx, transactionID)
}

func (s *LedgerService) ListTransactions(ctx context.Context, filter port.TransactionFilter) ([]domain.Transaction, error) {
	return s.ledger.ListTransactions(ctx, filter)
}

func (s *LedgerService) MarkProcessing(ctx context.Context, transactionID string) (domain.Transaction, error) {
	return s.transition(ctx, transactionID, domain.TransactionStatusProcessing, port.TransitionEffects{})
}

func (s *LedgerService) MarkApproved(ctx context.Context, transactionID string) (domain.Transaction, error) {
	return s.transition(ctx, transactionID, domain.TransactionStatusApproved, port.TransitionEffects{})
}

func (s *LedgerService) MarkRejected(ctx context.Context, transactionID, reason string) (domain.Transaction, error) {
	return s.transition(ctx, transactionID, domain.TransactionStatusRejected,
		port.TransitionEffects{RejectionReason: reason})
}

// UpdateStatus is the generic transition used by the status-update
// endpoint; rawStatus is validated before any write happens.
func (s *LedgerService) UpdateStatus(ctx context.Context, transactionID, rawStatus, rejectionReason string) (domain.Transaction, error) {
	status, err := domain.ParseTransactionStatus(rawStatus)
	if err != nil {
		return domain.Transaction{}, err
	}

	return s.transition(ctx, transactionID, status,
		port.TransitionEffects{RejectionReason: rejectionReason})
}

func (s *LedgerService) transition(ctx context.Context, transactionID string,
	status domain.TransactionStatus, effects port.TransitionEffects) (domain.Transaction, error) {

	txn, err := s.ledger.UpdateStatus(ctx, transactionID, status, effects)
	if err != nil {
		return domain.Transaction{}, err
	}

	s.logger.Info("transaction status updated",
		zap.String("transaction_id", transactionID),
		zap.String("status", status.String()))

	return txn, nil
}
