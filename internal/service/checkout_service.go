package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
	"go.uber.org/zap"
)

const defaultGatewayTimeout = 5 * time.Second

type CheckoutService struct {
	carts    port.CartRepository
	catalog  port.CatalogProvider
	checkout port.CheckoutRepository
	ledger   port.TransactionRepository
	methods  port.PaymentMethodRepository
	gateway  port.PaymentGateway

	gatewayTimeout time.Duration
	logger         *zap.Logger
}

func NewCheckoutService(
	carts port.CartRepository,
	catalog port.CatalogProvider,
	checkout port.CheckoutRepository,
	ledger port.TransactionRepository,
	methods port.PaymentMethodRepository,
	gateway port.PaymentGateway,
	gatewayTimeout time.Duration,
	logger *zap.Logger,
) (*CheckoutService, error) {
	if carts == nil || catalog == nil || checkout == nil || ledger == nil || methods == nil || gateway == nil {
		return nil, fmt.Errorf("all dependencies are required")
	}
	if gatewayTimeout <= 0 {
		gatewayTimeout = defaultGatewayTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CheckoutService{
		carts:          carts,
		catalog:        catalog,
		checkout:       checkout,
		ledger:         ledger,
		methods:        methods,
		gateway:        gateway,
		gatewayTimeout: gatewayTimeout,
		logger:         logger,
	}, nil
}

// Checkout converts the user's active cart into an order plus a pending
// ledger transaction. Prices are taken from the catalog at this moment,
// not from when lines were added, so the captured order items cannot
// drift with later price changes. The multi-row write is atomic: on any
// failure the cart stays active and no order or transaction rows remain.
func (s *CheckoutService) Checkout(ctx context.Context, userID, paymentMethod string) (port.CheckoutResult, error) {
	if userID == "" {
		return port.CheckoutResult{}, domain.ErrUnauthenticated
	}

	method, err := s.methods.GetPaymentMethodByName(ctx, paymentMethod)
	if err != nil {
		return port.CheckoutResult{}, fmt.Errorf("methods.GetPaymentMethodByName: %w", err)
	}
	if !method.Active {
		return port.CheckoutResult{}, fmt.Errorf("payment method %q is inactive: %w",
			paymentMethod, domain.ErrValidation)
	}

	cart, err := s.carts.GetActiveCart(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return port.CheckoutResult{}, domain.ErrEmptyCart
		}
		return port.CheckoutResult{}, fmt.Errorf("carts.GetActiveCart: %w", err)
	}
	if cart.IsEmpty() {
		return port.CheckoutResult{}, domain.ErrEmptyCart
	}

	snapshot, err := buildSnapshot(ctx, s.catalog, cart.Lines, true, s.logger)
	if err != nil {
		return port.CheckoutResult{}, fmt.Errorf("buildSnapshot: %w", err)
	}

	transactionID := domain.NewTransactionID(time.Now())

	result, err := s.checkout.CreateOrder(ctx, cart, snapshot, method.ID, transactionID)
	if err != nil {
		return port.CheckoutResult{}, fmt.Errorf("checkout.CreateOrder: %w", err)
	}

	s.logger.Info("checkout completed",
		zap.String("user_id", userID),
		zap.String("order_id", result.OrderID.String()),
		zap.String("transaction_id", result.TransactionID),
		zap.String("total", result.Total.Amount.String()))

	return result, nil
}

// ProcessPayment runs the gateway leg of a pending transaction: marks
// it processing, charges with the transaction id as idempotency key,
// then settles it approved or rejected with the raw gateway payload.
// A gateway timeout leaves the row processing for later resolution
// (callback or retry with the same idempotency key) and reports
// domain.ErrGatewayTimeout; a decline settles the row rejected and is
// not an error, the returned state speaks for itself.
func (s *CheckoutService) ProcessPayment(ctx context.Context, transactionID string) (domain.Transaction, error) {
	txn, err := s.ledger.UpdateStatus(ctx, transactionID,
		domain.TransactionStatusProcessing, port.TransitionEffects{})
	if err != nil {
		if !errors.Is(err, domain.ErrAlreadyInState) {
			return domain.Transaction{}, fmt.Errorf("mark processing: %w", err)
		}

		// The row is already processing: a prior attempt timed out
		// after marking it. Resume the charge with the same idempotency
		// key; the gateway replays the recorded outcome if the first
		// charge actually landed.
		txn, err = s.ledger.GetTransaction(ctx, transactionID)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("ledger.GetTransaction: %w", err)
		}
		if txn.Status != domain.TransactionStatusProcessing {
			return domain.Transaction{}, fmt.Errorf("transaction %s is %s: %w",
				transactionID, txn.Status, domain.ErrInvalidTransition)
		}

		s.logger.Info("resuming in-flight payment",
			zap.String("transaction_id", transactionID))
	}

	method, err := s.methods.GetPaymentMethodByID(ctx, txn.PaymentMethodID)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("methods.GetPaymentMethodByID: %w", err)
	}

	// The DB row lock is released before this call; a slow gateway must
	// never pin a lock.
	chargeCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	charge, err := s.gateway.Charge(chargeCtx, port.ChargeRequest{
		Amount:         txn.Amount,
		Method:         method.Name,
		IdempotencyKey: txn.TransactionID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrGatewayTimeout) || errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("gateway timed out, transaction left processing",
				zap.String("transaction_id", transactionID))
			return txn, fmt.Errorf("gateway.Charge: %w", domain.ErrGatewayTimeout)
		}

		rejected, rejectErr := s.ledger.UpdateStatus(ctx, transactionID,
			domain.TransactionStatusRejected, port.TransitionEffects{
				RejectionReason: fmt.Sprintf("gateway error: %v", err),
			})
		if rejectErr != nil {
			return domain.Transaction{}, errors.Join(
				fmt.Errorf("gateway.Charge: %w", err),
				fmt.Errorf("mark rejected: %w", rejectErr))
		}
		return rejected, nil
	}

	if charge.Status == port.ChargeStatusApproved {
		approved, err := s.ledger.UpdateStatus(ctx, transactionID,
			domain.TransactionStatusApproved, port.TransitionEffects{
				GatewayResponse:      charge.RawResponse,
				GatewayTransactionID: charge.GatewayTransactionID,
			})
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("mark approved: %w", err)
		}
		return approved, nil
	}

	reason, _ := charge.RawResponse["decline_reason"].(string)
	if reason == "" {
		reason = "declined by gateway"
	}

	rejected, err := s.ledger.UpdateStatus(ctx, transactionID,
		domain.TransactionStatusRejected, port.TransitionEffects{
			RejectionReason:      reason,
			GatewayResponse:      charge.RawResponse,
			GatewayTransactionID: charge.GatewayTransactionID,
		})
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("mark rejected: %w", err)
	}

	return rejected, nil
}
