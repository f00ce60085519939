package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
)

// mockCartRepo keeps carts in memory per user.
type mockCartRepo struct {
	carts map[string]*domain.Cart
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[string]*domain.Cart)}
}

func (m *mockCartRepo) GetOrCreateActiveCart(_ context.Context, userID string) (domain.Cart, error) {
	cart, ok := m.carts[userID]
	if !ok {
		cart = &domain.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Active: true,
		}
		m.carts[userID] = cart
	}
	return *cart, nil
}

func (m *mockCartRepo) GetActiveCart(_ context.Context, userID string) (domain.Cart, error) {
	cart, ok := m.carts[userID]
	if !ok || !cart.Active {
		return domain.Cart{}, fmt.Errorf("active cart for user %s: %w", userID, domain.ErrNotFound)
	}
	return *cart, nil
}

func (m *mockCartRepo) AddLine(_ context.Context, cartID, productID uuid.UUID, quantity int32) error {
	cart := m.findCart(cartID)
	if cart == nil {
		return domain.ErrNotFound
	}
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			cart.Lines[i].Quantity += quantity
			return nil
		}
	}
	cart.Lines = append(cart.Lines, domain.CartLine{ProductID: productID, Quantity: quantity})
	return nil
}

func (m *mockCartRepo) SetLineQuantity(_ context.Context, cartID, productID uuid.UUID, quantity int32) error {
	if quantity <= 0 {
		_, err := m.DeleteLine(context.Background(), cartID, productID)
		return err
	}

	cart := m.findCart(cartID)
	if cart == nil {
		return domain.ErrNotFound
	}
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			cart.Lines[i].Quantity = quantity
			return nil
		}
	}
	cart.Lines = append(cart.Lines, domain.CartLine{ProductID: productID, Quantity: quantity})
	return nil
}

func (m *mockCartRepo) DeleteLine(_ context.Context, cartID, productID uuid.UUID) (bool, error) {
	cart := m.findCart(cartID)
	if cart == nil {
		return false, nil
	}
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCartRepo) findCart(cartID uuid.UUID) *domain.Cart {
	for _, cart := range m.carts {
		if cart.ID == cartID {
			return cart
		}
	}
	return nil
}

// mockCatalog serves products from a map.
type mockCatalog struct {
	products map[uuid.UUID]domain.Product
}

func newMockCatalog(products ...domain.Product) *mockCatalog {
	m := &mockCatalog{products: make(map[uuid.UUID]domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockCatalog) GetProduct(_ context.Context, productID uuid.UUID) (domain.Product, error) {
	product, ok := m.products[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	return product, nil
}

// mockCheckoutRepo captures the atomic write and simulates the CAS on
// the cart's active flag.
type mockCheckoutRepo struct {
	carts *mockCartRepo

	createErr error

	createdCart     *domain.Cart
	createdSnapshot *domain.CartSnapshot
	createdMethodID int64
	createdTxnID    string
}

func (m *mockCheckoutRepo) CreateOrder(_ context.Context, cart domain.Cart, snapshot domain.CartSnapshot,
	paymentMethodID int64, transactionID string) (port.CheckoutResult, error) {

	if m.createErr != nil {
		return port.CheckoutResult{}, m.createErr
	}

	stored := m.carts.findCart(cart.ID)
	if stored == nil || !stored.Active {
		return port.CheckoutResult{}, domain.ErrCartAlreadyCheckedOut
	}
	stored.Active = false

	m.createdCart = &cart
	m.createdSnapshot = &snapshot
	m.createdMethodID = paymentMethodID
	m.createdTxnID = transactionID

	return port.CheckoutResult{
		OrderID:           uuid.New(),
		OrderStatus:       domain.OrderStatusPending,
		TransactionID:     transactionID,
		TransactionStatus: domain.TransactionStatusPending,
		Total:             snapshot.Total,
	}, nil
}

// mockLedger replicates the guarded transition semantics in memory.
type mockLedger struct {
	txns map[string]*domain.Transaction
}

func newMockLedger(txns ...*domain.Transaction) *mockLedger {
	m := &mockLedger{txns: make(map[string]*domain.Transaction)}
	for _, txn := range txns {
		m.txns[txn.TransactionID] = txn
	}
	return m
}

func (m *mockLedger) GetTransaction(_ context.Context, transactionID string) (domain.Transaction, error) {
	txn, ok := m.txns[transactionID]
	if !ok {
		return domain.Transaction{}, fmt.Errorf("transaction %s: %w", transactionID, domain.ErrNotFound)
	}
	return *txn, nil
}

func (m *mockLedger) ListTransactions(_ context.Context, filter port.TransactionFilter) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, txn := range m.txns {
		if filter.Status != nil && txn.Status != *filter.Status {
			continue
		}
		if filter.OrderID != nil && txn.OrderID != *filter.OrderID {
			continue
		}
		out = append(out, *txn)
	}
	return out, nil
}

func (m *mockLedger) UpdateStatus(_ context.Context, transactionID string,
	status domain.TransactionStatus, effects port.TransitionEffects) (domain.Transaction, error) {

	txn, ok := m.txns[transactionID]
	if !ok {
		return domain.Transaction{}, fmt.Errorf("transaction %s: %w", transactionID, domain.ErrNotFound)
	}

	if txn.Status == status {
		return domain.Transaction{}, fmt.Errorf("already %s: %w", status, domain.ErrAlreadyInState)
	}
	if !domain.CanTransitionTo(txn.Status, status) {
		return domain.Transaction{}, fmt.Errorf("%s -> %s: %w", txn.Status, status, domain.ErrInvalidTransition)
	}

	txn.Status = status
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
	if status == domain.TransactionStatusApproved && txn.ProcessedAt == nil {
		now := time.Now()
		txn.ProcessedAt = &now
	}

	return *txn, nil
}

// mockMethods serves a fixed payment method set.
type mockMethods struct {
	methods []domain.PaymentMethod
}

func newMockMethods(methods ...domain.PaymentMethod) *mockMethods {
	return &mockMethods{methods: methods}
}

func (m *mockMethods) ListPaymentMethods(_ context.Context, activeOnly bool) ([]domain.PaymentMethod, error) {
	var out []domain.PaymentMethod
	for _, method := range m.methods {
		if activeOnly && !method.Active {
			continue
		}
		out = append(out, method)
	}
	return out, nil
}

func (m *mockMethods) GetPaymentMethodByName(_ context.Context, name string) (domain.PaymentMethod, error) {
	for _, method := range m.methods {
		if method.Name == name {
			return method, nil
		}
	}
	return domain.PaymentMethod{}, fmt.Errorf("payment method %q: %w", name, domain.ErrNotFound)
}

func (m *mockMethods) GetPaymentMethodByID(_ context.Context, id int64) (domain.PaymentMethod, error) {
	for _, method := range m.methods {
		if method.ID == id {
			return method, nil
		}
	}
	return domain.PaymentMethod{}, fmt.Errorf("payment method %d: %w", id, domain.ErrNotFound)
}

func (m *mockMethods) CreatePaymentMethod(_ context.Context, name, description string) (domain.PaymentMethod, error) {
	method := domain.PaymentMethod{ID: int64(len(m.methods) + 1), Name: name, Description: description, Active: true}
	m.methods = append(m.methods, method)
	return method, nil
}

func (m *mockMethods) DeactivatePaymentMethod(context.Context, int64) error { return nil }
func (m *mockMethods) DeletePaymentMethod(context.Context, int64) error    { return nil }

// mockGateway returns a canned result or error.
type mockGateway struct {
	result port.ChargeResult
	err    error

	charges []port.ChargeRequest
}

func (m *mockGateway) Charge(_ context.Context, req port.ChargeRequest) (port.ChargeResult, error) {
	m.charges = append(m.charges, req)
	if m.err != nil {
		return port.ChargeResult{}, m.err
	}
	return m.result, nil
}
