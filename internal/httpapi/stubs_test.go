package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
)

type stubCartRepo struct {
	carts map[string]*domain.Cart
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{carts: make(map[string]*domain.Cart)}
}

func (s *stubCartRepo) GetOrCreateActiveCart(_ context.Context, userID string) (domain.Cart, error) {
	cart, ok := s.carts[userID]
	if !ok {
		cart = &domain.Cart{ID: uuid.New(), UserID: userID, Active: true}
		s.carts[userID] = cart
	}
	return *cart, nil
}

func (s *stubCartRepo) GetActiveCart(_ context.Context, userID string) (domain.Cart, error) {
	cart, ok := s.carts[userID]
	if !ok || !cart.Active {
		return domain.Cart{}, fmt.Errorf("active cart: %w", domain.ErrNotFound)
	}
	return *cart, nil
}

func (s *stubCartRepo) AddLine(_ context.Context, cartID, productID uuid.UUID, quantity int32) error {
	cart := s.byID(cartID)
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

func (s *stubCartRepo) SetLineQuantity(_ context.Context, cartID, productID uuid.UUID, quantity int32) error {
	cart := s.byID(cartID)
	if cart == nil {
		return domain.ErrNotFound
	}
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			if quantity <= 0 {
				cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
			} else {
				cart.Lines[i].Quantity = quantity
			}
			return nil
		}
	}
	if quantity > 0 {
		cart.Lines = append(cart.Lines, domain.CartLine{ProductID: productID, Quantity: quantity})
	}
	return nil
}

func (s *stubCartRepo) DeleteLine(_ context.Context, cartID, productID uuid.UUID) (bool, error) {
	cart := s.byID(cartID)
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

func (s *stubCartRepo) byID(cartID uuid.UUID) *domain.Cart {
	for _, cart := range s.carts {
		if cart.ID == cartID {
			return cart
		}
	}
	return nil
}

type stubCatalog struct {
	products map[uuid.UUID]domain.Product
}

func (s *stubCatalog) GetProduct(_ context.Context, productID uuid.UUID) (domain.Product, error) {
	product, ok := s.products[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	return product, nil
}

type stubOrderRepo struct {
	orders map[uuid.UUID]*domain.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
}

func (s *stubOrderRepo) GetOrder(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return domain.Order{}, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	return *order, nil
}

func (s *stubOrderRepo) ListOrdersByUser(_ context.Context, userID string) ([]domain.Order, error) {
	out := []domain.Order{}
	for _, order := range s.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, orderID uuid.UUID, status domain.OrderStatus) (domain.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return domain.Order{}, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	if !order.Status.CanProgressTo(status) {
		return domain.Order{}, fmt.Errorf("order status %s -> %s: %w",
			order.Status, status, domain.ErrInvalidTransition)
	}
	order.Status = status
	return *order, nil
}

type stubCheckoutRepo struct {
	carts  *stubCartRepo
	orders *stubOrderRepo
	ledger *stubLedger
}

func (s *stubCheckoutRepo) CreateOrder(_ context.Context, cart domain.Cart, snapshot domain.CartSnapshot,
	paymentMethodID int64, transactionID string) (port.CheckoutResult, error) {

	stored := s.carts.byID(cart.ID)
	if stored == nil || !stored.Active {
		return port.CheckoutResult{}, domain.ErrCartAlreadyCheckedOut
	}
	stored.Active = false

	orderID := uuid.New()
	now := time.Now()

	items := make([]domain.OrderItem, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		items = append(items, domain.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	s.orders.orders[orderID] = &domain.Order{
		ID:        orderID,
		UserID:    cart.UserID,
		Status:    domain.OrderStatusPending,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.ledger.txns[transactionID] = &domain.Transaction{
		TransactionID:   transactionID,
		OrderID:         orderID,
		PaymentMethodID: paymentMethodID,
		Amount:          snapshot.Total,
		Status:          domain.TransactionStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	return port.CheckoutResult{
		OrderID:           orderID,
		OrderStatus:       domain.OrderStatusPending,
		TransactionID:     transactionID,
		TransactionStatus: domain.TransactionStatusPending,
		Total:             snapshot.Total,
	}, nil
}

type stubLedger struct {
	txns map[string]*domain.Transaction
}

func newStubLedger() *stubLedger {
	return &stubLedger{txns: make(map[string]*domain.Transaction)}
}

func (s *stubLedger) GetTransaction(_ context.Context, transactionID string) (domain.Transaction, error) {
	txn, ok := s.txns[transactionID]
	if !ok {
		return domain.Transaction{}, fmt.Errorf("transaction %s: %w", transactionID, domain.ErrNotFound)
	}
	return *txn, nil
}

func (s *stubLedger) ListTransactions(_ context.Context, filter port.TransactionFilter) ([]domain.Transaction, error) {
	out := []domain.Transaction{}
	for _, txn := range s.txns {
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

func (s *stubLedger) UpdateStatus(_ context.Context, transactionID string,
	status domain.TransactionStatus, effects port.TransitionEffects) (domain.Transaction, error) {

	txn, ok := s.txns[transactionID]
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

type stubMethods struct {
	methods []domain.PaymentMethod
}

func (s *stubMethods) ListPaymentMethods(_ context.Context, activeOnly bool) ([]domain.PaymentMethod, error) {
	out := []domain.PaymentMethod{}
	for _, m := range s.methods {
		if activeOnly && !m.Active {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *stubMethods) GetPaymentMethodByName(_ context.Context, name string) (domain.PaymentMethod, error) {
	for _, m := range s.methods {
		if m.Name == name {
			return m, nil
		}
	}
	return domain.PaymentMethod{}, fmt.Errorf("payment method %q: %w", name, domain.ErrNotFound)
}

func (s *stubMethods) GetPaymentMethodByID(_ context.Context, id int64) (domain.PaymentMethod, error) {
	for _, m := range s.methods {
		if m.ID == id {
			return m, nil
		}
	}
	return domain.PaymentMethod{}, fmt.Errorf("payment method %d: %w", id, domain.ErrNotFound)
}

func (s *stubMethods) CreatePaymentMethod(_ context.Context, name, description string) (domain.PaymentMethod, error) {
	m := domain.PaymentMethod{ID: int64(len(s.methods) + 1), Name: name, Description: description, Active: true}
	s.methods = append(s.methods, m)
	return m, nil
}

func (s *stubMethods) DeactivatePaymentMethod(_ context.Context, id int64) error {
	for i := range s.methods {
		if s.methods[i].ID == id {
			s.methods[i].Active = false
			return nil
		}
	}
	return fmt.Errorf("payment method %d: %w", id, domain.ErrNotFound)
}

func (s *stubMethods) DeletePaymentMethod(_ context.Context, id int64) error {
	for i, m := range s.methods {
		if m.ID == id {
			s.methods = append(s.methods[:i], s.methods[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("payment method %d: %w", id, domain.ErrNotFound)
}
