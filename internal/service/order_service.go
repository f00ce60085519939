package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
	"go.uber.org/zap"
)

// OrderService reads order history and drives fulfillment progression.
// Payment settles orders through the ledger; this service only handles
// the post-payment moves (shipped, delivered, canceled).
type OrderService struct {
	orders port.OrderRepository
	logger *zap.Logger
}

func NewOrderService(orders port.OrderRepository, logger *zap.Logger) (*OrderService, error) {
	if orders == nil {
		return nil, fmt.Errorf("orders repository is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OrderService{
		orders: orders,
		logger: logger,
	}, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	return s.orders.GetOrder(ctx, orderID)
}

func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.orders.ListOrdersByUser(ctx, userID)
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, rawStatus string) (domain.Order, error) {
	status, err := domain.ParseOrderStatus(rawStatus)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return domain.Order{}, err
	}

	s.logger.Info("order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("status", status.String()))

	return order, nil
}
