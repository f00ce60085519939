package service

import (
	"context"
	"fmt"

	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
)

// PaymentMethodService manages the payment method reference data.
type PaymentMethodService struct {
	methods port.PaymentMethodRepository
}

func NewPaymentMethodService(methods port.PaymentMethodRepository) (*PaymentMethodService, error) {
	if methods == nil {
		return nil, fmt.Errorf("payment methods repository is nil")
	}

	return &PaymentMethodService{methods: methods}, nil
}

func (s *PaymentMethodService) List(ctx context.Context, activeOnly bool) ([]domain.PaymentMethod, error) {
	return s.methods.ListPaymentMethods(ctx, activeOnly)
}

func (s *PaymentMethodService) Create(ctx context.Context, name, description string) (domain.PaymentMethod, error) {
	if name == "" {
		return domain.PaymentMethod{}, fmt.Errorf("name is required: %w", domain.ErrValidation)
	}

	return s.methods.CreatePaymentMethod(ctx, name, description)
}

func (s *PaymentMethodService) Deactivate(ctx context.Context, id int64) error {
	return s.methods.DeactivatePaymentMethod(ctx, id)
}

// Delete is blocked while any transaction references the method.
func (s *PaymentMethodService) Delete(ctx context.Context, id int64) error {
	return s.methods.DeletePaymentMethod(ctx, id)
}
