package domain

import "errors"

var (
	ErrUnauthenticated       = errors.New("authentication required")
	ErrNotFound              = errors.New("not found")
	ErrEmptyCart             = errors.New("cart is empty, nothing to checkout")
	ErrCartAlreadyCheckedOut = errors.New("cart has already been checked out")
	ErrInvalidTransition     = errors.New("illegal transaction status transition")
	ErrAlreadyInState        = errors.New("transaction already in requested status")
	ErrValidation            = errors.New("validation failed")
	ErrPaymentMethodInUse    = errors.New("payment method is referenced by transactions")
	ErrGatewayTimeout        = errors.New("payment gateway timed out")
)
