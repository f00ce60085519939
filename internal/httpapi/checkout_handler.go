package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/nikolayk812/checkout-core/internal/port"
	"github.com/nikolayk812/checkout-core/internal/service"
)

type CheckoutHandler struct {
	checkout *service.CheckoutService
}

func NewCheckoutHandler(checkout *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type checkoutRequestDTO struct {
	PaymentMethod string `json:"payment_method"`
}

type checkoutResponseDTO struct {
	OrderID           string `json:"order_id"`
	OrderStatus       string `json:"order_status"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	Total             string `json:"total"`
	Currency          string `json:"currency"`
}

func toCheckoutDTO(result port.CheckoutResult) checkoutResponseDTO {
	return checkoutResponseDTO{
		OrderID:           result.OrderID.String(),
		OrderStatus:       result.OrderStatus.String(),
		TransactionID:     result.TransactionID,
		TransactionStatus: result.TransactionStatus.String(),
		Total:             result.Total.Amount.StringFixed(2),
		Currency:          result.Total.Currency.String(),
	}
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "credit_card"
	}

	result, err := h.checkout.Checkout(r.Context(), userID(r), req.PaymentMethod)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toCheckoutDTO(result))
}
