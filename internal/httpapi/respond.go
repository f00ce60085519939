package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nikolayk812/checkout-core/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, code, msg string) {
	respondJSON(w, status, ErrorResponse{Error: msg, Code: code})
}

// respondDomainError maps the core error taxonomy onto HTTP statuses.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, domain.ErrCartAlreadyCheckedOut):
		respondError(w, http.StatusConflict, "cart_already_checked_out", err.Error())
	case errors.Is(err, domain.ErrAlreadyInState):
		respondError(w, http.StatusConflict, "already_in_state", err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		respondError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, domain.ErrValidation):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, domain.ErrPaymentMethodInUse):
		respondError(w, http.StatusConflict, "payment_method_in_use", err.Error())
	case errors.Is(err, domain.ErrGatewayTimeout):
		respondError(w, http.StatusGatewayTimeout, "gateway_timeout", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}
