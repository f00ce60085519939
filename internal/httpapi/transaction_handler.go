package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
	"github.com/nikolayk812/checkout-core/internal/service"
)

type TransactionHandler struct {
	ledger   *service.LedgerService
	checkout *service.CheckoutService
	methods  *service.PaymentMethodService
}

func NewTransactionHandler(ledger *service.LedgerService, checkout *service.CheckoutService,
	methods *service.PaymentMethodService) *TransactionHandler {
	return &TransactionHandler{
		ledger:   ledger,
		checkout: checkout,
		methods:  methods,
	}
}

type transactionDTO struct {
	TransactionID        string         `json:"transaction_id"`
	OrderID              string         `json:"order_id"`
	PaymentMethodID      int64          `json:"payment_method_id"`
	Amount               string         `json:"amount"`
	Currency             string         `json:"currency"`
	Status               string         `json:"status"`
	Description          string         `json:"description,omitempty"`
	Metadata             map[string]any `json:"metadata,omitempty"`
	GatewayResponse      map[string]any `json:"gateway_response,omitempty"`
	GatewayTransactionID string         `json:"gateway_transaction_id,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	ProcessedAt          *time.Time     `json:"processed_at,omitempty"`
}

func toTransactionDTO(txn domain.Transaction) transactionDTO {
	return transactionDTO{
		TransactionID:        txn.TransactionID,
		OrderID:              txn.OrderID.String(),
		PaymentMethodID:      txn.PaymentMethodID,
		Amount:               txn.Amount.Amount.StringFixed(2),
		Currency:             txn.Amount.Currency.String(),
		Status:               txn.Status.String(),
		Description:          txn.Description,
		Metadata:             txn.Metadata,
		GatewayResponse:      txn.GatewayResponse,
		GatewayTransactionID: txn.GatewayTransactionID,
		CreatedAt:            txn.CreatedAt,
		ProcessedAt:          txn.ProcessedAt,
	}
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	txn, err := h.ledger.GetTransaction(r.Context(), chi.URLParam(r, "transactionID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toTransactionDTO(txn))
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter port.TransactionFilter

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.ParseTransactionStatus(raw)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		filter.Status = &status
	}
	if raw := r.URL.Query().Get("order_id"); raw != "" {
		orderID, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "validation_error", "order_id must be a UUID")
			return
		}
		filter.OrderID = &orderID
	}

	txns, err := h.ledger.ListTransactions(r.Context(), filter)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	dtos := make([]transactionDTO, 0, len(txns))
	for _, txn := range txns {
		dtos = append(dtos, toTransactionDTO(txn))
	}
	respondJSON(w, http.StatusOK, dtos)
}

type updateStatusDTO struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

func (h *TransactionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	txn, err := h.ledger.UpdateStatus(r.Context(), chi.URLParam(r, "transactionID"),
		req.Status, req.RejectionReason)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toTransactionDTO(txn))
}

// Process runs the gateway charge leg for a pending transaction.
func (h *TransactionHandler) Process(w http.ResponseWriter, r *http.Request) {
	txn, err := h.checkout.ProcessPayment(r.Context(), chi.URLParam(r, "transactionID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toTransactionDTO(txn))
}

type paymentMethodDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"is_active"`
}

type createPaymentMethodDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *TransactionHandler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	methods, err := h.methods.List(r.Context(), activeOnly)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	dtos := make([]paymentMethodDTO, 0, len(methods))
	for _, m := range methods {
		dtos = append(dtos, paymentMethodDTO{
			ID:          m.ID,
			Name:        m.Name,
			Description: m.Description,
			Active:      m.Active,
		})
	}
	respondJSON(w, http.StatusOK, dtos)
}

func (h *TransactionHandler) CreatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req createPaymentMethodDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	method, err := h.methods.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, paymentMethodDTO{
		ID:          method.ID,
		Name:        method.Name,
		Description: method.Description,
		Active:      method.Active,
	})
}

func (h *TransactionHandler) DeletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, ok := parseMethodID(w, r)
	if !ok {
		return
	}

	if err := h.methods.Delete(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeactivatePaymentMethod is the soft alternative to deletion for
// methods with ledger history.
func (h *TransactionHandler) DeactivatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, ok := parseMethodID(w, r)
	if !ok {
		return
	}

	if err := h.methods.Deactivate(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseMethodID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "methodID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "method id must be an integer")
		return 0, false
	}
	return id, true
}
