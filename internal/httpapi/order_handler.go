package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type orderItemDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type orderDTO struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Status    string         `json:"status"`
	Items     []orderItemDTO `json:"items"`
	Total     string         `json:"total"`
	Currency  string         `json:"currency"`
	CreatedAt time.Time      `json:"created_at"`
}

func toOrderDTO(order domain.Order) orderDTO {
	total := order.Total()
	dto := orderDTO{
		ID:        order.ID.String(),
		UserID:    order.UserID,
		Status:    order.Status.String(),
		Items:     []orderItemDTO{},
		Total:     total.Amount.StringFixed(2),
		Currency:  total.Currency.String(),
		CreatedAt: order.CreatedAt,
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, orderItemDTO{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Amount.StringFixed(2),
		})
	}
	return dto
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context(), userID(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	dtos := make([]orderDTO, 0, len(orders))
	for _, order := range orders {
		dtos = append(dtos, toOrderDTO(order))
	}
	respondJSON(w, http.StatusOK, dtos)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toOrderDTO(order))
}

type updateOrderStatusDTO struct {
	Status string `json:"status"`
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	var req updateOrderStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toOrderDTO(order))
}

func parseOrderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "order id must be a UUID")
		return uuid.Nil, false
	}
	return orderID, true
}
