package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-core/internal/service"
)

type CartHandler struct {
	carts *service.CartService
}

func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type cartLineDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

type cartDTO struct {
	ID       string        `json:"id"`
	UserID   string        `json:"user_id"`
	Lines    []cartLineDTO `json:"lines"`
	Total    string        `json:"total"`
	Currency string        `json:"currency"`
}

func toCartDTO(priced service.PricedCart) cartDTO {
	dto := cartDTO{
		ID:       priced.Cart.ID.String(),
		UserID:   priced.Cart.UserID,
		Lines:    []cartLineDTO{},
		Total:    priced.Total.Amount.StringFixed(2),
		Currency: priced.Total.Currency.String(),
	}
	for _, line := range priced.Cart.Lines {
		dto.Lines = append(dto.Lines, cartLineDTO{
			ProductID: line.ProductID.String(),
			Quantity:  line.Quantity,
		})
	}
	return dto
}

type mutateLineDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	priced, err := h.carts.GetCart(r.Context(), userID(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(priced))
}

func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	req, productID, ok := decodeLine(w, r)
	if !ok {
		return
	}

	priced, err := h.carts.AddLine(r.Context(), userID(r), productID, req.Quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(priced))
}

func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	_, productID, ok := decodeLine(w, r)
	if !ok {
		return
	}

	priced, err := h.carts.RemoveLine(r.Context(), userID(r), productID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(priced))
}

func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	req, productID, ok := decodeLine(w, r)
	if !ok {
		return
	}

	priced, err := h.carts.SetQuantity(r.Context(), userID(r), productID, req.Quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(priced))
}

func decodeLine(w http.ResponseWriter, r *http.Request) (mutateLineDTO, uuid.UUID, bool) {
	var req mutateLineDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return req, uuid.Nil, false
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "product_id must be a UUID")
		return req, uuid.Nil, false
	}

	return req, productID, true
}

// userID comes from the X-User-ID header; real authentication lives in
// front of this service.
func userID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}
