package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lanchonete-pos/api/internal/enum"
	"github.com/lanchonete-pos/api/internal/pix"
	"github.com/lanchonete-pos/api/internal/service"
	"github.com/lanchonete-pos/api/internal/store"
)

// PaymentLedger is the checkout and settlement side of order handling.
// Satisfied by *service.Ledger.
type PaymentLedger interface {
	Checkout(ctx context.Context, orderID uuid.UUID) (store.Order, error)
	CompletePayment(ctx context.Context, orderID uuid.UUID, method string) (store.Order, error)
}

// PaymentStore defines the store reads needed to build a PIX charge.
// Satisfied by *store.Store.
type PaymentStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (store.Order, error)
	GetRestaurant(ctx context.Context) (store.Restaurant, error)
}

// PaymentHandler handles checkout and payment endpoints.
type PaymentHandler struct {
	ledger PaymentLedger
	store  PaymentStore
	hub    Broadcaster
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(ledger PaymentLedger, store PaymentStore, hub Broadcaster) *PaymentHandler {
	return &PaymentHandler{ledger: ledger, store: store, hub: hub}
}

// RegisterRoutes registers payment endpoints on the given Chi router.
func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/orders/{id}/checkout", h.Checkout)
	r.Post("/orders/{id}/payment", h.CompletePayment)
	r.Get("/orders/{id}/pix", h.PixCharge)
}

type paymentRequest struct {
	Method string `json:"method"`
}

type pixChargeResponse struct {
	Payload string `json:"payload"`
	Amount  string `json:"amount"`
	PixKey  string `json:"pix_key"`
}

// Checkout closes an order for new items and marks its table pending.
func (h *PaymentHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.ledger.Checkout(r.Context(), id)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	notifyOrder(h.hub, order)
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// CompletePayment settles an order and frees its table.
func (h *PaymentHandler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	order, err := h.ledger.CompletePayment(r.Context(), id, req.Method)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	notifyOrder(h.hub, order)
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// PixCharge returns the copy-and-paste BR Code for an order awaiting payment.
func (h *PaymentHandler) PixCharge(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if order.Status != enum.OrderStatusPendingPayment {
		writeLedgerError(w, service.ErrNotAwaitingPayment)
		return
	}

	restaurant, err := h.store.GetRestaurant(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if restaurant.PixKey == "" {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no PIX key configured"})
		return
	}

	writeJSON(w, http.StatusOK, pixChargeResponse{
		Payload: pix.Payload(restaurant.PixKey, order.Total),
		Amount:  order.Total.StringFixed(2),
		PixKey:  restaurant.PixKey,
	})
}
