package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lanchonete-pos/api/internal/enum"
	"github.com/lanchonete-pos/api/internal/middleware"
	"github.com/lanchonete-pos/api/internal/service"
	"github.com/lanchonete-pos/api/internal/store"
	"github.com/lanchonete-pos/api/internal/ws"
)

// OrderLedger is the write side of order handling.
// Satisfied by *service.Ledger.
type OrderLedger interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (store.Order, error)
	AddItem(ctx context.Context, orderID uuid.UUID, req service.AddItemRequest) (store.LineItem, error)
	UpdateItemQuantity(ctx context.Context, orderID, itemID uuid.UUID, quantity int32) (store.Order, error)
	RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (store.Order, error)
}

// OrderReader is the read side of order handling.
// Satisfied by *store.Store.
type OrderReader interface {
	GetOrder(ctx context.Context, id uuid.UUID) (store.Order, error)
	ListOrders(ctx context.Context) ([]store.Order, error)
}

// Broadcaster pushes events to connected terminals.
// Satisfied by *ws.Hub.
type Broadcaster interface {
	Broadcast(event ws.Event)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	ledger OrderLedger
	reader OrderReader
	hub    Broadcaster
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(ledger OrderLedger, reader OrderReader, hub Broadcaster) *OrderHandler {
	return &OrderHandler{ledger: ledger, reader: reader, hub: hub}
}

// RegisterRoutes registers order endpoints on the given Chi router.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/orders", h.Create)
	r.Get("/orders", h.List)
	r.Get("/orders/{id}", h.Get)
	r.Post("/orders/{id}/items", h.AddItem)
	r.Patch("/orders/{id}/items/{itemID}", h.UpdateItem)
	r.Delete("/orders/{id}/items/{itemID}", h.RemoveItem)
}

// --- Request / Response types ---

type createOrderRequest struct {
	TableID      uuid.UUID `json:"table_id"`
	CustomerName string    `json:"customer_name"`
}

type addItemRequest struct {
	ProductID     uuid.UUID         `json:"product_id"`
	Quantity      int32             `json:"quantity"`
	Variations    map[string]string `json:"variations"`
	AdditionalIDs []uuid.UUID       `json:"additional_ids"`
	Notes         string            `json:"notes"`
}

type updateItemRequest struct {
	Quantity int32 `json:"quantity"`
}

type lineItemResponse struct {
	ID          uuid.UUID          `json:"id"`
	ProductID   uuid.UUID          `json:"product_id"`
	ProductName string             `json:"product_name"`
	Quantity    int32              `json:"quantity"`
	UnitPrice   string             `json:"unit_price"`
	TotalPrice  string             `json:"total_price"`
	Variations  map[string]string  `json:"variations,omitempty"`
	Additionals []additionalChoice `json:"additionals,omitempty"`
	Notes       string             `json:"notes,omitempty"`
}

type additionalChoice struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type orderResponse struct {
	ID            uuid.UUID          `json:"id"`
	TableID       uuid.UUID          `json:"table_id"`
	TableNumber   int32              `json:"table_number"`
	CustomerName  string             `json:"customer_name"`
	WaiterID      uuid.UUID          `json:"waiter_id"`
	WaiterName    string             `json:"waiter_name"`
	Items         []lineItemResponse `json:"items"`
	Status        string             `json:"status"`
	Total         string             `json:"total"`
	PaymentMethod *string            `json:"payment_method"`
	CreatedAt     time.Time          `json:"created_at"`
	PaidAt        *time.Time         `json:"paid_at"`
}

func toLineItemResponse(it store.LineItem) lineItemResponse {
	resp := lineItemResponse{
		ID:          it.ID,
		ProductID:   it.ProductID,
		ProductName: it.ProductName,
		Quantity:    it.Quantity,
		UnitPrice:   it.UnitPrice.StringFixed(2),
		TotalPrice:  it.TotalPrice.StringFixed(2),
		Notes:       it.Notes,
	}
	if len(it.Variations) > 0 {
		resp.Variations = make(map[string]string, len(it.Variations))
		for _, v := range it.Variations {
			resp.Variations[v.Variation] = v.Option
		}
	}
	for _, a := range it.Additionals {
		resp.Additionals = append(resp.Additionals, additionalChoice{
			Name:  a.Name,
			Price: a.Price.StringFixed(2),
		})
	}
	return resp
}

func toOrderResponse(o store.Order) orderResponse {
	resp := orderResponse{
		ID:           o.ID,
		TableID:      o.TableID,
		TableNumber:  o.TableNumber,
		CustomerName: o.CustomerName,
		WaiterID:     o.WaiterID,
		WaiterName:   o.WaiterName,
		Items:        make([]lineItemResponse, len(o.Items)),
		Status:       o.Status,
		Total:        o.Total.StringFixed(2),
		CreatedAt:    o.CreatedAt,
		PaidAt:       o.PaidAt,
	}
	for i, it := range o.Items {
		resp.Items[i] = toLineItemResponse(it)
	}
	if o.PaymentMethod != "" {
		m := o.PaymentMethod
		resp.PaymentMethod = &m
	}
	return resp
}

// --- Handlers ---

// Create opens a new order on a free table.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	order, err := h.ledger.CreateOrder(r.Context(), service.CreateOrderRequest{
		TableID:      req.TableID,
		CustomerName: req.CustomerName,
		WaiterID:     claims.UserID,
		WaiterName:   claims.Name,
	})
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	notifyOrder(h.hub, order)
	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

// List returns all orders, oldest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.reader.ListOrders(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single order.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.reader.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// AddItem adds a priced line item to an open order.
func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if _, err := h.ledger.AddItem(r.Context(), id, service.AddItemRequest{
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		Variations:    req.Variations,
		AdditionalIDs: req.AdditionalIDs,
		Notes:         req.Notes,
	}); err != nil {
		writeLedgerError(w, err)
		return
	}

	order, err := h.reader.GetOrder(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	notifyOrder(h.hub, order)
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// UpdateItem changes a line item quantity. Zero or negative removes the item.
func (h *OrderHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	order, err := h.ledger.UpdateItemQuantity(r.Context(), orderID, itemID, req.Quantity)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	notifyOrder(h.hub, order)
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// RemoveItem removes a line item from an open order.
func (h *OrderHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	order, err := h.ledger.RemoveItem(r.Context(), orderID, itemID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	notifyOrder(h.hub, order)
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// notifyOrder broadcasts the updated order and its table status to all terminals.
func notifyOrder(hub Broadcaster, order store.Order) {
	if hub == nil {
		return
	}
	payload, err := json.Marshal(toOrderResponse(order))
	if err != nil {
		log.Printf("ERROR: marshaling order event: %v", err)
		return
	}
	hub.Broadcast(ws.Event{Type: "order.updated", Payload: payload})

	tableStatus := tableStatusFor(order.Status)
	tablePayload, err := json.Marshal(map[string]interface{}{
		"table_id": order.TableID,
		"status":   tableStatus,
	})
	if err != nil {
		log.Printf("ERROR: marshaling table event: %v", err)
		return
	}
	hub.Broadcast(ws.Event{Type: "table.updated", Payload: tablePayload})
}

func tableStatusFor(orderStatus string) string {
	switch orderStatus {
	case enum.OrderStatusOpen:
		return enum.TableStatusActive
	case enum.OrderStatusPendingPayment:
		return enum.TableStatusPending
	default:
		return enum.TableStatusFree
	}
}

// writeLedgerError maps ledger errors to HTTP status codes.
func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrTableNotFound),
		errors.Is(err, service.ErrItemNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrTableNotFree),
		errors.Is(err, service.ErrOrderNotOpen),
		errors.Is(err, service.ErrNotAwaitingPayment):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrCustomerName),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrProductInactive),
		errors.Is(err, service.ErrVariationRequired),
		errors.Is(err, service.ErrUnknownVariation),
		errors.Is(err, service.ErrUnknownOption),
		errors.Is(err, service.ErrAdditionalNotFound),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrEmptyOrder):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: order operation: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
