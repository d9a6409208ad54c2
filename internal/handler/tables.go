package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lanchonete-pos/api/internal/store"
)

// TableStore defines the store methods needed by table handlers.
// Satisfied by *store.Store; narrow interface for testability.
type TableStore interface {
	ListTables(ctx context.Context) ([]store.Table, error)
	GetTable(ctx context.Context, id uuid.UUID) (store.Table, error)
	GetOrderByTable(ctx context.Context, tableID uuid.UUID) (store.Order, error)
}

// TableHandler handles table endpoints.
type TableHandler struct {
	store TableStore
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(store TableStore) *TableHandler {
	return &TableHandler{store: store}
}

// RegisterRoutes registers table endpoints on the given Chi router.
func (h *TableHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tables", h.List)
	r.Get("/tables/{id}", h.Get)
	r.Get("/tables/{id}/order", h.GetOrder)
}

type tableResponse struct {
	ID             uuid.UUID  `json:"id"`
	Number         int32      `json:"number"`
	Status         string     `json:"status"`
	CurrentOrderID *uuid.UUID `json:"current_order_id"`
}

func toTableResponse(t store.Table) tableResponse {
	resp := tableResponse{
		ID:     t.ID,
		Number: t.Number,
		Status: t.Status,
	}
	if t.CurrentOrderID.Valid {
		id := t.CurrentOrderID.UUID
		resp.CurrentOrderID = &id
	}
	return resp
}

// List returns every table with its occupancy status.
func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	tables, err := h.store.ListTables(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]tableResponse, len(tables))
	for i, t := range tables {
		resp[i] = toTableResponse(t)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single table.
func (h *TableHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table ID"})
		return
	}

	table, err := h.store.GetTable(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "table not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, toTableResponse(table))
}

// GetOrder returns the order currently bound to a table.
func (h *TableHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table ID"})
		return
	}

	order, err := h.store.GetOrderByTable(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no order for this table"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}
