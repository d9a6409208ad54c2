package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lanchonete-pos/api/internal/enum"
	"github.com/lanchonete-pos/api/internal/store"
	"github.com/shopspring/decimal"
)

// ReportStore defines the store reads needed by report handlers.
// Satisfied by *store.Store.
type ReportStore interface {
	ListOrders(ctx context.Context) ([]store.Order, error)
}

// ReportHandler handles sales report endpoints.
type ReportHandler struct {
	store ReportStore
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(store ReportStore) *ReportHandler {
	return &ReportHandler{store: store}
}

// RegisterRoutes registers report endpoints on the given Chi router.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/summary", h.SalesSummary)
}

type salesSummaryResponse struct {
	TotalRevenue string            `json:"total_revenue"`
	PaidOrders   int               `json:"paid_orders"`
	OpenOrders   int               `json:"open_orders"`
	ByMethod     map[string]string `json:"by_method"`
}

// SalesSummary aggregates settled orders into a revenue summary.
func (h *ReportHandler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListOrders(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	revenue := decimal.Zero
	byMethod := map[string]decimal.Decimal{
		enum.PaymentMethodPix:    decimal.Zero,
		enum.PaymentMethodCredit: decimal.Zero,
		enum.PaymentMethodDebit:  decimal.Zero,
	}
	paid, open := 0, 0
	for _, o := range orders {
		switch o.Status {
		case enum.OrderStatusPaid:
			paid++
			revenue = revenue.Add(o.Total)
			byMethod[o.PaymentMethod] = byMethod[o.PaymentMethod].Add(o.Total)
		default:
			open++
		}
	}

	resp := salesSummaryResponse{
		TotalRevenue: revenue.StringFixed(2),
		PaidOrders:   paid,
		OpenOrders:   open,
		ByMethod:     make(map[string]string, len(byMethod)),
	}
	for method, amount := range byMethod {
		resp.ByMethod[method] = amount.StringFixed(2)
	}
	writeJSON(w, http.StatusOK, resp)
}
