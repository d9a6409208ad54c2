package handler

import (
	"net/http"
	"testing"
)

func TestSalesSummary_WaiterForbidden(t *testing.T) {
	e := newEnv(t)

	rec := e.doRequest(t, http.MethodGet, "/reports/summary", nil, e.waiterToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestSalesSummary_AggregatesPaidOrders(t *testing.T) {
	e := newEnv(t)

	// settle one order: 2 sodas for 12.00, paid with pix
	order := e.createOrder(t)
	e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/items", addItemRequest{
		ProductID: e.soda.ID,
		Quantity:  2,
	}, e.waiterToken)
	e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/checkout", nil, e.waiterToken)
	e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/payment", paymentRequest{Method: "pix"}, e.waiterToken)

	// leave a second order open on the now free table
	second := e.createOrder(t)
	e.doRequest(t, http.MethodPost, "/orders/"+second.ID.String()+"/items", addItemRequest{
		ProductID: e.soda.ID,
		Quantity:  1,
	}, e.waiterToken)

	rec := e.doRequest(t, http.MethodGet, "/reports/summary", nil, e.adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var summary salesSummaryResponse
	decode(t, rec, &summary)
	if summary.TotalRevenue != "12.00" {
		t.Errorf("expected revenue 12.00, got %s", summary.TotalRevenue)
	}
	if summary.PaidOrders != 1 {
		t.Errorf("expected 1 paid order, got %d", summary.PaidOrders)
	}
	if summary.OpenOrders != 1 {
		t.Errorf("expected 1 open order, got %d", summary.OpenOrders)
	}
	if summary.ByMethod["pix"] != "12.00" {
		t.Errorf("expected 12.00 via pix, got %s", summary.ByMethod["pix"])
	}
	if summary.ByMethod["credit"] != "0.00" {
		t.Errorf("expected 0.00 via credit, got %s", summary.ByMethod["credit"])
	}
}
