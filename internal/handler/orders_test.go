package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
)

func TestCreateOrder_BindsTable(t *testing.T) {
	e := newEnv(t)

	order := e.createOrder(t)
	if order.Status != "open" {
		t.Errorf("expected open order, got %s", order.Status)
	}
	if order.TableNumber != 1 {
		t.Errorf("expected table number 1, got %d", order.TableNumber)
	}
	if order.Total != "0.00" {
		t.Errorf("expected zero total, got %s", order.Total)
	}
	if order.WaiterName != "Maria Oliveira" {
		t.Errorf("expected waiter from token, got %q", order.WaiterName)
	}

	rec := e.doRequest(t, http.MethodGet, "/tables/"+e.table.ID.String(), nil, e.waiterToken)
	var table tableResponse
	decode(t, rec, &table)
	if table.Status != "active" {
		t.Errorf("expected active table, got %s", table.Status)
	}
	if table.CurrentOrderID == nil || *table.CurrentOrderID != order.ID {
		t.Error("expected table to reference the new order")
	}
}

func TestCreateOrder_OccupiedTableConflicts(t *testing.T) {
	e := newEnv(t)
	e.createOrder(t)

	rec := e.doRequest(t, http.MethodPost, "/orders", createOrderRequest{
		TableID:      e.table.ID,
		CustomerName: "Bruno",
	}, e.waiterToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateOrder_MissingCustomerName(t *testing.T) {
	e := newEnv(t)

	rec := e.doRequest(t, http.MethodPost, "/orders", createOrderRequest{TableID: e.table.ID}, e.waiterToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateOrder_UnknownTable(t *testing.T) {
	e := newEnv(t)

	rec := e.doRequest(t, http.MethodPost, "/orders", createOrderRequest{
		TableID:      uuid.New(),
		CustomerName: "Ana",
	}, e.waiterToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAddItem_PricesVariationsAndAdditionals(t *testing.T) {
	e := newEnv(t)
	order := e.createOrder(t)

	rec := e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/items", addItemRequest{
		ProductID:     e.burger.ID,
		Quantity:      2,
		Variations:    map[string]string{"Ponto da Carne": "Ao Ponto"},
		AdditionalIDs: []uuid.UUID{e.baconID},
		Notes:         "sem cebola",
	}, e.waiterToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated orderResponse
	decode(t, rec, &updated)
	if len(updated.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(updated.Items))
	}
	item := updated.Items[0]
	if item.UnitPrice != "22.90" {
		t.Errorf("expected unit price 22.90 (18.90 + 4.00 bacon), got %s", item.UnitPrice)
	}
	if item.TotalPrice != "45.80" {
		t.Errorf("expected line total 45.80, got %s", item.TotalPrice)
	}
	if updated.Total != "45.80" {
		t.Errorf("expected order total 45.80, got %s", updated.Total)
	}
	if item.Variations["Ponto da Carne"] != "Ao Ponto" {
		t.Errorf("expected variation snapshot, got %v", item.Variations)
	}
	if item.Notes != "sem cebola" {
		t.Errorf("expected notes preserved, got %q", item.Notes)
	}
}

func TestAddItem_MissingRequiredVariation(t *testing.T) {
	e := newEnv(t)
	order := e.createOrder(t)

	rec := e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/items", addItemRequest{
		ProductID: e.burger.ID,
		Quantity:  1,
	}, e.waiterToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	get := e.doRequest(t, http.MethodGet, "/orders/"+order.ID.String(), nil, e.waiterToken)
	var after orderResponse
	decode(t, get, &after)
	if len(after.Items) != 0 {
		t.Error("rejected item must not be appended")
	}
}

func TestAddItem_UnknownOrder(t *testing.T) {
	e := newEnv(t)

	rec := e.doRequest(t, http.MethodPost, "/orders/"+uuid.NewString()+"/items", addItemRequest{
		ProductID: e.soda.ID,
		Quantity:  1,
	}, e.waiterToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateItem_ZeroQuantityRemoves(t *testing.T) {
	e := newEnv(t)
	order := e.createOrder(t)

	rec := e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/items", addItemRequest{
		ProductID: e.soda.ID,
		Quantity:  2,
	}, e.waiterToken)
	var updated orderResponse
	decode(t, rec, &updated)
	itemID := updated.Items[0].ID

	rec = e.doRequest(t, http.MethodPatch,
		fmt.Sprintf("/orders/%s/items/%s", order.ID, itemID),
		updateItemRequest{Quantity: 0}, e.waiterToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	decode(t, rec, &updated)
	if len(updated.Items) != 0 {
		t.Errorf("expected item removed, got %d items", len(updated.Items))
	}
	if updated.Total != "0.00" {
		t.Errorf("expected zero total, got %s", updated.Total)
	}
}

func TestUpdateItem_RecomputesTotal(t *testing.T) {
	e := newEnv(t)
	order := e.createOrder(t)

	rec := e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/items", addItemRequest{
		ProductID: e.soda.ID,
		Quantity:  1,
	}, e.waiterToken)
	var updated orderResponse
	decode(t, rec, &updated)
	itemID := updated.Items[0].ID

	rec = e.doRequest(t, http.MethodPatch,
		fmt.Sprintf("/orders/%s/items/%s", order.ID, itemID),
		updateItemRequest{Quantity: 5}, e.waiterToken)
	decode(t, rec, &updated)
	if updated.Total != "30.00" {
		t.Errorf("expected 30.00 after 5 sodas, got %s", updated.Total)
	}
}

func TestRemoveItem_IsIdempotent(t *testing.T) {
	e := newEnv(t)
	order := e.createOrder(t)

	rec := e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/items", addItemRequest{
		ProductID: e.soda.ID,
		Quantity:  1,
	}, e.waiterToken)
	var updated orderResponse
	decode(t, rec, &updated)
	itemID := updated.Items[0].ID

	path := fmt.Sprintf("/orders/%s/items/%s", order.ID, itemID)
	if rec := e.doRequest(t, http.MethodDelete, path, nil, e.waiterToken); rec.Code != http.StatusOK {
		t.Fatalf("first delete: expected 200, got %d", rec.Code)
	}
	if rec := e.doRequest(t, http.MethodDelete, path, nil, e.waiterToken); rec.Code != http.StatusOK {
		t.Fatalf("second delete: expected 200, got %d", rec.Code)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	e := newEnv(t)

	rec := e.doRequest(t, http.MethodGet, "/orders/"+uuid.NewString(), nil, e.waiterToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestOrderMutations_BroadcastEvents(t *testing.T) {
	e := newEnv(t)
	e.createOrder(t)

	if len(e.hub.events) != 2 {
		t.Fatalf("expected order.updated and table.updated events, got %d", len(e.hub.events))
	}
	if e.hub.events[0].Type != "order.updated" {
		t.Errorf("expected order.updated, got %s", e.hub.events[0].Type)
	}
	if e.hub.events[1].Type != "table.updated" {
		t.Errorf("expected table.updated, got %s", e.hub.events[1].Type)
	}
}
