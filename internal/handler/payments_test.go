package handler

import (
	"net/http"
	"strings"
	"testing"
)

func TestCheckout_MovesOrderAndTableToPending(t *testing.T) {
	e := newEnv(t)
	order := e.createOrder(t)
	e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/items", addItemRequest{
		ProductID: e.soda.ID,
		Quantity:  1,
	}, e.waiterToken)

	rec := e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/checkout", nil, e.waiterToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated orderResponse
	decode(t, rec, &updated)
	if updated.Status != "pending_payment" {
		t.Errorf("expected pending_payment, got %s", updated.Status)
	}

	tableRec := e.doRequest(t, http.MethodGet, "/tables/"+e.table.ID.String(), nil, e.waiterToken)
	var table tableResponse
	decode(t, tableRec, &table)
	if table.Status != "pending" {
		t.Errorf("expected pending table, got %s", table.Status)
	}
}

func TestCheckout_EmptyOrderRejected(t *testing.T) {
	e := newEnv(t)
	order := e.createOrder(t)

	rec := e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/checkout", nil, e.waiterToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCheckout_ClosesOrderForMutation(t *testing.T) {
	e := newEnv(t)
	order := e.createOrder(t)
	e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/items", addItemRequest{
		ProductID: e.soda.ID,
		Quantity:  1,
	}, e.waiterToken)
	e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/checkout", nil, e.waiterToken)

	rec := e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/items", addItemRequest{
		ProductID: e.soda.ID,
		Quantity:  1,
	}, e.waiterToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 adding to checked out order, got %d", rec.Code)
	}
}

func TestCompletePayment_RequiresCheckout(t *testing.T) {
	e := newEnv(t)
	order := e.createOrder(t)
	e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/items", addItemRequest{
		ProductID: e.soda.ID,
		Quantity:  1,
	}, e.waiterToken)

	rec := e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/payment",
		paymentRequest{Method: "pix"}, e.waiterToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCompletePayment_InvalidMethod(t *testing.T) {
	e := newEnv(t)
	order := e.createOrder(t)
	e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/items", addItemRequest{
		ProductID: e.soda.ID,
		Quantity:  1,
	}, e.waiterToken)
	e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/checkout", nil, e.waiterToken)

	rec := e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/payment",
		paymentRequest{Method: "cheque"}, e.waiterToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCompletePayment_SettlesAndFreesTable(t *testing.T) {
	e := newEnv(t)
	order := e.createOrder(t)
	e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/items", addItemRequest{
		ProductID: e.soda.ID,
		Quantity:  2,
	}, e.waiterToken)
	e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/checkout", nil, e.waiterToken)

	rec := e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/payment",
		paymentRequest{Method: "credit"}, e.waiterToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var paid orderResponse
	decode(t, rec, &paid)
	if paid.Status != "paid" {
		t.Errorf("expected paid, got %s", paid.Status)
	}
	if paid.PaymentMethod == nil || *paid.PaymentMethod != "credit" {
		t.Errorf("expected credit method, got %v", paid.PaymentMethod)
	}
	if paid.PaidAt == nil {
		t.Error("expected paid_at to be set")
	}

	tableRec := e.doRequest(t, http.MethodGet, "/tables/"+e.table.ID.String(), nil, e.waiterToken)
	var table tableResponse
	decode(t, tableRec, &table)
	if table.Status != "free" {
		t.Errorf("expected freed table, got %s", table.Status)
	}
	if table.CurrentOrderID != nil {
		t.Error("freed table must not reference an order")
	}

	// second settlement attempt must fail, paid is terminal
	rec = e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/payment",
		paymentRequest{Method: "pix"}, e.waiterToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on repeated payment, got %d", rec.Code)
	}
}

func TestPixCharge_RequiresPendingPayment(t *testing.T) {
	e := newEnv(t)
	order := e.createOrder(t)
	e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/items", addItemRequest{
		ProductID: e.soda.ID,
		Quantity:  1,
	}, e.waiterToken)

	rec := e.doRequest(t, http.MethodGet, "/orders/"+order.ID.String()+"/pix", nil, e.waiterToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 before checkout, got %d", rec.Code)
	}
}

func TestPixCharge_BuildsPayload(t *testing.T) {
	e := newEnv(t)
	order := e.createOrder(t)
	e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/items", addItemRequest{
		ProductID: e.soda.ID,
		Quantity:  3,
	}, e.waiterToken)
	e.doRequest(t, http.MethodPost, "/orders/"+order.ID.String()+"/checkout", nil, e.waiterToken)

	rec := e.doRequest(t, http.MethodGet, "/orders/"+order.ID.String()+"/pix", nil, e.waiterToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var charge pixChargeResponse
	decode(t, rec, &charge)
	if charge.Amount != "18.00" {
		t.Errorf("expected amount 18.00, got %s", charge.Amount)
	}
	if charge.PixKey != "pix@lanchonete.com" {
		t.Errorf("expected restaurant key, got %s", charge.PixKey)
	}
	if !strings.HasPrefix(charge.Payload, "000201") {
		t.Errorf("expected EMV payload, got %s", charge.Payload)
	}
	if !strings.Contains(charge.Payload, "pix@lanchonete.com") {
		t.Error("expected key embedded in payload")
	}
	if !strings.Contains(charge.Payload, "18.00") {
		t.Error("expected amount embedded in payload")
	}
}
