package handler

import (
	"net/http"
	"testing"
)

func TestRestaurant_Get(t *testing.T) {
	e := newEnv(t)

	rec := e.doRequest(t, http.MethodGet, "/restaurant", nil, e.waiterToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp restaurantResponse
	decode(t, rec, &resp)
	if resp.Name != "Lanchonete do Zé" {
		t.Errorf("unexpected name %q", resp.Name)
	}
	if resp.PixKey != "pix@lanchonete.com" {
		t.Errorf("unexpected key %q", resp.PixKey)
	}
}

func TestRestaurant_UpdateIsAdminOnly(t *testing.T) {
	e := newEnv(t)

	body := restaurantRequest{Name: "Nova Lanchonete", PixKey: "nova@pix.com"}

	rec := e.doRequest(t, http.MethodPut, "/restaurant", body, e.waiterToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for waiter, got %d", rec.Code)
	}

	rec = e.doRequest(t, http.MethodPut, "/restaurant", body, e.adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp restaurantResponse
	decode(t, rec, &resp)
	if resp.Name != "Nova Lanchonete" || resp.PixKey != "nova@pix.com" {
		t.Errorf("update not applied: %+v", resp)
	}
}
