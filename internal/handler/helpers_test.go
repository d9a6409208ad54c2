package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lanchonete-pos/api/internal/auth"
	"github.com/lanchonete-pos/api/internal/enum"
	mw "github.com/lanchonete-pos/api/internal/middleware"
	"github.com/lanchonete-pos/api/internal/service"
	"github.com/lanchonete-pos/api/internal/store"
	"github.com/lanchonete-pos/api/internal/ws"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

// spyHub records broadcast events instead of pushing them to sockets.
type spyHub struct {
	events []ws.Event
}

func (s *spyHub) Broadcast(event ws.Event) {
	s.events = append(s.events, event)
}

type env struct {
	store  *store.Store
	router chi.Router
	hub    *spyHub

	waiterToken string
	adminToken  string

	table    store.Table
	category store.Category
	burger   store.Product
	soda     store.Product
	baconID  uuid.UUID
}

// newEnv wires a store, ledger, and all handlers behind the real auth
// middleware, the way the router package does in production.
func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	st := store.New(store.Restaurant{
		Name:   "Lanchonete do Zé",
		PixKey: "pix@lanchonete.com",
	})

	table, err := st.AddTable(ctx, store.Table{Number: 1, Status: enum.TableStatusFree})
	if err != nil {
		t.Fatalf("adding table: %v", err)
	}

	category, err := st.CreateCategory(ctx, store.CreateCategoryParams{Name: "Lanches", SortOrder: 1, IsActive: true})
	if err != nil {
		t.Fatalf("creating category: %v", err)
	}

	burger, err := st.CreateProduct(ctx, store.CreateProductParams{
		CategoryID: category.ID,
		Name:       "X-Burger",
		Code:       "101",
		Price:      decimal.RequireFromString("18.90"),
		IsActive:   true,
		Variations: []store.Variation{
			{Name: "Ponto da Carne", Options: []string{"Mal Passado", "Ao Ponto", "Bem Passado"}, Required: true},
		},
		Additionals: []store.Additional{
			{Name: "Bacon Extra", Price: decimal.RequireFromString("4.00")},
		},
	})
	if err != nil {
		t.Fatalf("creating burger: %v", err)
	}

	soda, err := st.CreateProduct(ctx, store.CreateProductParams{
		CategoryID: category.ID,
		Name:       "Refrigerante Lata",
		Code:       "301",
		Price:      decimal.RequireFromString("6.00"),
		IsActive:   true,
	})
	if err != nil {
		t.Fatalf("creating soda: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("garcom123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	waiter, err := st.AddUser(ctx, store.User{
		FullName:       "Maria Oliveira",
		Email:          "maria@lanchonete.com",
		HashedPassword: string(hash),
		Role:           enum.UserRoleWaiter,
		Theme:          "light",
	})
	if err != nil {
		t.Fatalf("adding waiter: %v", err)
	}
	admin, err := st.AddUser(ctx, store.User{
		FullName:       "Admin",
		Email:          "admin@lanchonete.com",
		HashedPassword: string(hash),
		Role:           enum.UserRoleAdmin,
		Theme:          "dark",
	})
	if err != nil {
		t.Fatalf("adding admin: %v", err)
	}

	waiterToken, err := auth.GenerateToken(testSecret, waiter.ID, waiter.FullName, waiter.Role)
	if err != nil {
		t.Fatalf("generating waiter token: %v", err)
	}
	adminToken, err := auth.GenerateToken(testSecret, admin.ID, admin.FullName, admin.Role)
	if err != nil {
		t.Fatalf("generating admin token: %v", err)
	}

	hub := &spyHub{}
	ledger := service.NewLedger(st, st, st)

	r := chi.NewRouter()
	NewAuthHandler(st, testSecret).RegisterRoutes(r)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(testSecret))

		NewRestaurantHandler(st).RegisterRoutes(r)
		NewTableHandler(st).RegisterRoutes(r)
		NewCategoryHandler(st).RegisterRoutes(r)
		NewProductHandler(st).RegisterRoutes(r)
		NewOrderHandler(ledger, st, hub).RegisterRoutes(r)
		NewPaymentHandler(ledger, st, hub).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.UserRoleAdmin))
			NewCategoryHandler(st).RegisterAdminRoutes(r)
			NewProductHandler(st).RegisterAdminRoutes(r)
			NewRestaurantHandler(st).RegisterAdminRoutes(r)
			NewReportHandler(st).RegisterRoutes(r)
		})
	})

	var baconID uuid.UUID
	if len(burger.Additionals) > 0 {
		baconID = burger.Additionals[0].ID
	}

	return &env{
		store:       st,
		router:      r,
		hub:         hub,
		waiterToken: waiterToken,
		adminToken:  adminToken,
		table:       table,
		category:    category,
		burger:      burger,
		soda:        soda,
		baconID:     baconID,
	}
}

// doRequest performs an HTTP request against the test router. A non-nil
// body is JSON encoded; an empty token leaves the request anonymous.
func (e *env) doRequest(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a recorded JSON response into out.
func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

// createOrder opens an order on the fixture table and returns it.
func (e *env) createOrder(t *testing.T) orderResponse {
	t.Helper()
	rec := e.doRequest(t, http.MethodPost, "/orders", createOrderRequest{
		TableID:      e.table.ID,
		CustomerName: "Ana",
	}, e.waiterToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("creating order: status %d body %s", rec.Code, rec.Body.String())
	}
	var order orderResponse
	decode(t, rec, &order)
	return order
}
