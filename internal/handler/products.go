package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lanchonete-pos/api/internal/store"
	"github.com/shopspring/decimal"
)

// ProductStore defines the store methods needed by product handlers.
// Satisfied by *store.Store.
type ProductStore interface {
	CreateProduct(ctx context.Context, arg store.CreateProductParams) (store.Product, error)
	UpdateProduct(ctx context.Context, arg store.UpdateProductParams) (store.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (store.Product, error)
	ListActiveProducts(ctx context.Context, arg store.ListActiveProductsParams) ([]store.Product, error)
}

// ProductHandler handles menu product endpoints.
type ProductHandler struct {
	store ProductStore
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(store ProductStore) *ProductHandler {
	return &ProductHandler{store: store}
}

// RegisterRoutes registers the read endpoints on the given Chi router.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.List)
	r.Get("/products/{id}", h.Get)
}

// RegisterAdminRoutes registers the write endpoints.
func (h *ProductHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/products", h.Create)
	r.Put("/products/{id}", h.Update)
	r.Delete("/products/{id}", h.Delete)
}

// --- Request / Response types ---

type variationRequest struct {
	Name     string   `json:"name"`
	Options  []string `json:"options"`
	Required bool     `json:"required"`
}

type additionalRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type productRequest struct {
	CategoryID  uuid.UUID           `json:"category_id"`
	Name        string              `json:"name"`
	Code        string              `json:"code"`
	Price       string              `json:"price"`
	IsActive    *bool               `json:"is_active"`
	Variations  []variationRequest  `json:"variations"`
	Additionals []additionalRequest `json:"additionals"`
}

type variationResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Options  []string  `json:"options"`
	Required bool      `json:"required"`
}

type additionalResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price string    `json:"price"`
}

type productResponse struct {
	ID          uuid.UUID            `json:"id"`
	CategoryID  uuid.UUID            `json:"category_id"`
	Name        string               `json:"name"`
	Code        string               `json:"code"`
	Price       string               `json:"price"`
	IsActive    bool                 `json:"is_active"`
	Variations  []variationResponse  `json:"variations"`
	Additionals []additionalResponse `json:"additionals"`
}

func toProductResponse(p store.Product) productResponse {
	resp := productResponse{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Code:        p.Code,
		Price:       p.Price.StringFixed(2),
		IsActive:    p.IsActive,
		Variations:  make([]variationResponse, len(p.Variations)),
		Additionals: make([]additionalResponse, len(p.Additionals)),
	}
	for i, v := range p.Variations {
		resp.Variations[i] = variationResponse{ID: v.ID, Name: v.Name, Options: v.Options, Required: v.Required}
	}
	for i, a := range p.Additionals {
		resp.Additionals[i] = additionalResponse{ID: a.ID, Name: a.Name, Price: a.Price.StringFixed(2)}
	}
	return resp
}

// productFromRequest validates a request and converts it into the
// store's create parameters.
func productFromRequest(req productRequest) (store.CreateProductParams, error) {
	if req.Name == "" {
		return store.CreateProductParams{}, errors.New("name is required")
	}
	if req.CategoryID == uuid.Nil {
		return store.CreateProductParams{}, errors.New("category_id is required")
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return store.CreateProductParams{}, errors.New("price must be a non-negative decimal")
	}

	p := store.CreateProductParams{
		CategoryID: req.CategoryID,
		Name:       req.Name,
		Code:       req.Code,
		Price:      price,
		IsActive:   true,
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	for _, v := range req.Variations {
		if v.Name == "" || len(v.Options) == 0 {
			return store.CreateProductParams{}, errors.New("variations need a name and at least one option")
		}
		p.Variations = append(p.Variations, store.Variation{Name: v.Name, Options: v.Options, Required: v.Required})
	}
	for _, a := range req.Additionals {
		addPrice, err := decimal.NewFromString(a.Price)
		if err != nil || addPrice.IsNegative() {
			return store.CreateProductParams{}, errors.New("additional price must be a non-negative decimal")
		}
		if a.Name == "" {
			return store.CreateProductParams{}, errors.New("additionals need a name")
		}
		p.Additionals = append(p.Additionals, store.Additional{Name: a.Name, Price: addPrice})
	}
	return p, nil
}

// --- Handlers ---

// List returns active products ordered by code, optionally filtered by category.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	var params store.ListActiveProductsParams
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category_id"})
			return
		}
		params.CategoryID = uuid.NullUUID{UUID: id, Valid: true}
	}

	products, err := h.store.ListActiveProducts(r.Context(), params)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single product.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
		return
	}

	product, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// Create adds a product with its variations and additionals.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	product, err := productFromRequest(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	created, err := h.store.CreateProduct(r.Context(), product)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(created))
}

// Update replaces a product's attributes. Orders keep the prices they
// captured when their items were added.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	params, err := productFromRequest(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	updated, err := h.store.UpdateProduct(r.Context(), store.UpdateProductParams{
		ID:          id,
		CategoryID:  params.CategoryID,
		Name:        params.Name,
		Code:        params.Code,
		Price:       params.Price,
		IsActive:    params.IsActive,
		Variations:  params.Variations,
		Additionals: params.Additionals,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(updated))
}

// Delete removes a product from the menu.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
		return
	}

	if err := h.store.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
