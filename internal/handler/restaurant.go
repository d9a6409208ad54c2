package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lanchonete-pos/api/internal/store"
)

// RestaurantStore defines the store methods needed by restaurant handlers.
// Satisfied by *store.Store.
type RestaurantStore interface {
	GetRestaurant(ctx context.Context) (store.Restaurant, error)
	UpdateRestaurant(ctx context.Context, params store.UpdateRestaurantParams) (store.Restaurant, error)
}

// RestaurantHandler handles restaurant profile endpoints.
type RestaurantHandler struct {
	store RestaurantStore
}

// NewRestaurantHandler creates a new RestaurantHandler.
func NewRestaurantHandler(store RestaurantStore) *RestaurantHandler {
	return &RestaurantHandler{store: store}
}

// RegisterRoutes registers the read endpoint on the given Chi router.
func (h *RestaurantHandler) RegisterRoutes(r chi.Router) {
	r.Get("/restaurant", h.Get)
}

// RegisterAdminRoutes registers the write endpoint.
func (h *RestaurantHandler) RegisterAdminRoutes(r chi.Router) {
	r.Put("/restaurant", h.Update)
}

type restaurantRequest struct {
	Name    string `json:"name"`
	LogoURL string `json:"logo_url"`
	PixKey  string `json:"pix_key"`
}

type restaurantResponse struct {
	Name    string `json:"name"`
	LogoURL string `json:"logo_url"`
	PixKey  string `json:"pix_key"`
}

// Get returns the restaurant profile.
func (h *RestaurantHandler) Get(w http.ResponseWriter, r *http.Request) {
	restaurant, err := h.store.GetRestaurant(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, restaurantResponse{
		Name:    restaurant.Name,
		LogoURL: restaurant.LogoURL,
		PixKey:  restaurant.PixKey,
	})
}

// Update replaces the restaurant profile.
func (h *RestaurantHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req restaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	restaurant, err := h.store.UpdateRestaurant(r.Context(), store.UpdateRestaurantParams{
		Name:    req.Name,
		LogoURL: req.LogoURL,
		PixKey:  req.PixKey,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, restaurantResponse{
		Name:    restaurant.Name,
		LogoURL: restaurant.LogoURL,
		PixKey:  restaurant.PixKey,
	})
}
