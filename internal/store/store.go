// Package store is the in-memory data layer for the POS backend.
//
// It plays the role a database package would play in a multi-location
// deployment: entity structs plus query-shaped methods, behind a single
// explicitly-owned Store value that is passed to services and handlers.
// State is process-local and not durable.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned by lookups when no row matches.
var ErrNotFound = errors.New("not found")

// Store holds all restaurant state. All methods are safe for concurrent
// use; a single mutex serializes mutations so two terminals editing the
// same order cannot interleave partial writes.
type Store struct {
	mu sync.RWMutex

	restaurant Restaurant

	tables map[uuid.UUID]*Table
	orders map[uuid.UUID]*Order

	// orderSeq preserves insertion order for ListOrders.
	orderSeq []uuid.UUID

	categories map[uuid.UUID]*Category
	products   map[uuid.UUID]*Product
	users      map[uuid.UUID]*User
}

// New creates an empty Store for the given restaurant profile.
func New(restaurant Restaurant) *Store {
	return &Store{
		restaurant: restaurant,
		tables:     make(map[uuid.UUID]*Table),
		orders:     make(map[uuid.UUID]*Order),
		categories: make(map[uuid.UUID]*Category),
		products:   make(map[uuid.UUID]*Product),
		users:      make(map[uuid.UUID]*User),
	}
}

// GetRestaurant returns the restaurant profile.
func (s *Store) GetRestaurant(_ context.Context) (Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restaurant, nil
}

// UpdateRestaurantParams holds the editable restaurant profile fields.
type UpdateRestaurantParams struct {
	Name    string
	LogoURL string
	PixKey  string
}

// UpdateRestaurant replaces the editable restaurant profile fields.
func (s *Store) UpdateRestaurant(_ context.Context, arg UpdateRestaurantParams) (Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if arg.Name != "" {
		s.restaurant.Name = arg.Name
	}
	s.restaurant.LogoURL = arg.LogoURL
	s.restaurant.PixKey = arg.PixKey
	return s.restaurant, nil
}
