package store

import (
	"context"

	"github.com/google/uuid"
)

// InsertOrder adds a new order. The caller owns ID allocation.
func (s *Store) InsertOrder(_ context.Context, o Order) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cloneOrder(&o)
	s.orders[o.ID] = &stored
	s.orderSeq = append(s.orderSeq, o.ID)
	return cloneOrder(&stored), nil
}

// GetOrder returns the order with the given ID.
func (s *Store) GetOrder(_ context.Context, id uuid.UUID) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return cloneOrder(o), nil
}

// GetOrderByTable resolves the table's current order, if any.
func (s *Store) GetOrderByTable(_ context.Context, tableID uuid.UUID) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[tableID]
	if !ok || !t.CurrentOrderID.Valid {
		return Order{}, ErrNotFound
	}
	o, ok := s.orders[t.CurrentOrderID.UUID]
	if !ok {
		return Order{}, ErrNotFound
	}
	return cloneOrder(o), nil
}

// ListOrders returns all orders in insertion order.
func (s *Store) ListOrders(_ context.Context) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Order, 0, len(s.orderSeq))
	for _, id := range s.orderSeq {
		out = append(out, cloneOrder(s.orders[id]))
	}
	return out, nil
}

// UpdateOrder applies fn to the order with the given ID. The mutation is
// all-or-nothing: fn runs against a copy, and the copy replaces the
// stored order only when fn returns nil. This is the single write path
// for order state; the ledger layers total recomputation on top of it.
func (s *Store) UpdateOrder(_ context.Context, id uuid.UUID, fn func(*Order) error) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}

	next := cloneOrder(o)
	if err := fn(&next); err != nil {
		return Order{}, err
	}
	s.orders[id] = &next
	return cloneOrder(&next), nil
}
