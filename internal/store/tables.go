package store

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/lanchonete-pos/api/internal/enum"
)

// Errors returned by table mutations.
var (
	ErrInvalidTableStatus = errors.New("invalid table status")
	ErrMissingOrderRef    = errors.New("active or pending table requires an order reference")
)

// AddTable registers a seating unit. Called at seed time; the table set
// is fixed for the life of the process.
func (s *Store) AddTable(_ context.Context, t Table) (Table, error) {
	if !isValidTableStatus(t.Status) {
		return Table{}, ErrInvalidTableStatus
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := t
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	s.tables[stored.ID] = &stored
	return stored, nil
}

// GetTable returns the table with the given ID.
func (s *Store) GetTable(_ context.Context, id uuid.UUID) (Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[id]
	if !ok {
		return Table{}, ErrNotFound
	}
	return *t, nil
}

// ListTables returns all tables ordered by display number.
func (s *Store) ListTables(_ context.Context) ([]Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Table, 0, len(s.tables))
	for _, t := range s.tables {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// SetTableStatus is the single mutator for table occupancy. It is
// driven only by order ledger transitions, never called independently.
// The order link invariant is enforced here: a free table carries no
// order reference, a non-free table must carry one.
func (s *Store) SetTableStatus(_ context.Context, id uuid.UUID, status string, orderID uuid.NullUUID) (Table, error) {
	if !isValidTableStatus(status) {
		return Table{}, ErrInvalidTableStatus
	}
	if status != enum.TableStatusFree && !orderID.Valid {
		return Table{}, ErrMissingOrderRef
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[id]
	if !ok {
		return Table{}, ErrNotFound
	}

	t.Status = status
	if status == enum.TableStatusFree {
		t.CurrentOrderID = uuid.NullUUID{}
	} else {
		t.CurrentOrderID = orderID
	}
	return *t, nil
}

func isValidTableStatus(s string) bool {
	switch s {
	case enum.TableStatusFree, enum.TableStatusActive, enum.TableStatusPending:
		return true
	}
	return false
}
