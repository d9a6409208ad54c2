package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// AddUser registers a staff account. Called at seed time.
func (s *Store) AddUser(_ context.Context, u User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := u
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	s.users[stored.ID] = &stored
	return stored, nil
}

// GetUserByEmail looks up a staff account by email, case-insensitive.
func (s *Store) GetUserByEmail(_ context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return *u, nil
		}
	}
	return User{}, ErrNotFound
}

// GetUser returns the staff account with the given ID.
func (s *Store) GetUser(_ context.Context, id uuid.UUID) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return *u, nil
}
