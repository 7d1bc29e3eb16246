// Package usertest provides an in-memory user.Store for tests.
package usertest

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"relaychat/internal/app/user"
)

// MemStore is a map-backed user.Store. Seed accounts with Add.
type MemStore struct {
	mu    sync.Mutex
	users map[string]*user.User

	// Err, when set, is returned by every operation.
	Err error
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{users: make(map[string]*user.User)}
}

// Add seeds an account, generating an ID when u.ID is empty.
func (s *MemStore) Add(u user.User) user.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	stored := u
	s.users[u.ID] = &stored
	return u
}

// Create inserts a new active account with role "user".
func (s *MemStore) Create(_ context.Context, email, passwordHash, name string) (*user.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == email {
			// Same SQLSTATE the Postgres store surfaces for a duplicate email.
			return nil, &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
	}

	u := &user.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		Role:         user.RoleUser,
		Active:       true,
		PasswordHash: passwordHash,
	}
	s.users[u.ID] = u

	out := *u
	return &out, nil
}

// GetByID fetches a user by identifier.
func (s *MemStore) GetByID(_ context.Context, id string) (*user.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}

	out := *u
	return &out, nil
}

// GetByEmail fetches a user by email address.
func (s *MemStore) GetByEmail(_ context.Context, email string) (*user.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, user.ErrNotFound
}

// TouchLastLogin is a no-op beyond existence checking.
func (s *MemStore) TouchLastLogin(_ context.Context, id string) error {
	if s.Err != nil {
		return s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return user.ErrNotFound
	}
	return nil
}
