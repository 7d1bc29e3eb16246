package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no user matches the given identifier or email.
var ErrNotFound = errors.New("user not found")

// Store is the persistence contract for accounts. The chat core only reads;
// the auth handlers also create and touch login timestamps.
type Store interface {
	Create(ctx context.Context, email, passwordHash, name string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	TouchLastLogin(ctx context.Context, id string) error
}

// PGStore implements Store over a pgx connection pool.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore returns a PGStore backed by the given pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

const userColumns = `id, email, name, avatar_url, role, active, password_hash`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Avatar, &u.Role, &u.Active, &u.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new active account with role "user".
func (s *PGStore) Create(ctx context.Context, email, passwordHash, name string) (*User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		email, passwordHash, name)

	return scanUser(row)
}

// GetByID fetches a user by identifier.
func (s *PGStore) GetByID(ctx context.Context, id string) (*User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1`,
		id)

	return scanUser(row)
}

// GetByEmail fetches a user by email address.
func (s *PGStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1`,
		email)

	return scanUser(row)
}

// TouchLastLogin records a successful authentication.
func (s *PGStore) TouchLastLogin(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE users
		SET last_login_at = now()
		WHERE id = $1`,
		id)

	return err
}
