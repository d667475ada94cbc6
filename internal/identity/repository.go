package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wolfman30/clinic-booking-platform/internal/authz"
)

// db is the slice of pgxpool.Pool the repositories need. pgxmock satisfies
// it in tests.
type db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// UserRepository persists users.
type UserRepository struct {
	db db
}

// NewUserRepository creates a user repository backed by a pgx pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	if pool == nil {
		panic("identity: pgx pool required")
	}
	return &UserRepository{db: pool}
}

// NewUserRepositoryWithDB allows injecting a mock database for testing.
func NewUserRepositoryWithDB(d db) *UserRepository {
	return &UserRepository{db: d}
}

// ListUsers returns every user. The find-or-create workflow matches the
// email against this listing rather than filtering in SQL.
func (r *UserRepository) ListUsers(ctx context.Context) ([]User, error) {
	query := `
		SELECT id, email, password_hash, full_name, email_confirmed, created_at
		FROM users
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("identity: list users: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.EmailConfirmed, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("identity: scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// CreateUser inserts a new, already-confirmed user.
func (r *UserRepository) CreateUser(ctx context.Context, email, passwordHash, fullName string) (*User, error) {
	id := uuid.New()
	query := `
		INSERT INTO users (id, email, password_hash, full_name, email_confirmed)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING created_at
	`
	u := User{
		ID:             id.String(),
		Email:          email,
		PasswordHash:   passwordHash,
		FullName:       fullName,
		EmailConfirmed: true,
	}
	if err := r.db.QueryRow(ctx, query, id, email, passwordHash, fullName).Scan(&u.CreatedAt); err != nil {
		return nil, fmt.Errorf("identity: create user: %w", err)
	}
	return &u, nil
}

// ProfileRepository persists the role-bearing profile rows.
type ProfileRepository struct {
	db db
}

// NewProfileRepository creates a profile repository backed by a pgx pool.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	if pool == nil {
		panic("identity: pgx pool required")
	}
	return &ProfileRepository{db: pool}
}

// NewProfileRepositoryWithDB allows injecting a mock database for testing.
func NewProfileRepositoryWithDB(d db) *ProfileRepository {
	return &ProfileRepository{db: d}
}

// GetByUserID returns the profile for a user, or ErrUserNotFound when none
// exists yet.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	query := `
		SELECT user_id, email, full_name, role
		FROM profiles
		WHERE user_id = $1
	`
	var (
		p    Profile
		role string
	)
	if err := r.db.QueryRow(ctx, query, userID).Scan(&p.UserID, &p.Email, &p.FullName, &role); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("identity: select profile: %w", err)
	}
	p.Role = authz.Role(role)
	return &p, nil
}

// Upsert writes the profile row, keyed on user_id.
func (r *ProfileRepository) Upsert(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO profiles (user_id, email, full_name, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET email = EXCLUDED.email, full_name = EXCLUDED.full_name, role = EXCLUDED.role
	`
	if _, err := r.db.Exec(ctx, query, p.UserID, p.Email, p.FullName, string(p.Role)); err != nil {
		return fmt.Errorf("identity: upsert profile: %w", err)
	}
	return nil
}
