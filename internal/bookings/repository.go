package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// db is the slice of pgxpool.Pool the repository needs. pgxmock satisfies
// it in tests.
type db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository provides persistence for bookings.
type Repository struct {
	db db
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("bookings: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(d db) *Repository {
	return &Repository{db: d}
}

// InsertPending persists a new booking row in the pending state with a
// server-assigned id and created_at.
func (r *Repository) InsertPending(ctx context.Context, req *SubmitRequest, date time.Time) (*Booking, error) {
	id := uuid.New()
	query := `
		INSERT INTO bookings (id, doctor_name, specialty, clinic, appointment_date, appointment_time, user_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		req.DoctorName,
		req.Specialty,
		req.Clinic,
		date,
		req.Time,
		req.UserID,
		StatusPending,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("bookings: insert pending: %w", err)
	}

	return &Booking{
		ID:              id.String(),
		DoctorName:      req.DoctorName,
		Specialty:       req.Specialty,
		Clinic:          req.Clinic,
		AppointmentDate: date,
		AppointmentTime: req.Time,
		UserID:          req.UserID,
		Status:          StatusPending,
		CreatedAt:       createdAt,
	}, nil
}

// Confirm promotes a pending row to confirmed, stamping confirmed_at.
// Confirming a row that is no longer pending returns ErrBookingNotFound.
func (r *Repository) Confirm(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE bookings
		SET status = $2, confirmed_at = $3
		WHERE id = $1 AND status = $4
	`
	tag, err := r.db.Exec(ctx, query, id, StatusConfirmed, at, StatusPending)
	if err != nil {
		return fmt.Errorf("bookings: confirm: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// GetByID fetches one booking.
func (r *Repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `
		SELECT id, doctor_name, specialty, clinic, appointment_date, appointment_time,
		       user_id, status, created_at, confirmed_at, confirm_attempts
		FROM bookings
		WHERE id = $1
	`
	var b Booking
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.DoctorName,
		&b.Specialty,
		&b.Clinic,
		&b.AppointmentDate,
		&b.AppointmentTime,
		&b.UserID,
		&b.Status,
		&b.CreatedAt,
		&b.ConfirmedAt,
		&b.ConfirmAttempts,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("bookings: select: %w", err)
	}
	return &b, nil
}

// ListStalePending returns pending rows created before the cutoff, oldest
// first. The reconciler uses this to find bookings whose confirmation
// update never landed.
func (r *Repository) ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]Booking, error) {
	query := `
		SELECT id, doctor_name, specialty, clinic, appointment_date, appointment_time,
		       user_id, status, created_at, confirmed_at, confirm_attempts
		FROM bookings
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, StatusPending, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("bookings: list stale pending: %w", err)
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID,
			&b.DoctorName,
			&b.Specialty,
			&b.Clinic,
			&b.AppointmentDate,
			&b.AppointmentTime,
			&b.UserID,
			&b.Status,
			&b.CreatedAt,
			&b.ConfirmedAt,
			&b.ConfirmAttempts,
		); err != nil {
			return nil, fmt.Errorf("bookings: scan stale pending: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// RecordConfirmAttempt increments the confirm attempt counter and returns
// the new count.
func (r *Repository) RecordConfirmAttempt(ctx context.Context, id string) (int, error) {
	query := `
		UPDATE bookings
		SET confirm_attempts = confirm_attempts + 1
		WHERE id = $1
		RETURNING confirm_attempts
	`
	var attempts int
	if err := r.db.QueryRow(ctx, query, id).Scan(&attempts); err != nil {
		return 0, fmt.Errorf("bookings: record confirm attempt: %w", err)
	}
	return attempts, nil
}

// MarkFailed moves a pending row to failed once the reconciler gives up.
func (r *Repository) MarkFailed(ctx context.Context, id string) error {
	query := `
		UPDATE bookings
		SET status = $2
		WHERE id = $1 AND status = $3
	`
	if _, err := r.db.Exec(ctx, query, id, StatusFailed, StatusPending); err != nil {
		return fmt.Errorf("bookings: mark failed: %w", err)
	}
	return nil
}
