package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

func validSubmitRequest() *SubmitRequest {
	return &SubmitRequest{
		DoctorName: "Dr. Amara Okafor",
		Specialty:  "Orthodontics",
		Clinic:     "Riverside Dental",
		Date:       "2025-12-10",
		Time:       "10:30 AM",
		UserID:     "user-42",
	}
}

func TestRepository_InsertPending(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	req := validSubmitRequest()
	date := time.Date(2025, time.December, 10, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, time.December, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO bookings`).
		WithArgs(pgxmock.AnyArg(), req.DoctorName, req.Specialty, req.Clinic, date, req.Time, req.UserID, StatusPending).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	repo := NewRepositoryWithDB(mock)
	booking, err := repo.InsertPending(context.Background(), req, date)
	if err != nil {
		t.Fatalf("InsertPending failed: %v", err)
	}

	if booking.ID == "" {
		t.Error("expected a server-assigned id")
	}
	if booking.Status != StatusPending {
		t.Errorf("Status = %q, want %q", booking.Status, StatusPending)
	}
	if !booking.CreatedAt.Equal(createdAt) {
		t.Errorf("CreatedAt = %v, want %v", booking.CreatedAt, createdAt)
	}
	if booking.ConfirmedAt != nil {
		t.Errorf("ConfirmedAt = %v, want nil", booking.ConfirmedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepository_Confirm(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	at := time.Date(2025, time.December, 1, 9, 0, 1, 0, time.UTC)

	mock.ExpectExec(`UPDATE bookings`).
		WithArgs("bk-1", StatusConfirmed, at, StatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewRepositoryWithDB(mock)
	if err := repo.Confirm(context.Background(), "bk-1", at); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepository_Confirm_AlreadyResolved(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	at := time.Date(2025, time.December, 1, 9, 0, 1, 0, time.UTC)

	// Zero rows updated: the row is gone or no longer pending.
	mock.ExpectExec(`UPDATE bookings`).
		WithArgs("bk-gone", StatusConfirmed, at, StatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewRepositoryWithDB(mock)
	err = repo.Confirm(context.Background(), "bk-gone", at)
	if !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("Confirm error = %v, want ErrBookingNotFound", err)
	}
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, doctor_name`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "doctor_name", "specialty", "clinic", "appointment_date",
			"appointment_time", "user_id", "status", "created_at", "confirmed_at",
			"confirm_attempts",
		}))

	repo := NewRepositoryWithDB(mock)
	_, err = repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("GetByID error = %v, want ErrBookingNotFound", err)
	}
}

func TestRepository_ListStalePending(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	cutoff := time.Date(2025, time.December, 1, 9, 0, 0, 0, time.UTC)
	date := time.Date(2025, time.December, 10, 0, 0, 0, 0, time.UTC)
	createdAt := cutoff.Add(-time.Hour)

	mock.ExpectQuery(`SELECT id, doctor_name`).
		WithArgs(StatusPending, cutoff, 100).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "doctor_name", "specialty", "clinic", "appointment_date",
			"appointment_time", "user_id", "status", "created_at", "confirmed_at",
			"confirm_attempts",
		}).AddRow(
			"bk-1", "Dr. Okafor", "Orthodontics", "Riverside Dental", date,
			"10:30 AM", "user-42", StatusPending, createdAt, (*time.Time)(nil), 2,
		))

	repo := NewRepositoryWithDB(mock)
	stale, err := repo.ListStalePending(context.Background(), cutoff, 100)
	if err != nil {
		t.Fatalf("ListStalePending failed: %v", err)
	}
	if len(stale) != 1 {
		t.Fatalf("len(stale) = %d, want 1", len(stale))
	}
	if stale[0].ID != "bk-1" {
		t.Errorf("ID = %q, want bk-1", stale[0].ID)
	}
	if stale[0].ConfirmAttempts != 2 {
		t.Errorf("ConfirmAttempts = %d, want 2", stale[0].ConfirmAttempts)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepository_RecordConfirmAttempt(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`UPDATE bookings`).
		WithArgs("bk-1").
		WillReturnRows(pgxmock.NewRows([]string{"confirm_attempts"}).AddRow(3))

	repo := NewRepositoryWithDB(mock)
	attempts, err := repo.RecordConfirmAttempt(context.Background(), "bk-1")
	if err != nil {
		t.Fatalf("RecordConfirmAttempt failed: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRepository_MarkFailed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`UPDATE bookings`).
		WithArgs("bk-1", StatusFailed, StatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewRepositoryWithDB(mock)
	if err := repo.MarkFailed(context.Background(), "bk-1"); err != nil {
		t.Fatalf("MarkFailed failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
