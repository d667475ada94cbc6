package bookings

import (
	"context"
	"errors"
	"testing"
	"time"
)

// stubStore records workflow calls in order and can fail each step.
type stubStore struct {
	insertErr  error
	confirmErr error

	inserted  *Booking
	confirmed []string
	calls     []string
}

func (s *stubStore) InsertPending(ctx context.Context, req *SubmitRequest, date time.Time) (*Booking, error) {
	s.calls = append(s.calls, "insert")
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	b := &Booking{
		ID:              "bk-test",
		DoctorName:      req.DoctorName,
		Specialty:       req.Specialty,
		Clinic:          req.Clinic,
		AppointmentDate: date,
		AppointmentTime: req.Time,
		UserID:          req.UserID,
		Status:          StatusPending,
		CreatedAt:       time.Date(2025, time.December, 1, 9, 0, 0, 0, time.UTC),
	}
	s.inserted = b
	return b, nil
}

func (s *stubStore) Confirm(ctx context.Context, id string, at time.Time) error {
	s.calls = append(s.calls, "confirm")
	if s.confirmErr != nil {
		return s.confirmErr
	}
	s.confirmed = append(s.confirmed, id)
	return nil
}

func (s *stubStore) GetByID(ctx context.Context, id string) (*Booking, error) {
	s.calls = append(s.calls, "get")
	if s.inserted != nil && s.inserted.ID == id {
		return s.inserted, nil
	}
	return nil, ErrBookingNotFound
}

func TestService_Submit(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store, nil, nil)
	svc.now = func() time.Time {
		return time.Date(2025, time.December, 1, 9, 0, 2, 0, time.UTC)
	}

	booking, err := svc.Submit(context.Background(), validSubmitRequest())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if booking.Status != StatusConfirmed {
		t.Errorf("Status = %q, want %q", booking.Status, StatusConfirmed)
	}
	if booking.ConfirmedAt == nil {
		t.Fatal("ConfirmedAt is nil, want confirmation timestamp")
	}
	want := time.Date(2025, time.December, 1, 9, 0, 2, 0, time.UTC)
	if !booking.ConfirmedAt.Equal(want) {
		t.Errorf("ConfirmedAt = %v, want %v", booking.ConfirmedAt, want)
	}
	if len(store.calls) != 2 || store.calls[0] != "insert" || store.calls[1] != "confirm" {
		t.Errorf("calls = %v, want [insert confirm]", store.calls)
	}
}

func TestService_Submit_InvalidRequest(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SubmitRequest)
		want   error
	}{
		{"missing doctor", func(r *SubmitRequest) { r.DoctorName = "" }, ErrMissingDoctor},
		{"missing specialty", func(r *SubmitRequest) { r.Specialty = "  " }, ErrMissingSpecialty},
		{"missing clinic", func(r *SubmitRequest) { r.Clinic = "" }, ErrMissingClinic},
		{"missing time", func(r *SubmitRequest) { r.Time = "" }, ErrMissingTime},
		{"missing user", func(r *SubmitRequest) { r.UserID = "" }, ErrMissingUser},
		{"bad date", func(r *SubmitRequest) { r.Date = "12/10/2025" }, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubStore{}
			svc := NewService(store, nil, nil)

			req := validSubmitRequest()
			tt.mutate(req)

			if _, err := svc.Submit(context.Background(), req); !errors.Is(err, tt.want) {
				t.Errorf("Submit error = %v, want %v", err, tt.want)
			}
			if len(store.calls) != 0 {
				t.Errorf("store was called for an invalid request: %v", store.calls)
			}
		})
	}
}

func TestService_Submit_InsertFailure(t *testing.T) {
	store := &stubStore{insertErr: errors.New("connection refused")}
	svc := NewService(store, nil, nil)

	if _, err := svc.Submit(context.Background(), validSubmitRequest()); err == nil {
		t.Fatal("expected an error when the insert fails")
	}
	for _, c := range store.calls {
		if c == "confirm" {
			t.Error("Confirm was called after a failed insert")
		}
	}
}

func TestService_Submit_ConfirmFailureLeavesPendingRow(t *testing.T) {
	store := &stubStore{confirmErr: errors.New("connection reset")}
	svc := NewService(store, nil, nil)

	_, err := svc.Submit(context.Background(), validSubmitRequest())
	if err == nil {
		t.Fatal("expected an error when confirmation fails")
	}

	// The pending row was written and stays pending for the reconciler.
	if store.inserted == nil {
		t.Fatal("pending row was not inserted")
	}
	if store.inserted.Status != StatusPending {
		t.Errorf("Status = %q, want %q", store.inserted.Status, StatusPending)
	}
}

func TestService_Get(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store, nil, nil)

	seeded, err := svc.Submit(context.Background(), validSubmitRequest())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	got, err := svc.Get(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != seeded.ID {
		t.Errorf("ID = %q, want %q", got.ID, seeded.ID)
	}

	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("Get error = %v, want ErrBookingNotFound", err)
	}
}
