package bookings

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/clinic-booking-platform/internal/observability/metrics"
	"github.com/wolfman30/clinic-booking-platform/pkg/logging"
)

var bookingsTracer = otel.Tracer("clinic.internal.bookings")

// Store is the persistence surface the service needs.
type Store interface {
	InsertPending(ctx context.Context, req *SubmitRequest, date time.Time) (*Booking, error)
	Confirm(ctx context.Context, id string, at time.Time) error
	GetByID(ctx context.Context, id string) (*Booking, error)
}

// Service runs the booking workflow: insert a pending row, then promote it
// to confirmed before returning. The caller never observes the pending
// state on success; on a failed confirmation the row stays pending and the
// reconciler picks it up.
type Service struct {
	store   Store
	logger  *logging.Logger
	metrics *metrics.BookingMetrics
	now     func() time.Time
}

// NewService constructs a bookings service. Metrics may be nil.
func NewService(store Store, logger *logging.Logger, m *metrics.BookingMetrics) *Service {
	if store == nil {
		panic("bookings: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, logger: logger, metrics: m, now: time.Now}
}

// Submit persists and confirms a booking, returning the confirmed row.
//
// There is no idempotency key: retrying the same logical request creates a
// second row. No overlap check is made against existing bookings for the
// same clinic/doctor/date/time.
func (s *Service) Submit(ctx context.Context, req *SubmitRequest) (*Booking, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.submit")
	defer span.End()

	date, err := req.Validate()
	if err != nil {
		s.metrics.ObserveSubmission("invalid")
		return nil, err
	}
	span.SetAttributes(
		attribute.String("clinic.user_id", req.UserID),
		attribute.String("clinic.appointment_date", req.Date),
	)

	booking, err := s.store.InsertPending(ctx, req, date)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveSubmission("insert_failed")
		return nil, err
	}

	confirmedAt := s.now().UTC()
	if err := s.store.Confirm(ctx, booking.ID, confirmedAt); err != nil {
		// The pending row is left behind; the reconciler will retry it.
		span.RecordError(err)
		s.metrics.ObserveSubmission("confirm_failed")
		s.logger.Error("booking inserted but confirmation failed",
			"booking_id", booking.ID, "error", err)
		return nil, fmt.Errorf("bookings: confirm %s: %w", booking.ID, err)
	}

	booking.Status = StatusConfirmed
	booking.ConfirmedAt = &confirmedAt
	s.metrics.ObserveSubmission("confirmed")
	s.metrics.ObserveConfirmLatency(confirmedAt.Sub(booking.CreatedAt).Seconds())
	s.logger.Info("booking confirmed",
		"booking_id", booking.ID, "user_id", booking.UserID, "clinic", booking.Clinic)
	return booking, nil
}

// Get returns one booking by id.
func (s *Service) Get(ctx context.Context, id string) (*Booking, error) {
	return s.store.GetByID(ctx, id)
}
