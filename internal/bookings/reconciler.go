package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfman30/clinic-booking-platform/internal/observability/metrics"
	"github.com/wolfman30/clinic-booking-platform/pkg/logging"
)

const staleBatchSize = 100

// ReconcilerStore is the persistence surface the reconciler needs.
type ReconcilerStore interface {
	ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]Booking, error)
	Confirm(ctx context.Context, id string, at time.Time) error
	RecordConfirmAttempt(ctx context.Context, id string) (int, error)
	MarkFailed(ctx context.Context, id string) error
}

// Reconciler sweeps bookings stranded in pending — inserted successfully
// but never confirmed — and retries the confirmation. Rows that keep
// failing past the attempt budget are marked failed so they stop matching
// the sweep.
type Reconciler struct {
	store       ReconcilerStore
	logger      *logging.Logger
	metrics     *metrics.BookingMetrics
	staleAfter  time.Duration
	maxAttempts int
	now         func() time.Time
}

// NewReconciler creates a reconciler. Rows younger than staleAfter are
// never touched: they may still be mid-flight in a live request.
func NewReconciler(store ReconcilerStore, staleAfter time.Duration, maxAttempts int, logger *logging.Logger, m *metrics.BookingMetrics) *Reconciler {
	if store == nil {
		panic("bookings: reconciler store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Reconciler{
		store:       store,
		logger:      logger,
		metrics:     m,
		staleAfter:  staleAfter,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// ProcessStale runs one sweep and returns the number of rows it resolved
// (confirmed or marked failed).
func (rc *Reconciler) ProcessStale(ctx context.Context) (int, error) {
	cutoff := rc.now().Add(-rc.staleAfter)
	stale, err := rc.store.ListStalePending(ctx, cutoff, staleBatchSize)
	if err != nil {
		return 0, fmt.Errorf("bookings reconciler: list stale: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	rc.logger.Info("bookings reconciler: processing stale pending rows", "count", len(stale))

	resolved := 0
	for i := range stale {
		b := &stale[i]
		if err := rc.store.Confirm(ctx, b.ID, rc.now().UTC()); err == nil {
			rc.metrics.ObserveReconciled("recovered")
			rc.logger.Info("bookings reconciler: recovered booking", "booking_id", b.ID)
			resolved++
			continue
		} else {
			rc.logger.Error("bookings reconciler: confirm retry failed",
				"booking_id", b.ID, "error", err)
		}

		attempts, err := rc.store.RecordConfirmAttempt(ctx, b.ID)
		if err != nil {
			rc.logger.Error("bookings reconciler: failed to record attempt",
				"booking_id", b.ID, "error", err)
			continue
		}
		if attempts >= rc.maxAttempts {
			if err := rc.store.MarkFailed(ctx, b.ID); err != nil {
				rc.logger.Error("bookings reconciler: failed to mark booking failed",
					"booking_id", b.ID, "error", err)
				continue
			}
			rc.metrics.ObserveReconciled("failed")
			rc.logger.Warn("bookings reconciler: gave up on booking",
				"booking_id", b.ID, "attempts", attempts)
			resolved++
		}
	}
	return resolved, nil
}

// Run sweeps on the given interval until the context is cancelled.
func (rc *Reconciler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := rc.ProcessStale(ctx); err != nil {
				rc.logger.Error("bookings reconciler: sweep failed", "error", err)
			}
		}
	}
}
