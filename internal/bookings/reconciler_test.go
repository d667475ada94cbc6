package bookings

import (
	"context"
	"errors"
	"testing"
	"time"
)

// stubReconcilerStore drives the sweep from a fixed stale set.
type stubReconcilerStore struct {
	stale      []Booking
	listErr    error
	confirmErr error

	listedBefore time.Time
	confirmed    []string
	attempts     map[string]int
	failed       []string
}

func (s *stubReconcilerStore) ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]Booking, error) {
	s.listedBefore = olderThan
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.stale, nil
}

func (s *stubReconcilerStore) Confirm(ctx context.Context, id string, at time.Time) error {
	if s.confirmErr != nil {
		return s.confirmErr
	}
	s.confirmed = append(s.confirmed, id)
	return nil
}

func (s *stubReconcilerStore) RecordConfirmAttempt(ctx context.Context, id string) (int, error) {
	if s.attempts == nil {
		s.attempts = make(map[string]int)
	}
	s.attempts[id]++
	return s.attempts[id], nil
}

func (s *stubReconcilerStore) MarkFailed(ctx context.Context, id string) error {
	s.failed = append(s.failed, id)
	return nil
}

func stalePending(ids ...string) []Booking {
	out := make([]Booking, 0, len(ids))
	for _, id := range ids {
		out = append(out, Booking{ID: id, Status: StatusPending})
	}
	return out
}

func TestReconciler_ProcessStale_Recovers(t *testing.T) {
	store := &stubReconcilerStore{stale: stalePending("bk-1", "bk-2")}
	rc := NewReconciler(store, 5*time.Minute, 3, nil, nil)
	now := time.Date(2025, time.December, 1, 9, 30, 0, 0, time.UTC)
	rc.now = func() time.Time { return now }

	resolved, err := rc.ProcessStale(context.Background())
	if err != nil {
		t.Fatalf("ProcessStale failed: %v", err)
	}
	if resolved != 2 {
		t.Errorf("resolved = %d, want 2", resolved)
	}
	if len(store.confirmed) != 2 {
		t.Errorf("confirmed = %v, want both rows", store.confirmed)
	}
	if len(store.failed) != 0 {
		t.Errorf("failed = %v, want none", store.failed)
	}

	wantCutoff := now.Add(-5 * time.Minute)
	if !store.listedBefore.Equal(wantCutoff) {
		t.Errorf("cutoff = %v, want %v", store.listedBefore, wantCutoff)
	}
}

func TestReconciler_ProcessStale_GivesUpAfterMaxAttempts(t *testing.T) {
	store := &stubReconcilerStore{
		stale:      stalePending("bk-stuck"),
		confirmErr: errors.New("connection reset"),
	}
	rc := NewReconciler(store, 5*time.Minute, 3, nil, nil)

	// Two sweeps record attempts but keep the row pending.
	for i := 0; i < 2; i++ {
		resolved, err := rc.ProcessStale(context.Background())
		if err != nil {
			t.Fatalf("ProcessStale failed: %v", err)
		}
		if resolved != 0 {
			t.Errorf("sweep %d: resolved = %d, want 0", i+1, resolved)
		}
	}
	if len(store.failed) != 0 {
		t.Fatalf("row marked failed before attempt budget exhausted: %v", store.failed)
	}

	// Third sweep hits the budget and gives up.
	resolved, err := rc.ProcessStale(context.Background())
	if err != nil {
		t.Fatalf("ProcessStale failed: %v", err)
	}
	if resolved != 1 {
		t.Errorf("resolved = %d, want 1", resolved)
	}
	if len(store.failed) != 1 || store.failed[0] != "bk-stuck" {
		t.Errorf("failed = %v, want [bk-stuck]", store.failed)
	}
	if store.attempts["bk-stuck"] != 3 {
		t.Errorf("attempts = %d, want 3", store.attempts["bk-stuck"])
	}
}

func TestReconciler_ProcessStale_EmptySweep(t *testing.T) {
	store := &stubReconcilerStore{}
	rc := NewReconciler(store, 5*time.Minute, 3, nil, nil)

	resolved, err := rc.ProcessStale(context.Background())
	if err != nil {
		t.Fatalf("ProcessStale failed: %v", err)
	}
	if resolved != 0 {
		t.Errorf("resolved = %d, want 0", resolved)
	}
}

func TestReconciler_ProcessStale_ListError(t *testing.T) {
	store := &stubReconcilerStore{listErr: errors.New("database unavailable")}
	rc := NewReconciler(store, 5*time.Minute, 3, nil, nil)

	if _, err := rc.ProcessStale(context.Background()); err == nil {
		t.Fatal("expected an error when the stale listing fails")
	}
}

func TestReconciler_Run_StopsOnContextCancel(t *testing.T) {
	store := &stubReconcilerStore{}
	rc := NewReconciler(store, 5*time.Minute, 3, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rc.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
