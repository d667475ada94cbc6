package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/clinic-booking-platform/pkg/logging"
)

// Submitter is the workflow surface the HTTP handler depends on.
type Submitter interface {
	Submit(ctx context.Context, req *SubmitRequest) (*Booking, error)
	Get(ctx context.Context, id string) (*Booking, error)
}

// Handler handles HTTP requests for bookings.
type Handler struct {
	svc    Submitter
	logger *logging.Logger
}

// NewHandler creates a bookings handler.
func NewHandler(svc Submitter, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// SubmitResponse is returned on a successful submission.
type SubmitResponse struct {
	Success   bool   `json:"success"`
	BookingID string `json:"bookingId"`
	Message   string `json:"message"`
}

// Submit handles POST /api/bookings. Preflight OPTIONS requests are
// answered by the CORS middleware before reaching here.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.logger.Error("failed to decode booking request", "error", err)
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	booking, err := h.svc.Submit(r.Context(), &req)
	if err != nil {
		h.logger.Error("booking submission failed", "error", err)
		// Store errors surface verbatim; failures are terminal for this
		// request and the caller retries manually.
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, SubmitResponse{
		Success:   true,
		BookingID: booking.ID,
		Message:   "Appointment booked successfully",
	})
}

// Get handles GET /api/bookings/{bookingID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "bookingID")
	if id == "" {
		writeError(w, "missing booking id", http.StatusBadRequest)
		return
	}

	booking, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			writeError(w, "booking not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load booking", "error", err, "booking_id", id)
		writeError(w, "failed to load booking", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
