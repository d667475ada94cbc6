package catalog

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/clinic-booking-platform/internal/availability"
	"github.com/wolfman30/clinic-booking-platform/pkg/logging"
)

// Handler serves the service catalog and per-service calendars.
type Handler struct {
	logger *logging.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{logger: logger}
}

// List handles GET /api/services.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Services())
}

// GetBySlug handles GET /api/services/{slug}.
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	svc, ok := ServiceBySlug(slug)
	if !ok {
		writeError(w, "service not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

type calendarCell struct {
	Date           string `json:"date"`
	IsCurrentMonth bool   `json:"isCurrentMonth"`
	IsAvailable    bool   `json:"isAvailable"`
	Selectable     bool   `json:"selectable"`
}

type calendarResponse struct {
	Service string         `json:"service"`
	Month   string         `json:"month"`
	Cells   []calendarCell `json:"cells"`
}

// Calendar handles GET /api/services/{slug}/calendar?month=YYYY-MM,
// rendering the booking grid for the requested month (default: the
// current one).
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	svc, ok := ServiceBySlug(slug)
	if !ok {
		writeError(w, "service not found", http.StatusNotFound)
		return
	}

	month := time.Now()
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			writeError(w, "invalid month, want YYYY-MM", http.StatusBadRequest)
			return
		}
		month = parsed
	}

	view := availability.NewViewAt(month, svc.Schedule, nil)
	grid := view.Grid()
	cells := make([]calendarCell, 0, len(grid))
	for _, c := range grid {
		cells = append(cells, calendarCell{
			Date:           c.Date.Format("2006-01-02"),
			IsCurrentMonth: c.IsCurrentMonth,
			IsAvailable:    c.IsAvailable,
			Selectable:     c.Selectable(),
		})
	}

	writeJSON(w, http.StatusOK, calendarResponse{
		Service: svc.Slug,
		Month:   view.CurrentMonth().Format("2006-01"),
		Cells:   cells,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
