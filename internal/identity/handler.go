package identity

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/wolfman30/clinic-booking-platform/pkg/logging"
)

// Promoter is the workflow surface the HTTP handler depends on.
type Promoter interface {
	AssignSuperAdmin(ctx context.Context, email, password string) (*AssignResult, bool, error)
}

// Handler handles HTTP requests for identity administration.
type Handler struct {
	svc    Promoter
	logger *logging.Logger
}

// NewHandler creates an identity handler.
func NewHandler(svc Promoter, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

type superAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type superAdminResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// CreateSuperAdmin handles POST /api/admin/super-admin.
func (h *Handler) CreateSuperAdmin(w http.ResponseWriter, r *http.Request) {
	var req superAdminRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.logger.Error("failed to decode super admin request", "error", err)
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, created, err := h.svc.AssignSuperAdmin(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("super admin assignment failed", "error", err)
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	msg := "Existing user promoted to super admin"
	if created {
		msg = "Super admin user created successfully"
	}
	writeJSON(w, http.StatusOK, superAdminResponse{
		Success: true,
		Message: msg,
		UserID:  result.UserID,
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
