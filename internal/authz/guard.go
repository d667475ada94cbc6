package authz

import (
	"github.com/wolfman30/clinic-booking-platform/pkg/logging"
)

// Action is what the routing layer should do with a guarded request.
type Action int

const (
	// ActionRenderLoading shows the loading state; no access decision has
	// been made yet.
	ActionRenderLoading Action = iota
	// ActionRender serves the protected content.
	ActionRender
	// ActionRedirect sends the caller to Decision.Target.
	ActionRedirect
)

// Decision is the guard outcome.
type Decision struct {
	Action Action
	Target string
}

// GuardState is the session snapshot a guard decision is made from. The
// decision must be re-evaluated whenever any field changes.
type GuardState struct {
	// Loading is true while the session is still resolving.
	Loading bool
	// UserID is empty when no user is signed in.
	UserID string
	// LiveRole is the role on the current session, if loaded.
	LiveRole Role
	// CachedRole is the role persisted from a prior session, if any.
	CachedRole Role
	// AllowedRoles is the caller-declared set that may view the content.
	AllowedRoles []Role
}

// Guard makes render/redirect decisions for protected routes.
type Guard struct {
	loginPath    string
	fallbackPath string
	logger       *logging.Logger
}

// NewGuard creates a guard. Empty paths fall back to /login and the
// application root.
func NewGuard(loginPath, fallbackPath string, logger *logging.Logger) *Guard {
	if loginPath == "" {
		loginPath = "/login"
	}
	if fallbackPath == "" {
		fallbackPath = "/"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Guard{loginPath: loginPath, fallbackPath: fallbackPath, logger: logger}
}

// Authorize decides what to do with a request against the given session
// state. A denied request is redirected, never errored: the denial is
// logged for diagnostics and the caller only sees the redirect.
func (g *Guard) Authorize(state GuardState) Decision {
	if state.Loading {
		return Decision{Action: ActionRenderLoading}
	}
	if state.UserID == "" {
		return Decision{Action: ActionRedirect, Target: g.loginPath}
	}

	role := EffectiveRole(state.LiveRole, state.CachedRole)
	if role == RoleNone || !role.In(state.AllowedRoles) {
		g.logger.Info("access denied",
			"user_id", state.UserID, "role", string(role), "redirect", g.fallbackPath)
		return Decision{Action: ActionRedirect, Target: g.fallbackPath}
	}
	return Decision{Action: ActionRender}
}
