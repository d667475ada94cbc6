package identity

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"

	"github.com/wolfman30/clinic-booking-platform/internal/authz"
	"github.com/wolfman30/clinic-booking-platform/pkg/logging"
)

var identityTracer = otel.Tracer("clinic.internal.identity")

// superAdminName is the display name stamped on promoted accounts.
const superAdminName = "Super Admin"

// UserStore is the user persistence surface the service needs.
type UserStore interface {
	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, email, passwordHash, fullName string) (*User, error)
}

// ProfileStore is the profile persistence surface the service needs.
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) error
}

// Service runs identity workflows against the user and profile stores.
type Service struct {
	users    UserStore
	profiles ProfileStore
	logger   *logging.Logger
}

// NewService constructs an identity service.
func NewService(users UserStore, profiles ProfileStore, logger *logging.Logger) *Service {
	if users == nil || profiles == nil {
		panic("identity: user and profile stores required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{users: users, profiles: profiles, logger: logger}
}

// FindOrCreateUser resolves an email to a user id. The lookup lists users
// and matches the email exactly; on a miss, a new already-confirmed user
// is created with a bcrypt-hashed password. Calling twice with the same
// email never creates a duplicate.
func (s *Service) FindOrCreateUser(ctx context.Context, email, password, fullName string) (string, bool, error) {
	ctx, span := identityTracer.Start(ctx, "identity.find_or_create_user")
	defer span.End()

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", false, ErrMissingEmail
	}
	if !strings.Contains(email, "@") {
		return "", false, ErrInvalidEmail
	}
	if password == "" {
		return "", false, ErrMissingPassword
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		span.RecordError(err)
		return "", false, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u.ID, false, nil
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return "", false, fmt.Errorf("identity: hash password: %w", err)
	}
	created, err := s.users.CreateUser(ctx, email, string(hash), fullName)
	if err != nil {
		span.RecordError(err)
		return "", false, err
	}
	s.logger.Info("user created", "user_id", created.ID)
	return created.ID, true, nil
}

// AssignRole upserts the profile row for a user, setting its role, and
// returns the role that was there before. Replacing an existing elevated
// role with a different one requires ConfirmOverwrite.
func (s *Service) AssignRole(ctx context.Context, req AssignRoleRequest) (*AssignResult, error) {
	ctx, span := identityTracer.Start(ctx, "identity.assign_role")
	defer span.End()
	span.SetAttributes(attribute.String("clinic.role", string(req.Role)))

	if req.UserID == "" {
		return nil, ErrUserNotFound
	}

	prior := authz.RoleNone
	existing, err := s.profiles.GetByUserID(ctx, req.UserID)
	switch err {
	case nil:
		prior = existing.Role
	case ErrUserNotFound:
		// First assignment for this user.
	default:
		span.RecordError(err)
		return nil, err
	}

	if prior.Elevated() && prior != req.Role && !req.ConfirmOverwrite {
		return nil, ErrOverwriteNotConfirmed
	}

	profile := &Profile{
		UserID:   req.UserID,
		Email:    req.Email,
		FullName: req.FullName,
		Role:     req.Role,
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if prior != authz.RoleNone && prior != req.Role {
		s.logger.Warn("profile role overwritten",
			"user_id", req.UserID, "prior_role", string(prior), "role", string(req.Role))
	}
	return &AssignResult{UserID: req.UserID, Role: req.Role, PriorRole: prior}, nil
}

// AssignSuperAdmin promotes the account for an email to super admin,
// creating the account first if it does not exist. Any prior role is
// overwritten.
func (s *Service) AssignSuperAdmin(ctx context.Context, email, password string) (*AssignResult, bool, error) {
	ctx, span := identityTracer.Start(ctx, "identity.assign_super_admin")
	defer span.End()

	userID, created, err := s.FindOrCreateUser(ctx, email, password, superAdminName)
	if err != nil {
		return nil, false, err
	}

	result, err := s.AssignRole(ctx, AssignRoleRequest{
		UserID:   userID,
		Email:    strings.TrimSpace(strings.ToLower(email)),
		FullName: superAdminName,
		Role:     authz.RoleSuperAdmin,
		// The promotion endpoint deliberately replaces whatever was there.
		ConfirmOverwrite: true,
	})
	if err != nil {
		return nil, false, err
	}
	s.logger.Info("super admin assigned", "user_id", userID, "created", created)
	return result, created, nil
}
