package authz

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// CachedRoleStore persists the last-seen role per user so the guard can
// fall back to it before the live session role has loaded. A cache miss is
// not an error: the guard treats it as no cached role.
type CachedRoleStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewCachedRoleStore creates a role cache with the given entry TTL.
func NewCachedRoleStore(client *redis.Client, ttl time.Duration) *CachedRoleStore {
	if client == nil {
		panic("authz: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedRoleStore{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("clinic.internal.authz"),
	}
}

// Get returns the cached role for a user, or RoleNone on a miss.
func (s *CachedRoleStore) Get(ctx context.Context, userID string) (Role, error) {
	ctx, span := s.tracer.Start(ctx, "authz.get_cached_role")
	defer span.End()

	val, err := s.redis.Get(ctx, roleKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return RoleNone, nil
		}
		span.RecordError(err)
		return RoleNone, fmt.Errorf("authz: failed to load cached role: %w", err)
	}
	return Role(val), nil
}

// Set records the role a session last resolved for a user.
func (s *CachedRoleStore) Set(ctx context.Context, userID string, role Role) error {
	ctx, span := s.tracer.Start(ctx, "authz.set_cached_role")
	defer span.End()

	if err := s.redis.Set(ctx, roleKey(userID), string(role), s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("authz: failed to cache role: %w", err)
	}
	return nil
}

// Clear drops the cached role, e.g. on sign-out.
func (s *CachedRoleStore) Clear(ctx context.Context, userID string) error {
	if err := s.redis.Del(ctx, roleKey(userID)).Err(); err != nil {
		return fmt.Errorf("authz: failed to clear cached role: %w", err)
	}
	return nil
}

func roleKey(userID string) string {
	return fmt.Sprintf("role:%s", userID)
}
