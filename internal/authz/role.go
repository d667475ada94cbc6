// Package authz decides whether a session may see protected content. The
// decision combines a live session role with a cached role persisted from a
// prior session, live winning when both are present.
package authz

// Role is a profile role value as stored in the profiles table.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleStaff      Role = "staff"
	RolePatient    Role = "patient"

	// RoleNone marks the absence of a role.
	RoleNone Role = ""
)

// Elevated reports whether the role grants administrative access.
// Overwriting an elevated role requires explicit confirmation.
func (r Role) Elevated() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// In reports whether the role appears in the allowed set.
func (r Role) In(allowed []Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// EffectiveRole resolves the role to authorize against: the live session
// role when present, otherwise the cached role from a prior session,
// otherwise none.
func EffectiveRole(live, cached Role) Role {
	if live != RoleNone {
		return live
	}
	return cached
}
