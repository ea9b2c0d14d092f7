package rbac

import (
	"sort"
	"strings"

	"github.com/a-ems/aems/logger"
)

// Resolver answers permission questions for roles. It is stateless and
// safe for concurrent use.
type Resolver struct {
	log *logger.Logger
}

// NewResolver creates a resolver. The logger may be nil.
func NewResolver(log *logger.Logger) *Resolver {
	return &Resolver{log: log}
}

// HasPermission reports whether a role grants a permission. Unknown roles
// are logged and denied; they never fail open.
func (r *Resolver) HasPermission(role string, perm Permission) bool {
	perms, ok := rolePermissions[Role(strings.ToLower(role))]
	if !ok {
		r.warnUnknownRole(role)
		return false
	}
	_, granted := perms[perm]
	return granted
}

// CanAccess reports whether a role may perform an action on a resource.
// Unknown resources and actions are denied.
func (r *Resolver) CanAccess(role, resource, action string) bool {
	actions, ok := resourceActions[strings.ToLower(resource)]
	if !ok {
		return false
	}
	perm, ok := actions[strings.ToLower(action)]
	if !ok {
		return false
	}
	return r.HasPermission(role, perm)
}

// PermissionsForRole returns the sorted permission list for a role.
// Unknown roles yield an empty list.
func (r *Resolver) PermissionsForRole(role string) []Permission {
	perms, ok := rolePermissions[Role(strings.ToLower(role))]
	if !ok {
		r.warnUnknownRole(role)
		return []Permission{}
	}
	out := make([]Permission, 0, len(perms))
	for p := range perms {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsValidRole reports whether the role name is one of the defined roles.
func IsValidRole(role string) bool {
	_, ok := rolePermissions[Role(strings.ToLower(role))]
	return ok
}

func (r *Resolver) warnUnknownRole(role string) {
	if r.log != nil {
		r.log.Warn("unknown role", logger.Fields("role", role))
	}
}
