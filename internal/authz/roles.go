// Package authz holds the authorization core: the role model, the
// request-scoped principal context, the composable guards, and the tenant
// isolation checks every organization-scoped operation runs through.
package authz

import "strings"

// Role is one of the fixed platform roles.
type Role string

const (
	// RoleSystemAdmin operates across all tenants and is never treated
	// as an organization member.
	RoleSystemAdmin Role = "system_admin"
	// RoleOrgAdmin manages users, groups and courses within one tenant.
	RoleOrgAdmin Role = "org_admin"
	// RoleCoordinator manages courses and enrollments within one tenant.
	RoleCoordinator Role = "coordinator"
	// RoleStaff is a general organization member.
	RoleStaff Role = "staff"
)

var knownRoles = map[Role]struct{}{
	RoleSystemAdmin: {},
	RoleOrgAdmin:    {},
	RoleCoordinator: {},
	RoleStaff:       {},
}

// RoleSet is an ordered set of roles. A user may hold several roles at
// once; order is preserved from the source representation.
type RoleSet []Role

// Has reports whether the set contains the role.
func (s RoleSet) Has(role Role) bool {
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}

// HasAny reports whether the set contains at least one of the roles.
func (s RoleSet) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// Strings returns the set as plain strings.
func (s RoleSet) Strings() []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// NormalizeRoles converts an externally sourced role representation into a
// RoleSet. It accepts a string slice, an []any of strings, a single role
// label, or comma-separated text. Labels are trimmed and lowercased;
// unknown labels and duplicates are dropped. Malformed input yields an
// empty set, never an error.
func NormalizeRoles(v any) RoleSet {
	var labels []string
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		labels = t
	case []any:
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil
			}
			labels = append(labels, s)
		}
	case string:
		labels = strings.Split(t, ",")
	case RoleSet:
		labels = t.Strings()
	default:
		return nil
	}

	var out RoleSet
	for _, l := range labels {
		r := Role(strings.ToLower(strings.TrimSpace(l)))
		if _, ok := knownRoles[r]; !ok {
			continue
		}
		if !out.Has(r) {
			out = append(out, r)
		}
	}
	return out
}
