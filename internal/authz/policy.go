package authz

import (
	"strings"

	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"
)

// Role is a user's role inside one team.
type Role = models.Role

// Team roles.
const (
	RoleAdmin  = models.RoleAdmin
	RoleMember = models.RoleMember
	RoleGuest  = models.RoleGuest
)

// RoleSet is a set of roles permitted to perform an action.
// The zero value permits nobody.
type RoleSet []Role

// Canonical role sets.
var (
	AnyMember     = RoleSet{RoleAdmin, RoleMember, RoleGuest}
	AdminOrMember = RoleSet{RoleAdmin, RoleMember}
	AdminOnly     = RoleSet{RoleAdmin}
)

// Contains reports whether r is in the set.
func (s RoleSet) Contains(r Role) bool {
	for _, allowed := range s {
		if allowed == r {
			return true
		}
	}
	return false
}

// String renders the set as a comma-separated list.
func (s RoleSet) String() string {
	parts := make([]string, len(s))
	for i, r := range s {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

// Decide reports whether actual satisfies required. Unknown roles never do.
func Decide(required RoleSet, actual Role) bool {
	if !IsValidRole(actual) {
		return false
	}
	return required.Contains(actual)
}

// IsAdmin reports whether r is the admin role.
func IsAdmin(r Role) bool {
	return Decide(AdminOnly, r)
}

// IsValidRole reports whether r is one of the known roles.
func IsValidRole(r Role) bool {
	return AnyMember.Contains(r)
}

// ParseRole converts s to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !IsValidRole(r) {
		return "", apperrors.ErrInvalidRole
	}
	return r, nil
}
