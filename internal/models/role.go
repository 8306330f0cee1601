package models

import "strings"

// Role is the closed set of account roles. Roles are stored and carried in
// tokens as plain uppercase strings with no prefix.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleInstructor Role = "INSTRUCTOR"
	RoleStudent    Role = "STUDENT"
)

// AuthorityPrefix is prepended to a role when it is attached to a request
// identity, matching what the authorization layer expects.
const AuthorityPrefix = "ROLE_"

// ParseRole normalizes a role string. "TEACHER" is an organization alias
// for INSTRUCTOR and is accepted on input but never stored or issued.
func ParseRole(s string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin, true
	case "INSTRUCTOR", "TEACHER":
		return RoleInstructor, true
	case "STUDENT":
		return RoleStudent, true
	}
	return "", false
}

// Authority returns the prefixed form used for authorization checks,
// e.g. "ROLE_ADMIN".
func (r Role) Authority() string {
	return AuthorityPrefix + string(r)
}

func (r Role) String() string {
	return string(r)
}

// NormalizeAuthority maps an authority string to its canonical form,
// resolving the TEACHER alias. Input may arrive with or without the
// ROLE_ prefix; output always carries it.
func NormalizeAuthority(s string) string {
	trimmed := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), AuthorityPrefix)
	if role, ok := ParseRole(trimmed); ok {
		return role.Authority()
	}
	return AuthorityPrefix + trimmed
}
