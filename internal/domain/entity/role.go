// Package entity contains the core business objects of the project.
package entity

import (
	"slices"
	"strings"
)

// Role represents the type of role a user can have in the library.
type Role string

const (
	// RoleLibrarian manages the catalogue and other accounts.
	RoleLibrarian Role = "librarian"
	// RoleMember borrows and returns books.
	RoleMember Role = "member"
)

const roleSeparator = ","

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleLibrarian, RoleMember:
		return true
	default:
		return false
	}
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// ToStrings converts Roles to []string.
func (rs Roles) ToStrings() []string {
	result := make([]string, len(rs))
	for i, r := range rs {
		result[i] = r.String()
	}

	return result
}

// Join encodes the roles as a single comma-separated column value.
func (rs Roles) Join() string {
	return strings.Join(rs.ToStrings(), roleSeparator)
}

// RolesFromStrings converts []string to Roles, filtering out invalid role strings.
func RolesFromStrings(ss []string) Roles {
	result := make(Roles, 0, len(ss))
	for _, s := range ss {
		role := Role(strings.TrimSpace(s))
		if role.IsValid() {
			result = append(result, role)
		}
	}

	return result
}

// SplitRoles decodes a value produced by Roles.Join.
func SplitRoles(joined string) Roles {
	if joined == "" {
		return Roles{}
	}

	return RolesFromStrings(strings.Split(joined, roleSeparator))
}
