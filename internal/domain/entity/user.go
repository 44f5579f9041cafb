// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is a library account: a librarian, a member, or both.
type User struct {
	ID           uuid.UUID // The Global Unique Identifier (GUID) for the user.
	FirstName    string    // The user's given name.
	LastName     string    // The user's family name.
	Email        string    // Unique login identifier.
	PasswordHash string    // Credential record in "iterations:saltHex:hashHex" form. Never the plaintext.
	Roles        Roles     // One or two of RoleLibrarian, RoleMember.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this account.
}

// IsLibrarian reports whether the user holds the librarian role.
func (u *User) IsLibrarian() bool {
	return u.Roles.Contains(RoleLibrarian)
}
