package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleLibrarian.IsValid())
	assert.True(t, RoleMember.IsValid())
	assert.False(t, Role("admin").IsValid())
	assert.False(t, Role("").IsValid())
}

func TestRoles_JoinAndSplit(t *testing.T) {
	roles := Roles{RoleLibrarian, RoleMember}

	assert.Equal(t, "librarian,member", roles.Join())
	assert.Equal(t, roles, SplitRoles(roles.Join()))
	assert.Equal(t, Roles{}, SplitRoles(""))
	assert.Equal(t, Roles{RoleMember}, SplitRoles("member,ghost"))
}

func TestUser_IsLibrarian(t *testing.T) {
	assert.True(t, (&User{Roles: Roles{RoleMember, RoleLibrarian}}).IsLibrarian())
	assert.False(t, (&User{Roles: Roles{RoleMember}}).IsLibrarian())
	assert.False(t, (&User{}).IsLibrarian())
}
