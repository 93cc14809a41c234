// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// UserRole is the authorisation level of an account.
type UserRole string

const (
	// RoleMember is every self-registered breeder.
	RoleMember UserRole = "member"

	// RoleAdmin may post notices and read every member's collection.
	RoleAdmin UserRole = "admin"
)

// roleRank orders the roles. Unknown roles rank zero and satisfy nothing.
var roleRank = map[UserRole]int{
	RoleMember: 1,
	RoleAdmin:  2,
}

// AtLeast reports whether role grants everything required grants.
func (role UserRole) AtLeast(required UserRole) bool {
	rank := roleRank[role]
	return rank > 0 && rank >= roleRank[required]
}

func (role UserRole) IsAdmin() bool { return role == RoleAdmin }

// Valid reports whether role is one the server issues.
func (role UserRole) Valid() bool { return roleRank[role] > 0 }
