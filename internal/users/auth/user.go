// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements breeder accounts and their sessions.

Accounts are a username and a bcrypt password hash with a role. Signing in
issues a short RS256 access token and a rotating refresh token whose hash is
kept in users.session.

Architecture:

  - Service: Register, Login, Refresh, Logout, ChangePassword, EnsureAdmin.
  - Directory: Read-only member lookups used by messaging and the admin view.
  - Repository: Postgres implementations of [UserRepository] and [SessionRepository].
*/
package auth

import (
	"time"

	"github.com/taibuivan/beetlekeeper/internal/platform/sec"
)

// # Domain Entities

// User is a registered breeder or administrator.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// IsAdmin reports whether the account holds the admin role.
func (user *User) IsAdmin() bool {
	return user.Role.IsAdmin()
}

// Member is the public face of an account, safe to hand to other packages.
type Member struct {
	ID       string       `json:"id"`
	Username string       `json:"username"`
	Role     sec.UserRole `json:"role"`
}

// Member strips credentials from the account.
func (user *User) Member() *Member {
	return &Member{ID: user.ID, Username: user.Username, Role: user.Role}
}

// Session is one issued refresh token.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	IsRevoked bool      `json:"is_revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

const (
	FieldUsername        = "username"
	FieldPassword        = "password"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldUser            = "user"
	FieldMessage         = "message"
)
