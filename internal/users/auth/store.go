// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # User Data Access

// UserRepository defines the data access contract for accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByUsername returns the account with the given username. The match
		ignores case so "Kim" and "kim" cannot both register.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	// List returns every live account ordered by username.
	List(context context.Context) ([]*User, error)

	/*
		Create persists a new account.

		Returns:
		  - error: apperr.Conflict when the username is taken, or persistence failures
	*/
	Create(context context.Context, user *User) error

	// UpdatePassword replaces only the password hash.
	UpdatePassword(context context.Context, userID, newHash string) error

	// UpdateRole changes the role of an existing account.
	UpdateRole(context context.Context, userID string, role string) error
}

// # Session Data Access

// SessionRepository defines the data access contract for refresh-token sessions.
type SessionRepository interface {

	// Create persists a new session for a successful login or refresh.
	Create(context context.Context, session *Session) error

	/*
		FindByTokenHash returns the live session matching the hash. Revoked and
		expired sessions are reported as not found.

		Returns:
		  - *Session: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	// Revoke invalidates one session.
	Revoke(context context.Context, sessionID string) error

	// RevokeOthers revokes every session of the user except currentSessionID.
	RevokeOthers(context context.Context, userID, currentSessionID string) error

	// DeleteExpired removes sessions past their expiry and reports how many went.
	DeleteExpired(context context.Context) (int64, error)
}
