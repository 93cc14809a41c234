// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"regexp"
	"time"
)

// # Session Lifetimes

const (
	// AccessTokenTTL is how long a signed access token is accepted.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is how long a refresh cookie can renew a session.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshTokenLength is the number of random bytes behind a refresh token.
	RefreshTokenLength = 32
)

// # Credential Rules

const (
	MinUsernameLength = 3
	MaxUsernameLength = 32
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt ignores anything longer
)

// usernamePattern allows letters, digits, dot, dash and underscore.
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}._-]+$`)
