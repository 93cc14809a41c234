// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants holds the fixed values shared across layers: HTTP server
timing, per-IP rate limits, cookie and token settings, header names and the
collection cache key prefix.

Anything an operator may want to change belongs in config instead.
*/
package constants

import "time"

// # Server Timing

const (
	DefaultReadTimeout       = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout also becomes the PostgreSQL statement_timeout.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is the grace period for in-flight requests.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting (per client IP)

const (
	DefaultRateLimitRPS   = 100.0
	DefaultRateLimitBurst = 150

	// Idle clients are forgotten after RateLimitClientTTL; the sweep runs every RateLimitCleanupInterval.
	RateLimitCleanupInterval = 1 * time.Minute
	RateLimitClientTTL       = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the 'iss' claim of access tokens.
	AuthIssuer = "beetlekeeper.app"

	RefreshTokenCookieName = "refresh_token"

	// RefreshTokenCookiePath keeps the refresh cookie off every route except /auth.
	RefreshTokenCookiePath = "/api/v1/auth"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # Collections

const (
	// RedisPrefixCollection prefixes cached snapshots: beetle:tree:<owner>.
	RedisPrefixCollection = "beetle:tree:"

	// DefaultCacheTTL bounds how long a cached collection snapshot is trusted.
	DefaultCacheTTL = 10 * time.Minute

	// MaxUploadBytes caps image uploads for individuals and forum posts.
	MaxUploadBytes = 10 << 20
)
