// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware holds the http.Handler decorators mounted on the API router.

Order matters. The server wires them as:

	RequestID -> StructuredLogger -> metrics -> Timeout -> RateLimit
	-> PanicRecovery -> Authenticate -> CORS

so that every log line carries the request id and every panic is logged by
the request's own logger. Route groups add [RequireAuth] or [RequireRole].
*/
package middleware
