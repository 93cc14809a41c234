// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strings"

	"github.com/taibuivan/beetlekeeper/internal/platform/constants"
)

// OriginPolicy is the slice of config the CORS middleware reads.
// [*config.Config] satisfies it.
type OriginPolicy interface {
	IsDevelopment() bool
	AllowedOrigins() []string
}

// trustedSuffix admits the production web client and its subdomains.
const trustedSuffix = ".beetlekeeper.app"

const (
	allowMethods  = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	allowHeaders  = "Accept, Authorization, Content-Type, X-Request-ID"
	exposeHeaders = "X-Request-ID, Retry-After"
)

/*
CORS answers cross-origin requests with credentials allowed.

Development accepts any origin. Otherwise the origin must be https on the
beetlekeeper.app domain or listed in EXTRA_ORIGINS. Preflight requests end
here with 204 whether or not the origin was accepted.
*/
func CORS(policy OriginPolicy) func(http.Handler) http.Handler {
	extra := make(map[string]struct{})
	for _, origin := range policy.AllowedOrigins() {
		extra[origin] = struct{}{}
	}

	accepts := func(origin string) bool {
		if policy.IsDevelopment() {
			return true
		}
		if _, ok := extra[origin]; ok {
			return true
		}
		host, ok := strings.CutPrefix(origin, "https://")
		return ok && (host == strings.TrimPrefix(trustedSuffix, ".") || strings.HasSuffix(host, trustedSuffix))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin != "" && accepts(origin) {
				header := writer.Header()
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Credentials", "true")
				header.Set("Access-Control-Allow-Methods", allowMethods)
				header.Set("Access-Control-Allow-Headers", allowHeaders)
				header.Set("Access-Control-Expose-Headers", exposeHeaders)
				header.Set("Access-Control-Max-Age", "300")
				header.Add("Vary", constants.HeaderOrigin)
			}

			if origin != "" && request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}
