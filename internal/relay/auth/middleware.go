package auth

import (
	"context"
	"net/http"
)

type contextKey string

const claimsContextKey contextKey = "auth.session_claims"

// Allowlist reports whether the given emails contain an allowlisted address.
type Allowlist interface {
	IsAllowed(emails []string) bool
}

// RequireSession wraps an http.Handler so that it only runs for requests
// carrying a valid, allowlisted session cookie. A missing or invalid cookie
// redirects to /auth/github; a valid cookie whose identity is not
// allowlisted is rejected with 403.
func RequireSession(jwtService *JWTService, allowlist Allowlist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				http.Redirect(w, r, "/auth/github", http.StatusFound)
				return
			}

			claims, err := jwtService.ValidateSession(cookie.Value)
			if err != nil {
				http.Redirect(w, r, "/auth/github", http.StatusFound)
				return
			}

			if !allowlist.IsAllowed(claims.Emails) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the session claims stashed by RequireSession, if
// any.
func ClaimsFromContext(ctx context.Context) (*SessionClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*SessionClaims)
	return claims, ok
}
