package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const sessionContextKey contextKey = "session"

// FromRequest extracts the session token from the cookie or, failing
// that, a bearer Authorization header.
func FromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return ""
}

// Middleware validates the session on every request. Browser requests
// without a valid session are redirected to the login page; API requests
// get a bare 401.
func Middleware(sessions *SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := FromRequest(r)
			if tokenString == "" {
				deny(w, r)
				return
			}

			claims, err := sessions.Validate(tokenString)
			if err != nil {
				ClearSessionCookie(w)
				deny(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// SessionFromContext returns the validated session claims, or nil.
func SessionFromContext(ctx context.Context) *Claims {
	claims, ok := ctx.Value(sessionContextKey).(*Claims)
	if !ok {
		return nil
	}
	return claims
}
