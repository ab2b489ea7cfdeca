package auth

import (
	"context"
	"encoding/json"
	"net/http"
)

type contextKey struct{}

// TokenVerifier validates a session token and returns its claims.
// Implemented by *Verifier; substituted in tests.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// RequireSession wraps API handlers with a session check: the session
// cookie must be present and carry a verifiable ID token. The caller's
// email is placed on the request context for audit attribution.
func RequireSession(v TokenVerifier, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w, "Auth cookie missing")
				return
			}

			claims, err := v.Verify(r.Context(), cookie.Value)
			if err != nil {
				unauthorized(w, "Invalid/expired session")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), claims.Email)))
		})
	}
}

// WithIdentity annotates a context with the verified caller's email.
func WithIdentity(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, contextKey{}, email)
}

// Identity returns the verified caller's email, or "" outside a session.
func Identity(ctx context.Context) string {
	email, _ := ctx.Value(contextKey{}).(string)
	return email
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"ok":      false,
		"error":   "Unauthorized",
		"message": message,
	})
}
