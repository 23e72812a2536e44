package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// identityContextKey is a private type so context keys cannot collide.
type identityContextKey struct{}

// Identity returns the authenticated user's email from the request
// context. ok is false outside the authenticated route group.
func Identity(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(identityContextKey{}).(string)
	return email, ok
}

// authenticated wraps a handler with bearer-token verification. The token
// must carry a valid signature and an email still present in the store.
func (h *Handler) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondWithError(w, http.StatusUnauthorized, "Authorization header required", r.Method, r.URL.Path)
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			respondWithError(w, http.StatusUnauthorized, "Invalid Authorization header format", r.Method, r.URL.Path)
			return
		}

		email, err := h.svc.ResolveIdentity(r.Context(), tokenString)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Invalid token", r.Method, r.URL.Path)
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey{}, email)
		next(w, r.WithContext(ctx))
	}
}

// SimulatedLatency delays every request by d, modeling remote-call latency
// for UI testing. Zero disables it.
func SimulatedLatency(d time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if d > 0 {
				select {
				case <-time.After(d):
				case <-r.Context().Done():
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
