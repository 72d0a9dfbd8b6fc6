package middleware

import (
	"context"
	"log/slog"
	"net/http"
)

// SessionVerifier checks an admin session token issued by the verify
// endpoint.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) error
}

// RequireAdminSession guards admin endpoints. The token travels in the
// X-Admin-Token header.
func RequireAdminSession(sessions SessionVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Admin-Token")
			if token == "" {
				forbidden(w)
				return
			}
			if err := sessions.Verify(r.Context(), token); err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin session rejected",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"admin session required"}`))
}
