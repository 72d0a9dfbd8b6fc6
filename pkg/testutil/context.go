package testutil

import (
	"net/http"
	"time"

	"hackreg/internal/identity"
	"hackreg/pkg/requestcontext"
)

// WithIdentity attaches an authenticated identity to the request context,
// simulating what the auth middleware does for a valid bearer token.
func WithIdentity(req *http.Request, id identity.Identity) *http.Request {
	return req.WithContext(identity.WithIdentity(req.Context(), id))
}

// WithNow pins the request's logical clock so tests get deterministic
// timestamps.
func WithNow(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithNow(req.Context(), now))
}

// WithAdminToken sets the admin session header on the request.
func WithAdminToken(req *http.Request, token string) *http.Request {
	req.Header.Set("X-Admin-Token", token)
	return req
}
