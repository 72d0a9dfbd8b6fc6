// Package identity is the boundary to the external identity provider. The
// rest of the system consumes only the authenticated Identity; how tokens are
// issued is the provider's concern.
package identity

import "context"

// Identity is the authenticated caller as asserted by the identity provider.
type Identity struct {
	ID    string
	Name  string
	Email string
}

// IsZero reports whether no authenticated identity is present.
func (i Identity) IsZero() bool { return i.ID == "" }

type identityKey struct{}

// WithIdentity stores the authenticated identity in the request context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext retrieves the authenticated identity, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && !id.IsZero()
}
