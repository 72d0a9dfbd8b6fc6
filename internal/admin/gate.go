// Package admin holds the admin gate: credential verification against
// process configuration and the session tokens minted on success. It is a
// capability interface so a stronger scheme can replace the equality check
// without touching the rest of the system.
package admin

import (
	"context"
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrNotConfigured reports that the process has no admin credentials set.
// This is a configuration fault: operators must be able to tell it apart
// from a wrong password in the logs, while end users see only a generic
// rejection.
var ErrNotConfigured = errors.New("admin credentials not configured")

// Authenticator verifies admin credentials.
type Authenticator interface {
	Verify(ctx context.Context, username, password string) (bool, error)
}

// EnvGate compares submitted credentials to values sourced from process
// configuration. Credentials are never persisted or logged.
type EnvGate struct {
	username string
	password string
}

func NewEnvGate(username, password string) *EnvGate {
	return &EnvGate{username: username, password: password}
}

func (g *EnvGate) Verify(_ context.Context, username, password string) (bool, error) {
	if g.username == "" || g.password == "" {
		return false, ErrNotConfigured
	}
	// Constant-time comparison to prevent timing attacks.
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) == 1
	return userOK && passOK, nil
}

// HashedEnvGate compares the submitted password against a bcrypt hash, so the
// plaintext never has to live in the environment. The hash is produced with
// any standard bcrypt tool.
type HashedEnvGate struct {
	username     string
	passwordHash []byte
}

func NewHashedEnvGate(username, passwordHash string) *HashedEnvGate {
	return &HashedEnvGate{username: username, passwordHash: []byte(passwordHash)}
}

func (g *HashedEnvGate) Verify(_ context.Context, username, password string) (bool, error) {
	if g.username == "" || len(g.passwordHash) == 0 {
		return false, ErrNotConfigured
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) == 1
	// bcrypt comparison is constant-time over the hash.
	passErr := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password))
	if passErr != nil && !errors.Is(passErr, bcrypt.ErrMismatchedHashAndPassword) {
		return false, passErr
	}
	return userOK && passErr == nil, nil
}
