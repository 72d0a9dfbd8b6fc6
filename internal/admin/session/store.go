// Package session stores admin session tokens minted by the verify endpoint.
package session

import (
	"context"
	"sync"
	"time"

	"hackreg/pkg/platform/sentinel"
)

// Session is one admin login.
type Session struct {
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store persists sessions until they expire.
type Store interface {
	Save(ctx context.Context, session Session) error
	// Verify returns nil when the token names a live session,
	// sentinel.ErrNotFound when unknown and sentinel.ErrExpired when stale.
	Verify(ctx context.Context, token string) error
}

// InMemory keeps sessions in process memory.
type InMemory struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewInMemory() *InMemory {
	return &InMemory{sessions: make(map[string]Session)}
}

func (s *InMemory) Save(_ context.Context, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

func (s *InMemory) Verify(_ context.Context, token string) error {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return sentinel.ErrNotFound
	}
	if time.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return sentinel.ErrExpired
	}
	return nil
}
