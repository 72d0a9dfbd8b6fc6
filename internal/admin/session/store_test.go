package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hackreg/pkg/platform/sentinel"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("verifies a live session", func(t *testing.T) {
		store := NewInMemory()
		sess := Session{
			Token:     uuid.NewString(),
			CreatedAt: time.Now(),
			ExpiresAt: time.Now().Add(time.Hour),
		}
		require.NoError(t, store.Save(ctx, sess))
		assert.NoError(t, store.Verify(ctx, sess.Token))
	})

	t.Run("unknown token is not found", func(t *testing.T) {
		store := NewInMemory()
		err := store.Verify(ctx, uuid.NewString())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("expired session is reported expired and evicted", func(t *testing.T) {
		store := NewInMemory()
		sess := Session{
			Token:     uuid.NewString(),
			CreatedAt: time.Now().Add(-2 * time.Hour),
			ExpiresAt: time.Now().Add(-time.Hour),
		}
		require.NoError(t, store.Save(ctx, sess))

		assert.ErrorIs(t, store.Verify(ctx, sess.Token), sentinel.ErrExpired)
		// Second lookup sees the evicted token as unknown.
		assert.ErrorIs(t, store.Verify(ctx, sess.Token), sentinel.ErrNotFound)
	})
}
