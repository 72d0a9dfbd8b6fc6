package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChannelPublisherDropsWhenFull(t *testing.T) {
	pub := NewChannelPublisher(1, discardLogger())
	ctx := context.Background()

	require.NoError(t, pub.Emit(ctx, Event{Action: ActionRegistrationCreated}))
	// Buffer is full; the second emit must not block or fail.
	require.NoError(t, pub.Emit(ctx, Event{Action: ActionRegistrationCreated}))

	assert.Len(t, pub.Outbox(), 1)
}

func TestWorkerDrainsToStore(t *testing.T) {
	pub := NewChannelPublisher(8, discardLogger())
	store := NewInMemoryStore()
	worker := NewWorker(store, pub.Outbox())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(ctx)
	}()

	require.NoError(t, pub.Emit(ctx, Event{
		Timestamp: time.Now().UTC(),
		Action:    ActionRegistrationCreated,
		UserID:    "user-1",
	}))
	require.NoError(t, pub.Emit(ctx, Event{
		Action: ActionAdminVerified,
	}))

	require.Eventually(t, func() bool {
		events, err := store.List(context.Background())
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done

	events, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ActionRegistrationCreated, events[0].Action)
	assert.Equal(t, ActionAdminVerified, events[1].Action)
}
