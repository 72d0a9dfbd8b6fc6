//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"hackreg/internal/audit"
	"hackreg/pkg/testutil/containers"
)

// TestKafkaPublisher produces an audit event through the real publisher and
// reads it back off the broker.
func TestKafkaPublisher(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	broker := containers.NewRedpandaContainer(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	const topic = "hackreg.audit.test"
	publisher, err := audit.NewKafkaPublisher(ctx, []string{broker.Broker}, topic, logger)
	require.NoError(t, err)
	t.Cleanup(publisher.Close)

	event := audit.Event{
		Timestamp:  time.Now().UTC().Truncate(time.Millisecond),
		Action:     audit.ActionRegistrationCreated,
		UserID:     "user-1",
		RollNumber: "23N001",
		Mode:       "solo",
	}
	require.NoError(t, publisher.Emit(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	pollCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	fetches := consumer.PollFetches(pollCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "user-1", string(records[0].Key))

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, event.Action, got.Action)
	assert.Equal(t, event.RollNumber, got.RollNumber)
	assert.Equal(t, event.Timestamp, got.Timestamp)
}

// TestKafkaPublisherIdempotentTopic verifies a second publisher can start
// against an existing topic.
func TestKafkaPublisherIdempotentTopic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	broker := containers.NewRedpandaContainer(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	const topic = "hackreg.audit.existing"
	first, err := audit.NewKafkaPublisher(ctx, []string{broker.Broker}, topic, logger)
	require.NoError(t, err)
	first.Close()

	second, err := audit.NewKafkaPublisher(ctx, []string{broker.Broker}, topic, logger)
	require.NoError(t, err)
	second.Close()
}
