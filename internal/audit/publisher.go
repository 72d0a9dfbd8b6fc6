package audit

import (
	"context"
	"log/slog"
)

// Publisher emits audit events. Registration audits are operational and
// fail-open: the row is already durably committed when Emit runs, so a lost
// event must never fail the caller's request.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// ChannelPublisher hands events to a background worker through a buffered
// channel. When the buffer is full the event is dropped and logged rather
// than blocking the request path.
type ChannelPublisher struct {
	outbox chan Event
	logger *slog.Logger
}

func NewChannelPublisher(buffer int, logger *slog.Logger) *ChannelPublisher {
	return &ChannelPublisher{
		outbox: make(chan Event, buffer),
		logger: logger,
	}
}

// Outbox is consumed by the Worker.
func (p *ChannelPublisher) Outbox() <-chan Event { return p.outbox }

func (p *ChannelPublisher) Emit(ctx context.Context, event Event) error {
	select {
	case p.outbox <- event:
		return nil
	default:
		p.logger.WarnContext(ctx, "audit outbox full, dropping event",
			"action", event.Action,
		)
		return nil
	}
}
