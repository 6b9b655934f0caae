package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Worker consumes audit events from a channel and persists them, keeping
// event recording off the request path.
type Worker struct {
	store Store
	inbox <-chan Event
}

func NewWorker(store Store, inbox <-chan Event) *Worker {
	return &Worker{store: store, inbox: inbox}
}

// Run drains the inbox until the context is cancelled. A store failure stops
// the worker; the caller decides whether that is fatal.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				return err
			}
		}
	}
}

// ChannelEmitter hands events to a Worker through a buffered channel.
// Emitting never blocks the request: when the buffer is full the event is
// dropped, since the audit trail is diagnostic rather than transactional.
type ChannelEmitter struct {
	inbox chan<- Event
}

func NewChannelEmitter(inbox chan<- Event) *ChannelEmitter {
	return &ChannelEmitter{inbox: inbox}
}

func (e *ChannelEmitter) Emit(_ context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case e.inbox <- event:
	default:
	}
	return nil
}
