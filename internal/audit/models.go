package audit

import (
	"context"
	"time"

	"phonebook/pkg/domain"
)

// Actions recorded by the directory. Every mutation and login attempt emits
// exactly one event.
const (
	ActionPersonAdded    = "person_added"
	ActionNumberEdited   = "number_edited"
	ActionUserCreated    = "user_created"
	ActionFriendAdded    = "friend_added"
	ActionLoginSucceeded = "login_succeeded"
	ActionLoginFailed    = "login_failed"
)

// Event is a single append-only audit record. ActorID is the authenticated
// account when one exists; Subject names the affected entity (person name,
// username).
type Event struct {
	ID        string        `json:"id"`
	Action    string        `json:"action"`
	ActorID   domain.UserID `json:"actor_id,omitempty"`
	Subject   string        `json:"subject"`
	RequestID string        `json:"request_id,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// Store is the persistence boundary for audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subject string) ([]Event, error)
}

// Emitter is what services depend on; both the synchronous publisher and the
// channel-backed worker front satisfy it.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}
