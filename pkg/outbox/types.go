package outbox

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Message is the unit stored in an outbox table, enqueued inside the same
// transaction as the state change it announces.
type Message struct {
	Topic   string
	EventID uuid.UUID
	Payload json.RawMessage
}

func (m Message) validate() error {
	switch {
	case m.EventID == uuid.Nil:
		return invalidConfig("event_id")
	case m.Topic == "":
		return invalidConfig("topic")
	}
	return nil
}

// Meta is the stable dispatch metadata (idempotency + ops).
type Meta struct {
	Table    pgx.Identifier
	Topic    string
	EventID  uuid.UUID
	Sequence int64
	Attempts int
}

// DispatchedMessage is the unit delivered by Relay to a Dispatcher.
type DispatchedMessage struct {
	Meta    Meta
	Payload json.RawMessage
}

type Dispatcher interface {
	Dispatch(ctx context.Context, msg DispatchedMessage) error
}
