package outbox

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/steiner385/MachShop-sub013/pkg/repo"
)

// The conflict clause makes enqueueing idempotent per event_id: the
// no-op update lets RETURNING hand back the sequence of the row that
// already exists.
const enqueueQuery = `INSERT INTO %s (topic, payload, event_id, available_at)
 VALUES ($1, $2, $3, now())
 ON CONFLICT (event_id) DO UPDATE SET event_id = EXCLUDED.event_id
 RETURNING sequence`

type Publisher interface {
	Enqueue(ctx context.Context, tx repo.Tx, table pgx.Identifier, msg Message) (sequence int64, err error)
}

type publisher struct {
	m *metrics
}

func NewPublisher() Publisher {
	return &publisher{m: getMetrics()}
}

// Enqueue inserts the message into the outbox table inside the caller's
// transaction. Re-enqueueing the same event_id is a no-op returning the
// original sequence, so callers can retry safely.
func (p *publisher) Enqueue(ctx context.Context, tx repo.Tx, table pgx.Identifier, msg Message) (int64, error) {
	if err := msg.validate(); err != nil {
		return 0, err
	}
	if len(table) == 0 {
		return 0, invalidConfig("table")
	}

	var sequence int64
	q := fmt.Sprintf(enqueueQuery, table.Sanitize())
	if err := tx.QueryRow(ctx, q, msg.Topic, msg.Payload, msg.EventID).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("outbox enqueue: %w", err)
	}

	p.m.enqueueTotal.WithLabelValues(TableLabel(table), msg.Topic).Inc()

	return sequence, nil
}
