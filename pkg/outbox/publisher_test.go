package outbox

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	sql  string
	args []any
	seq  int64
	err  error
}

func (f *fakeTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (f *fakeTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }

func (f *fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (f *fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }

func (f *fakeTx) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.sql = sql
	f.args = args
	return fakeRow{seq: f.seq, err: f.err}
}

type fakeRow struct {
	seq int64
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = r.seq
	return nil
}

func TestPublisher_EnqueueValidates(t *testing.T) {
	p := NewPublisher()
	table := pgx.Identifier{"mrp_outbox_events"}

	_, err := p.Enqueue(context.Background(), &fakeTx{}, table, Message{Topic: "t"})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = p.Enqueue(context.Background(), &fakeTx{}, table, Message{EventID: uuid.New()})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = p.Enqueue(context.Background(), &fakeTx{}, nil, Message{EventID: uuid.New(), Topic: "t"})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestPublisher_EnqueueReturnsSequence(t *testing.T) {
	p := NewPublisher()
	tx := &fakeTx{seq: 41}
	table := pgx.Identifier{"mrp_outbox_events"}
	id := uuid.New()

	seq, err := p.Enqueue(context.Background(), tx, table, Message{
		EventID: id,
		Topic:   "mrp.run.completed.v1",
		Payload: json.RawMessage(`{"run_id":"x"}`),
	})
	require.NoError(t, err)
	require.Equal(t, int64(41), seq)

	require.Contains(t, tx.sql, `INSERT INTO "mrp_outbox_events"`)
	require.Contains(t, tx.sql, "ON CONFLICT (event_id)")
	require.Equal(t, []any{"mrp.run.completed.v1", json.RawMessage(`{"run_id":"x"}`), id}, tx.args)
}
