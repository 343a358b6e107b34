package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// stubTx satisfies repo.Tx for service tests. The only SQL the service
// layer issues directly is the outbox enqueue; repositories are faked
// separately.
type stubTx struct {
	enqueuedTopics []string
	queryRowErr    error
	sequence       int64
}

func newStubTx() *stubTx {
	return &stubTx{}
}

func (s *stubTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("copy not implemented")
}

func (s *stubTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	return nil
}

func (s *stubTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (s *stubTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("query not implemented")
}

func (s *stubTx) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	if s.queryRowErr != nil {
		err := s.queryRowErr
		return stubRow{scan: func(...any) error { return err }}
	}
	if strings.Contains(sql, "mrp_outbox_events") && len(args) > 0 {
		if topic, ok := args[0].(string); ok {
			s.enqueuedTopics = append(s.enqueuedTopics, topic)
		}
	}
	s.sequence++
	seq := s.sequence
	return stubRow{scan: func(dest ...any) error {
		if len(dest) == 1 {
			if p, ok := dest[0].(*int64); ok {
				*p = seq
				return nil
			}
		}
		return errors.New("unexpected scan destination")
	}}
}

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	return r.scan(dest...)
}
