package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Cleaner prunes rows the relay is done with: published rows past the
// retention window and dead rows past the dead retention window.
// Without it the outbox table grows without bound.
type Cleaner struct {
	pool       *pgxpool.Pool
	table      pgx.Identifier
	opts       CleanerOptions
	m          *metrics
	tableLabel string
}

func NewCleaner(pool *pgxpool.Pool, table pgx.Identifier, opts CleanerOptions) (*Cleaner, error) {
	if pool == nil {
		return nil, invalidConfig("pool")
	}
	if len(table) == 0 {
		return nil, invalidConfig("table")
	}
	if opts.DeadRetention > 0 && opts.DeadAttemptsThreshold <= 0 {
		return nil, fmt.Errorf("%w: DeadRetention needs a positive DeadAttemptsThreshold", ErrInvalidConfig)
	}
	opts.setDefaults()

	return &Cleaner{
		pool:       pool,
		table:      table,
		opts:       opts,
		m:          getMetrics(),
		tableLabel: TableLabel(table),
	}, nil
}

// Run sweeps on every interval tick until ctx is done.
func (c *Cleaner) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if err := c.sweep(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			c.opts.Logger.WithError(err).WithField("table", c.tableLabel).Warn("outbox: sweep failed")
		}
	}
}

// sweep runs the two deletes independently. Each is atomic on its own
// and partial progress is harmless, so there is no surrounding
// transaction.
func (c *Cleaner) sweep(ctx context.Context) error {
	tableName := c.table.Sanitize()

	published, err := c.pool.Exec(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE published_at IS NOT NULL AND published_at < $1`, tableName,
	), time.Now().Add(-c.opts.Retention))
	if err != nil {
		return fmt.Errorf("outbox sweep published: %w", err)
	}
	c.record("published", published.RowsAffected())

	if c.opts.DeadRetention <= 0 {
		return nil
	}

	dead, err := c.pool.Exec(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE published_at IS NULL AND attempts >= $1 AND created_at < $2`, tableName,
	), c.opts.DeadAttemptsThreshold, time.Now().Add(-c.opts.DeadRetention))
	if err != nil {
		return fmt.Errorf("outbox sweep dead: %w", err)
	}
	c.record("dead", dead.RowsAffected())

	return nil
}

func (c *Cleaner) record(kind string, rows int64) {
	if rows == 0 {
		return
	}
	c.m.prunedTotal.WithLabelValues(c.tableLabel, kind).Add(float64(rows))
	c.opts.Logger.WithField("table", c.tableLabel).WithField("kind", kind).WithField("rows", rows).Debug("outbox: pruned rows")
}
