package composables

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/steiner385/MachShop-sub013/pkg/constants"
	"github.com/steiner385/MachShop-sub013/pkg/repo"
)

var ErrNoPool = errors.New("no database pool found in context")

// WithPool pins the connection pool in the context. Commands do this
// once at startup; everything below resolves the database through the
// context instead of carrying a pool parameter.
func WithPool(ctx context.Context, pool *pgxpool.Pool) context.Context {
	return context.WithValue(ctx, constants.PoolKey, pool)
}

func UsePool(ctx context.Context) (*pgxpool.Pool, error) {
	pool, ok := ctx.Value(constants.PoolKey).(*pgxpool.Pool)
	if !ok {
		return nil, ErrNoPool
	}
	return pool, nil
}

// WithTx pins an open transaction in the context. Repositories resolve
// it through UseTx, so a service-level transaction spans every
// repository call made with the same context.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, constants.TxKey, tx)
}

// UseTx returns the pinned transaction, or the pool when none is
// pinned. Reads that need no isolation run directly against the pool.
func UseTx(ctx context.Context) (repo.Tx, error) {
	if tx, ok := ctx.Value(constants.TxKey).(repo.Tx); ok {
		return tx, nil
	}
	return UsePool(ctx)
}
