package services

import (
	"context"

	"github.com/steiner385/MachShop-sub013/pkg/composables"
	"github.com/steiner385/MachShop-sub013/pkg/constants"
)

// inTx runs fn inside a transaction. An ambient transaction already on
// the context (nested service calls, tests) is reused as-is; otherwise
// a new one is opened from the pool and committed when fn succeeds.
func inTx[T any](ctx context.Context, fn func(txCtx context.Context) (T, error)) (T, error) {
	var zero T

	if ctx.Value(constants.TxKey) != nil {
		return fn(ctx)
	}

	pool, err := composables.UsePool(ctx)
	if err != nil {
		return zero, err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return zero, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	out, err := fn(composables.WithTx(ctx, tx))
	if err != nil {
		return zero, err
	}
	if err := tx.Commit(ctx); err != nil {
		return zero, err
	}
	return out, nil
}
