package composables

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/steiner385/MachShop-sub013/pkg/constants"
)

type ctxTx struct{}

func (ctxTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (ctxTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }

func (ctxTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (ctxTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }

func (ctxTx) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func TestUsePool_MissingPool(t *testing.T) {
	_, err := UsePool(context.Background())
	require.ErrorIs(t, err, ErrNoPool)
}

func TestWithPool_RoundTrip(t *testing.T) {
	pool := &pgxpool.Pool{}
	ctx := WithPool(context.Background(), pool)

	got, err := UsePool(ctx)
	require.NoError(t, err)
	require.Same(t, pool, got)
}

func TestUseTx_PrefersPinnedTx(t *testing.T) {
	tx := ctxTx{}
	ctx := context.WithValue(context.Background(), constants.TxKey, tx)

	got, err := UseTx(ctx)
	require.NoError(t, err)
	require.Equal(t, tx, got)
}

func TestUseTx_FallsBackToPool(t *testing.T) {
	pool := &pgxpool.Pool{}
	ctx := WithPool(context.Background(), pool)

	got, err := UseTx(ctx)
	require.NoError(t, err)
	require.Same(t, pool, got.(*pgxpool.Pool))
}

func TestUseTx_NoTxNoPool(t *testing.T) {
	_, err := UseTx(context.Background())
	require.ErrorIs(t, err, ErrNoPool)
}
