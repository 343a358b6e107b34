package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRepository_Load_AssemblesSnapshot(t *testing.T) {
	siteID := uuid.New()
	scheduleID := uuid.New()
	gearID := uuid.New()
	shaftID := uuid.New()
	runDate := day("2025-05-01")

	var queried []string
	tx := &stubTx{
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			switch {
			case strings.Contains(sql, "FROM parts"):
				queried = append(queried, "parts")
				require.Equal(t, siteID, args[0])
				return &stubRows{data: [][]any{
					{gearID, siteID, "GEAR-100", nil, "MANUFACTURED", 5, "LOT_FOR_LOT", d("0"), d("0"), true},
					{shaftID, siteID, "SHAFT-10", "input shaft", "PURCHASED", 10, "FIXED_MULTIPLE", d("25"), d("5"), true},
				}}, nil
			case strings.Contains(sql, "FROM bom_items"):
				queried = append(queried, "bom")
				require.Equal(t, siteID, args[0])
				return &stubRows{data: [][]any{
					{uuid.New(), gearID, shaftID, d("2"), d("0.05"), day("2020-01-01"), nil, true},
				}}, nil
			case strings.Contains(sql, "FROM inventory"):
				queried = append(queried, "inventory")
				require.Equal(t, siteID, args[0])
				return &stubRows{data: [][]any{
					{uuid.New(), siteID, shaftID, "STORES", d("25"), true},
					{uuid.New(), siteID, shaftID, nil, d("15"), true},
					{uuid.New(), siteID, shaftID, "QUARANTINE", d("999"), false},
				}}, nil
			case strings.Contains(sql, "FROM schedule_entries"):
				queried = append(queried, "entries")
				require.Equal(t, scheduleID, args[0])
				require.Equal(t, day("2025-05-01"), args[1])
				require.Equal(t, day("2025-05-31"), args[2])
				return &stubRows{data: [][]any{
					{uuid.New(), scheduleID, gearID, d("100"), day("2025-05-20"), day("2025-05-22")},
				}}, nil
			default:
				return nil, fmt.Errorf("unexpected query: %s", sql)
			}
		},
	}

	snap, err := NewSnapshotRepository().Load(txCtx(tx), siteID, scheduleID, runDate, 30)
	require.NoError(t, err)
	require.Equal(t, []string{"parts", "bom", "inventory", "entries"}, queried)

	gear, ok := snap.Part(gearID)
	require.True(t, ok)
	require.Equal(t, "GEAR-100", gear.PartNumber)
	require.Equal(t, 5, gear.LeadTimeDays)
	require.Nil(t, gear.Description)

	shaft, ok := snap.Part(shaftID)
	require.True(t, ok)
	require.NotNil(t, shaft.Description)
	require.Equal(t, "input shaft", *shaft.Description)
	require.True(t, shaft.LotSizeMin.Equal(d("25")))
	require.True(t, shaft.LotSizeMultiple.Equal(d("5")))

	edges := snap.ActiveEdges(gearID, runDate)
	require.Len(t, edges, 1)
	require.Equal(t, shaftID, edges[0].ComponentPartID)
	require.True(t, edges[0].QuantityPer.Equal(d("2")))
	require.True(t, edges[0].ScrapFactor.Equal(d("0.05")))

	require.True(t, snap.OnHandQuantity(shaftID).Equal(d("40")))
	require.True(t, snap.OnHandQuantity(gearID).IsZero())

	require.Len(t, snap.Entries, 1)
	require.Equal(t, gearID, snap.Entries[0].PartID)
	require.True(t, snap.Entries[0].PlannedQuantity.Equal(d("100")))
}

func TestSnapshotRepository_Load_EmptySite(t *testing.T) {
	tx := &stubTx{
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return &stubRows{}, nil
		},
	}

	snap, err := NewSnapshotRepository().Load(txCtx(tx), uuid.New(), uuid.New(), day("2025-05-01"), 30)
	require.NoError(t, err)
	require.Empty(t, snap.Parts)
	require.Empty(t, snap.Entries)
	_, ok := snap.Part(uuid.New())
	require.False(t, ok)
}

func TestSnapshotRepository_Load_WrapsQueryError(t *testing.T) {
	boom := errors.New("connection reset")
	tx := &stubTx{
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			if strings.Contains(sql, "FROM bom_items") {
				return nil, boom
			}
			return &stubRows{}, nil
		},
	}

	_, err := NewSnapshotRepository().Load(txCtx(tx), uuid.New(), uuid.New(), day("2025-05-01"), 30)
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, "load bom items")
}
