package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAggregateOnHand(t *testing.T) {
	partA := uuid.New()
	partB := uuid.New()
	stores := "STORES"
	wip := "WIP"

	records := []Record{
		{ID: uuid.New(), PartID: partA, Location: &stores, Quantity: decimal.NewFromInt(40), IsActive: true},
		{ID: uuid.New(), PartID: partA, Location: &wip, Quantity: decimal.RequireFromString("2.5"), IsActive: true},
		{ID: uuid.New(), PartID: partA, Quantity: decimal.NewFromInt(100), IsActive: false},
		{ID: uuid.New(), PartID: partB, Quantity: decimal.NewFromInt(7), IsActive: true},
	}

	onHand := AggregateOnHand(records)

	require.Len(t, onHand, 2)
	require.True(t, onHand[partA].Equal(decimal.RequireFromString("42.5")), "locations summed, inactive skipped")
	require.True(t, onHand[partB].Equal(decimal.NewFromInt(7)))
}

func TestAggregateOnHand_Empty(t *testing.T) {
	onHand := AggregateOnHand(nil)
	require.NotNil(t, onHand)
	require.Empty(t, onHand)
}
