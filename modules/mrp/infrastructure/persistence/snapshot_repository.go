package persistence

import (
	"context"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/bom"
	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/inventory"
	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/part"
	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/schedule"
	"github.com/steiner385/MachShop-sub013/modules/mrp/planning"
	"github.com/steiner385/MachShop-sub013/pkg/composables"
	"github.com/steiner385/MachShop-sub013/pkg/repo"
)

// SnapshotRepository assembles the planning input for one run in four
// site-scoped reads. Run Load inside a read transaction when the reads
// must be mutually consistent.
type SnapshotRepository struct{}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{}
}

func (r *SnapshotRepository) Load(ctx context.Context, siteID, scheduleID uuid.UUID, runDate time.Time, horizonDays int) (*planning.Snapshot, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	parts, err := r.loadParts(ctx, tx, siteID)
	if err != nil {
		return nil, gerrors.Wrap(err, "load parts")
	}
	items, err := r.loadBOMItems(ctx, tx, siteID)
	if err != nil {
		return nil, gerrors.Wrap(err, "load bom items")
	}
	onHand, err := r.loadOnHand(ctx, tx, siteID)
	if err != nil {
		return nil, gerrors.Wrap(err, "load on-hand")
	}
	entries, err := r.loadEntries(ctx, tx, scheduleID, runDate, horizonDays)
	if err != nil {
		return nil, gerrors.Wrap(err, "load schedule entries")
	}

	return planning.NewSnapshot(parts, items, onHand, entries), nil
}

func (r *SnapshotRepository) loadParts(ctx context.Context, tx repo.Tx, siteID uuid.UUID) ([]part.Part, error) {
	rows, err := tx.Query(ctx, `
SELECT id, site_id, part_number, description, product_type,
       lead_time_days, lot_sizing_rule, lot_size_min, lot_size_multiple, is_active
FROM parts
WHERE site_id = $1
ORDER BY part_number
`, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]part.Part, 0, 64)
	for rows.Next() {
		var p part.Part
		if err := rows.Scan(
			&p.ID,
			&p.SiteID,
			&p.PartNumber,
			&p.Description,
			&p.ProductType,
			&p.LeadTimeDays,
			&p.LotSizingRule,
			&p.LotSizeMin,
			&p.LotSizeMultiple,
			&p.IsActive,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// loadBOMItems returns every edge whose parent belongs to the site,
// active or not. Effectivity filtering happens in the planning engine,
// which needs the full edge list for cycle detection.
func (r *SnapshotRepository) loadBOMItems(ctx context.Context, tx repo.Tx, siteID uuid.UUID) ([]bom.BOMItem, error) {
	rows, err := tx.Query(ctx, `
SELECT b.id, b.parent_part_id, b.component_part_id, b.quantity_per,
       b.scrap_factor, b.effective_date, b.obsolete_date, b.is_active
FROM bom_items b
JOIN parts p ON p.id = b.parent_part_id
WHERE p.site_id = $1
ORDER BY b.created_at, b.id
`, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]bom.BOMItem, 0, 128)
	for rows.Next() {
		var item bom.BOMItem
		if err := rows.Scan(
			&item.ID,
			&item.ParentPartID,
			&item.ComponentPartID,
			&item.QuantityPer,
			&item.ScrapFactor,
			&item.EffectiveDate,
			&item.ObsoleteDate,
			&item.IsActive,
		); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// loadOnHand fetches every inventory record of the site; the active
// filter and the per-part aggregation are domain rules, applied by
// inventory.AggregateOnHand.
func (r *SnapshotRepository) loadOnHand(ctx context.Context, tx repo.Tx, siteID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	rows, err := tx.Query(ctx, `
SELECT id, site_id, part_id, location, quantity, is_active
FROM inventory
WHERE site_id = $1
ORDER BY part_id, id
`, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]inventory.Record, 0, 64)
	for rows.Next() {
		var rec inventory.Record
		if err := rows.Scan(
			&rec.ID,
			&rec.SiteID,
			&rec.PartID,
			&rec.Location,
			&rec.Quantity,
			&rec.IsActive,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return inventory.AggregateOnHand(records), nil
}

// loadEntries returns the schedule entries whose planned start date
// falls within [runDate, runDate + horizonDays].
func (r *SnapshotRepository) loadEntries(ctx context.Context, tx repo.Tx, scheduleID uuid.UUID, runDate time.Time, horizonDays int) ([]schedule.Entry, error) {
	windowStart := planning.DateOnly(runDate)
	windowEnd := windowStart.AddDate(0, 0, horizonDays)

	rows, err := tx.Query(ctx, `
SELECT id, schedule_id, part_id, planned_quantity, planned_start_date, planned_end_date
FROM schedule_entries
WHERE schedule_id = $1
  AND planned_start_date >= $2
  AND planned_start_date <= $3
ORDER BY planned_start_date, id
`, scheduleID, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]schedule.Entry, 0, 32)
	for rows.Next() {
		var e schedule.Entry
		if err := rows.Scan(
			&e.ID,
			&e.ScheduleID,
			&e.PartID,
			&e.PlannedQuantity,
			&e.PlannedStartDate,
			&e.PlannedEndDate,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
