package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/plan"
	"github.com/steiner385/MachShop-sub013/pkg/composables"
	"github.com/steiner385/MachShop-sub013/pkg/repo"
)

const (
	defaultRunListLimit = 50

	// Multi-row inserts are chunked to stay well under the postgres
	// parameter limit of 65535.
	insertChunkRows = 500
)

const runColumns = `id, run_number, site_id, schedule_id, status, run_date, horizon_days,
       safety_stock_level, planned_orders_count, pegging_count, exceptions_count,
       error_detail, created_at, started_at, completed_at`

type RunRepository struct{}

func NewRunRepository() plan.RunRepository {
	return &RunRepository{}
}

func (r *RunRepository) Create(ctx context.Context, run *plan.MRPRun) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	q := repo.Insert("mrp_runs", []string{
		"id", "run_number", "site_id", "schedule_id", "status",
		"run_date", "horizon_days", "safety_stock_level", "created_at",
	})
	_, err = tx.Exec(ctx, q,
		run.ID,
		run.RunNumber,
		run.SiteID,
		run.ScheduleID,
		run.Status,
		run.RunDate,
		run.HorizonDays,
		run.SafetyStockLevel,
		run.CreatedAt,
	)
	return err
}

func (r *RunRepository) MarkRunning(ctx context.Context, runID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
UPDATE mrp_runs
SET status = $2, started_at = now()
WHERE id = $1 AND status = $3
`, runID, plan.RunStatusRunning, plan.RunStatusCreated)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *RunRepository) Complete(ctx context.Context, run *plan.MRPRun, orders []plan.PlannedOrder, pegging []plan.Pegging, exceptions []plan.Exception) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
UPDATE mrp_runs
SET status = $2,
    planned_orders_count = $3,
    pegging_count = $4,
    exceptions_count = $5,
    completed_at = $6
WHERE id = $1 AND status = $7
`, run.ID, plan.RunStatusCompleted,
		run.PlannedOrdersCount, run.PeggingCount, run.ExceptionsCount,
		run.CompletedAt, plan.RunStatusRunning)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	// Orders go first: pegging and exception rows reference them.
	if err := r.insertOrders(ctx, tx, orders); err != nil {
		return err
	}
	if err := r.insertPegging(ctx, tx, pegging); err != nil {
		return err
	}
	return r.insertExceptions(ctx, tx, exceptions)
}

func (r *RunRepository) Fail(ctx context.Context, runID uuid.UUID, detail string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
UPDATE mrp_runs
SET status = $2, error_detail = $3, completed_at = now()
WHERE id = $1 AND status IN ($4, $5)
`, runID, plan.RunStatusFailed, detail, plan.RunStatusCreated, plan.RunStatusRunning)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *RunRepository) GetByID(ctx context.Context, runID uuid.UUID) (*plan.MRPRun, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	return scanRun(tx.QueryRow(ctx, `SELECT `+runColumns+` FROM mrp_runs WHERE id = $1`, runID))
}

func (r *RunRepository) GetByRunNumber(ctx context.Context, runNumber string) (*plan.MRPRun, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	return scanRun(tx.QueryRow(ctx, `SELECT `+runColumns+` FROM mrp_runs WHERE run_number = $1`, runNumber))
}

func (r *RunRepository) List(ctx context.Context, f plan.RunFilter) ([]plan.MRPRun, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	conds, args := buildRunFilters(f)
	limit := f.Limit
	if limit <= 0 {
		limit = defaultRunListLimit
	}
	query := repo.Join(
		`SELECT `+runColumns+` FROM mrp_runs`,
		repo.JoinWhere(conds...),
		`ORDER BY created_at DESC, id`,
		repo.FormatLimitOffset(limit, f.Offset),
	)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]plan.MRPRun, 0, limit)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *run)
	}
	return out, rows.Err()
}

func (r *RunRepository) ListPegging(ctx context.Context, runID uuid.UUID) ([]plan.Pegging, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT id, mrp_run_id, demand_part_id, demand_quantity, demand_due_date,
       demand_source_id, supply_source, supply_order_id, bom_level, created_at
FROM mrp_pegging
WHERE mrp_run_id = $1
ORDER BY bom_level, created_at, id
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]plan.Pegging, 0, 64)
	for rows.Next() {
		var p plan.Pegging
		if err := rows.Scan(
			&p.ID,
			&p.MRPRunID,
			&p.DemandPartID,
			&p.DemandQuantity,
			&p.DemandDueDate,
			&p.DemandSourceID,
			&p.SupplySource,
			&p.SupplyOrderID,
			&p.Level,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *RunRepository) ListExceptions(ctx context.Context, runID uuid.UUID) ([]plan.Exception, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT id, mrp_run_id, part_id, exception_type, severity, message, created_at
FROM mrp_exceptions
WHERE mrp_run_id = $1
ORDER BY created_at, id
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]plan.Exception, 0, 16)
	for rows.Next() {
		var e plan.Exception
		if err := rows.Scan(
			&e.ID,
			&e.MRPRunID,
			&e.PartID,
			&e.ExceptionType,
			&e.Severity,
			&e.Message,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *RunRepository) insertOrders(ctx context.Context, tx repo.Tx, orders []plan.PlannedOrder) error {
	rows := make([][]interface{}, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		rows = append(rows, []interface{}{
			o.ID, o.MRPRunID, o.PartID, o.Quantity, o.OrderDate, o.DueDate,
			o.LotSizingRule, o.Status, o.WorkOrderRef, o.CreatedAt, o.UpdatedAt,
		})
	}
	return insertChunked(ctx, tx, `INSERT INTO planned_orders
(id, mrp_run_id, part_id, quantity, order_date, due_date, lot_sizing_rule, status, work_order_ref, created_at, updated_at)
VALUES`, rows)
}

func (r *RunRepository) insertPegging(ctx context.Context, tx repo.Tx, pegging []plan.Pegging) error {
	rows := make([][]interface{}, 0, len(pegging))
	for i := range pegging {
		p := &pegging[i]
		rows = append(rows, []interface{}{
			p.ID, p.MRPRunID, p.DemandPartID, p.DemandQuantity, p.DemandDueDate,
			p.DemandSourceID, p.SupplySource, p.SupplyOrderID, p.Level, p.CreatedAt,
		})
	}
	return insertChunked(ctx, tx, `INSERT INTO mrp_pegging
(id, mrp_run_id, demand_part_id, demand_quantity, demand_due_date, demand_source_id, supply_source, supply_order_id, bom_level, created_at)
VALUES`, rows)
}

func (r *RunRepository) insertExceptions(ctx context.Context, tx repo.Tx, exceptions []plan.Exception) error {
	rows := make([][]interface{}, 0, len(exceptions))
	for i := range exceptions {
		e := &exceptions[i]
		rows = append(rows, []interface{}{
			e.ID, e.MRPRunID, e.PartID, e.ExceptionType, e.Severity, e.Message, e.CreatedAt,
		})
	}
	return insertChunked(ctx, tx, `INSERT INTO mrp_exceptions
(id, mrp_run_id, part_id, exception_type, severity, message, created_at)
VALUES`, rows)
}

func insertChunked(ctx context.Context, tx repo.Tx, baseQuery string, rows [][]interface{}) error {
	for start := 0; start < len(rows); start += insertChunkRows {
		end := min(start+insertChunkRows, len(rows))
		q, args := repo.BatchInsertQueryN(baseQuery, rows[start:end])
		if _, err := tx.Exec(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func scanRun(row pgx.Row) (*plan.MRPRun, error) {
	var run plan.MRPRun
	if err := row.Scan(
		&run.ID,
		&run.RunNumber,
		&run.SiteID,
		&run.ScheduleID,
		&run.Status,
		&run.RunDate,
		&run.HorizonDays,
		&run.SafetyStockLevel,
		&run.PlannedOrdersCount,
		&run.PeggingCount,
		&run.ExceptionsCount,
		&run.ErrorDetail,
		&run.CreatedAt,
		&run.StartedAt,
		&run.CompletedAt,
	); err != nil {
		return nil, err
	}
	return &run, nil
}

func buildRunFilters(f plan.RunFilter) ([]string, []interface{}) {
	var conds []string
	var args []interface{}
	argPos := 1

	if f.SiteID != nil {
		conds = append(conds, fmt.Sprintf("site_id = $%d", argPos))
		args = append(args, *f.SiteID)
		argPos++
	}
	if f.ScheduleID != nil {
		conds = append(conds, fmt.Sprintf("schedule_id = $%d", argPos))
		args = append(args, *f.ScheduleID)
		argPos++
	}
	if f.Status != nil {
		conds = append(conds, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *f.Status)
	}
	return conds, args
}
