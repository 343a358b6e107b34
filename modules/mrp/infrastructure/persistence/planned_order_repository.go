package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/plan"
	"github.com/steiner385/MachShop-sub013/pkg/composables"
)

const orderColumns = `id, mrp_run_id, part_id, quantity, order_date, due_date,
       lot_sizing_rule, status, work_order_ref, created_at, updated_at`

type PlannedOrderRepository struct{}

func NewPlannedOrderRepository() plan.PlannedOrderRepository {
	return &PlannedOrderRepository{}
}

func (r *PlannedOrderRepository) GetByID(ctx context.Context, orderID uuid.UUID) (*plan.PlannedOrder, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	return scanOrder(tx.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM planned_orders WHERE id = $1`, orderID))
}

func (r *PlannedOrderRepository) GetByIDForUpdate(ctx context.Context, orderID uuid.UUID) (*plan.PlannedOrder, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	return scanOrder(tx.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM planned_orders WHERE id = $1 FOR UPDATE`, orderID))
}

func (r *PlannedOrderRepository) ListByRun(ctx context.Context, runID uuid.UUID) ([]plan.PlannedOrder, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT `+orderColumns+`
FROM planned_orders
WHERE mrp_run_id = $1
ORDER BY order_date, due_date, id
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]plan.PlannedOrder, 0, 32)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ord)
	}
	return out, rows.Err()
}

// Transition updates the order status guarded by the expected current
// status. A vanished or already-moved row surfaces as pgx.ErrNoRows.
func (r *PlannedOrderRepository) Transition(ctx context.Context, orderID uuid.UUID, from, to string, workOrderRef *string) (*plan.PlannedOrder, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	return scanOrder(tx.QueryRow(ctx, `
UPDATE planned_orders
SET status = $3,
    work_order_ref = COALESCE($4, work_order_ref),
    updated_at = now()
WHERE id = $1 AND status = $2
RETURNING `+orderColumns, orderID, from, to, workOrderRef))
}

func scanOrder(row pgx.Row) (*plan.PlannedOrder, error) {
	var ord plan.PlannedOrder
	if err := row.Scan(
		&ord.ID,
		&ord.MRPRunID,
		&ord.PartID,
		&ord.Quantity,
		&ord.OrderDate,
		&ord.DueDate,
		&ord.LotSizingRule,
		&ord.Status,
		&ord.WorkOrderRef,
		&ord.CreatedAt,
		&ord.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ord, nil
}
