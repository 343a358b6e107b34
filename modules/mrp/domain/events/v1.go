package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TopicMRPRunCompletedV1   = "mrp.run.completed.v1"
	TopicMRPRunFailedV1      = "mrp.run.failed.v1"
	TopicMRPOrderConvertedV1 = "mrp.order.converted.v1"
	EventVersionV1           = 1
)

type MRPRunCompletedV1 struct {
	EventID            uuid.UUID `json:"event_id"`
	EventVersion       int       `json:"event_version"`
	RunID              uuid.UUID `json:"run_id"`
	RunNumber          string    `json:"run_number"`
	SiteID             uuid.UUID `json:"site_id"`
	ScheduleID         uuid.UUID `json:"schedule_id"`
	PlannedOrdersCount int       `json:"planned_orders_count"`
	PeggingCount       int       `json:"pegging_count"`
	ExceptionsCount    int       `json:"exceptions_count"`
	CompletedAt        time.Time `json:"completed_at"`
}

type MRPRunFailedV1 struct {
	EventID      uuid.UUID `json:"event_id"`
	EventVersion int       `json:"event_version"`
	RunID        uuid.UUID `json:"run_id"`
	RunNumber    string    `json:"run_number"`
	SiteID       uuid.UUID `json:"site_id"`
	ScheduleID   uuid.UUID `json:"schedule_id"`
	ErrorDetail  string    `json:"error_detail"`
	FailedAt     time.Time `json:"failed_at"`
}

type MRPOrderConvertedV1 struct {
	EventID        uuid.UUID `json:"event_id"`
	EventVersion   int       `json:"event_version"`
	PlannedOrderID uuid.UUID `json:"planned_order_id"`
	MRPRunID       uuid.UUID `json:"mrp_run_id"`
	PartID         uuid.UUID `json:"part_id"`
	WorkOrderRef   string    `json:"work_order_ref"`
	ConvertedAt    time.Time `json:"converted_at"`
}
