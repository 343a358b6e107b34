package services

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/events"
	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/plan"
	"github.com/steiner385/MachShop-sub013/pkg/composables"
	"github.com/steiner385/MachShop-sub013/pkg/constants"
	"github.com/steiner385/MachShop-sub013/pkg/outbox"
)

type PlannedOrderService struct {
	orders    plan.PlannedOrderRepository
	publisher outbox.Publisher
}

func NewPlannedOrderService(orders plan.PlannedOrderRepository, publisher outbox.Publisher) *PlannedOrderService {
	return &PlannedOrderService{orders: orders, publisher: publisher}
}

type ConvertToWorkOrderInput struct {
	WorkOrderRef string `validate:"required,min=1,max=64"`
}

// ConvertToWorkOrder is the sole mutation path for a planned order
// after its run completes: PLANNED -> CONVERTED_TO_WO under a row
// lock, recording the work order reference. Orders in any other state
// are rejected; conversion is not repeatable.
func (s *PlannedOrderService) ConvertToWorkOrder(ctx context.Context, orderID uuid.UUID, input ConvertToWorkOrderInput) (*plan.PlannedOrder, error) {
	if orderID == uuid.Nil {
		return nil, newServiceError(http.StatusBadRequest, "VALIDATION_FAILED", "planned order id is required", nil)
	}
	if err := constants.Validate.Struct(input); err != nil {
		return nil, newServiceError(http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), err)
	}

	updated, err := inTx(ctx, func(txCtx context.Context) (*plan.PlannedOrder, error) {
		ord, err := s.orders.GetByIDForUpdate(txCtx, orderID)
		if err != nil {
			return nil, mapPgError(err)
		}
		if ord.Status != plan.OrderStatusPlanned {
			return nil, newServiceError(http.StatusConflict, "MRP_ORDER_NOT_CONVERTIBLE",
				"planned order is "+ord.Status+"; only PLANNED orders can be converted", nil)
		}
		ref := input.WorkOrderRef
		converted, err := s.orders.Transition(txCtx, orderID, plan.OrderStatusPlanned, plan.OrderStatusConvertedToWO, &ref)
		if err != nil {
			return nil, mapPgError(err)
		}
		if err := s.enqueueConverted(txCtx, converted); err != nil {
			return nil, mapPgError(err)
		}
		return converted, nil
	})
	if err != nil {
		return nil, err
	}

	recordOrderConverted()
	composables.UseLogger(ctx).WithFields(logrus.Fields{
		"planned_order_id": updated.ID,
		"work_order_ref":   input.WorkOrderRef,
	}).Info("planned order converted to work order")
	return updated, nil
}

func (s *PlannedOrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*plan.PlannedOrder, error) {
	if orderID == uuid.Nil {
		return nil, newServiceError(http.StatusBadRequest, "VALIDATION_FAILED", "planned order id is required", nil)
	}
	ord, err := inTx(ctx, func(txCtx context.Context) (*plan.PlannedOrder, error) {
		return s.orders.GetByID(txCtx, orderID)
	})
	if err != nil {
		return nil, mapPgError(err)
	}
	return ord, nil
}

func (s *PlannedOrderService) ListByRun(ctx context.Context, runID uuid.UUID) ([]plan.PlannedOrder, error) {
	if runID == uuid.Nil {
		return nil, newServiceError(http.StatusBadRequest, "VALIDATION_FAILED", "run id is required", nil)
	}
	orders, err := inTx(ctx, func(txCtx context.Context) ([]plan.PlannedOrder, error) {
		return s.orders.ListByRun(txCtx, runID)
	})
	if err != nil {
		return nil, mapPgError(err)
	}
	return orders, nil
}

func (s *PlannedOrderService) enqueueConverted(txCtx context.Context, ord *plan.PlannedOrder) error {
	tx, err := composables.UseTx(txCtx)
	if err != nil {
		return err
	}
	ref := ""
	if ord.WorkOrderRef != nil {
		ref = *ord.WorkOrderRef
	}
	payload, err := json.Marshal(events.MRPOrderConvertedV1{
		EventID:        eventID(events.TopicMRPOrderConvertedV1, ord.ID),
		EventVersion:   events.EventVersionV1,
		PlannedOrderID: ord.ID,
		MRPRunID:       ord.MRPRunID,
		PartID:         ord.PartID,
		WorkOrderRef:   ref,
		ConvertedAt:    ord.UpdatedAt,
	})
	if err != nil {
		return err
	}
	_, err = s.publisher.Enqueue(txCtx, tx, OutboxTable, outbox.Message{
		Topic:   events.TopicMRPOrderConvertedV1,
		EventID: eventID(events.TopicMRPOrderConvertedV1, ord.ID),
		Payload: payload,
	})
	return err
}
