package handlers

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/events"
	"github.com/steiner385/MachShop-sub013/pkg/application"
	"github.com/steiner385/MachShop-sub013/pkg/outbox"
)

// RunEventsHandler is the in-process tail of the MRP outbox: the relay
// dispatches claimed messages onto the event bus and this handler
// decodes them by topic. A returned error makes the relay retry the
// message and eventually dead-letter it.
type RunEventsHandler struct {
	log *logrus.Logger
}

func RegisterMRPEventHandlers(app application.Application) {
	handler := &RunEventsHandler{log: app.Logger()}
	app.EventPublisher().Subscribe(handler.onOutboxMessage)
}

func (h *RunEventsHandler) onOutboxMessage(meta *outbox.Meta, topic string, payload json.RawMessage) error {
	if h == nil || h.log == nil || meta == nil {
		return nil
	}

	switch topic {
	case events.TopicMRPRunCompletedV1:
		var ev events.MRPRunCompletedV1
		if err := json.Unmarshal(payload, &ev); err != nil {
			return err
		}
		mrpEventsConsumed.WithLabelValues(topic).Inc()
		if !ev.CompletedAt.IsZero() {
			mrpLastRunCompleted.Set(float64(ev.CompletedAt.Unix()))
		}
		h.log.WithFields(logrus.Fields{
			"run_id":         ev.RunID,
			"run_number":     ev.RunNumber,
			"site_id":        ev.SiteID,
			"planned_orders": ev.PlannedOrdersCount,
			"pegging":        ev.PeggingCount,
			"exceptions":     ev.ExceptionsCount,
			"sequence":       meta.Sequence,
		}).Info("mrp run completed")
	case events.TopicMRPRunFailedV1:
		var ev events.MRPRunFailedV1
		if err := json.Unmarshal(payload, &ev); err != nil {
			return err
		}
		mrpEventsConsumed.WithLabelValues(topic).Inc()
		h.log.WithFields(logrus.Fields{
			"run_id":     ev.RunID,
			"run_number": ev.RunNumber,
			"site_id":    ev.SiteID,
			"detail":     ev.ErrorDetail,
			"sequence":   meta.Sequence,
		}).Warn("mrp run failed")
	case events.TopicMRPOrderConvertedV1:
		var ev events.MRPOrderConvertedV1
		if err := json.Unmarshal(payload, &ev); err != nil {
			return err
		}
		mrpEventsConsumed.WithLabelValues(topic).Inc()
		h.log.WithFields(logrus.Fields{
			"planned_order_id": ev.PlannedOrderID,
			"mrp_run_id":       ev.MRPRunID,
			"work_order_ref":   ev.WorkOrderRef,
			"sequence":         meta.Sequence,
		}).Info("planned order converted to work order")
	default:
		h.log.WithFields(logrus.Fields{
			"topic":    topic,
			"sequence": meta.Sequence,
		}).Debug("unhandled mrp outbox topic")
	}
	return nil
}
