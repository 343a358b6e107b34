package handlers

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/events"
	"github.com/steiner385/MachShop-sub013/pkg/application"
	"github.com/steiner385/MachShop-sub013/pkg/eventbus"
	"github.com/steiner385/MachShop-sub013/pkg/outbox"
)

func newTestApp() application.Application {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return application.New(&application.ApplicationOptions{
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
}

// The relay dispatcher publishes (meta, topic, payload) onto the bus;
// these tests prove the registered handler matches that signature.
func TestRunEventsHandler_ConsumesRelayedTopics(t *testing.T) {
	app := newTestApp()
	RegisterMRPEventHandlers(app)

	bus, ok := app.EventPublisher().(eventbus.EventBusWithError)
	require.True(t, ok)

	payload, err := json.Marshal(events.MRPRunCompletedV1{
		EventID:            uuid.New(),
		EventVersion:       events.EventVersionV1,
		RunID:              uuid.New(),
		RunNumber:          "MRP-20250501-0A0B0C0D",
		PlannedOrdersCount: 3,
	})
	require.NoError(t, err)

	meta := &outbox.Meta{Topic: events.TopicMRPRunCompletedV1, Sequence: 7}
	require.NoError(t, bus.PublishE(meta, events.TopicMRPRunCompletedV1, json.RawMessage(payload)))

	converted, err := json.Marshal(events.MRPOrderConvertedV1{
		EventID:        uuid.New(),
		PlannedOrderID: uuid.New(),
		WorkOrderRef:   "WO-0042",
	})
	require.NoError(t, err)

	meta = &outbox.Meta{Topic: events.TopicMRPOrderConvertedV1, Sequence: 8}
	require.NoError(t, bus.PublishE(meta, events.TopicMRPOrderConvertedV1, json.RawMessage(converted)))
}

func TestRunEventsHandler_MalformedPayloadFailsDispatch(t *testing.T) {
	app := newTestApp()
	RegisterMRPEventHandlers(app)

	bus := app.EventPublisher().(eventbus.EventBusWithError)
	meta := &outbox.Meta{Topic: events.TopicMRPRunFailedV1}
	err := bus.PublishE(meta, events.TopicMRPRunFailedV1, json.RawMessage(`{`))
	require.Error(t, err)
}

func TestRunEventsHandler_UnknownTopicIsAccepted(t *testing.T) {
	app := newTestApp()
	RegisterMRPEventHandlers(app)

	bus := app.EventPublisher().(eventbus.EventBusWithError)
	meta := &outbox.Meta{Topic: "mrp.retired.topic.v0"}
	require.NoError(t, bus.PublishE(meta, "mrp.retired.topic.v0", json.RawMessage(`{}`)))
}
