package eventbus

import (
	"context"

	"github.com/steiner385/MachShop-sub013/pkg/eventbus"
	"github.com/steiner385/MachShop-sub013/pkg/outbox"
)

// Dispatcher feeds relayed outbox messages into the in-process event bus.
// Subscribers use the signature
// func(meta *outbox.Meta, topic string, payload json.RawMessage) error
// and decode the payload by topic.
type Dispatcher struct {
	bus eventbus.EventBusWithError
}

func New(bus eventbus.EventBusWithError) *Dispatcher {
	return &Dispatcher{bus: bus}
}

// Dispatch ignores the context because the bus delivers synchronously
// in-process. PublishE surfaces handler errors and panics so the relay
// can retry the message.
func (d *Dispatcher) Dispatch(_ context.Context, msg outbox.DispatchedMessage) error {
	return d.bus.PublishE(&msg.Meta, msg.Meta.Topic, msg.Payload)
}
