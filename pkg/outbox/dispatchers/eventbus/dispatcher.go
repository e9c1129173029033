package eventbus

import (
	"context"
	"errors"

	"github.com/iota-uz/dora-register/pkg/eventbus"
	"github.com/iota-uz/dora-register/pkg/outbox"
)

// Dispatcher hands relayed messages to in-process subscribers. Subscribers
// take the form
//
//	func(ctx context.Context, meta *outbox.Meta, payload json.RawMessage) error
//
// and a returned error makes the relay retry the message.
type Dispatcher struct {
	bus eventbus.EventBusWithError
	// IgnoreUnrouted acknowledges messages nobody subscribes to.
	IgnoreUnrouted bool
}

func New(bus eventbus.EventBusWithError) *Dispatcher {
	return &Dispatcher{bus: bus, IgnoreUnrouted: true}
}

func (d *Dispatcher) Dispatch(ctx context.Context, msg outbox.DispatchedMessage) error {
	meta := msg.Meta
	err := d.bus.PublishE(ctx, &meta, msg.Payload)
	if d.IgnoreUnrouted && errors.Is(err, eventbus.ErrNoSubscribers) {
		return nil
	}
	return err
}
