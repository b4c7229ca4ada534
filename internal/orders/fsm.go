package orders

import (
	"context"
	"errors"

	loopfsm "github.com/looplab/fsm"

	"github.com/adolfosa/feria-manager/pkg/enums"
	pkgerrors "github.com/adolfosa/feria-manager/pkg/errors"
)

// Event names the lifecycle moves an order can make.
type Event string

const (
	EventDeliver Event = "deliver"
	EventCancel  Event = "cancel"
	EventReopen  Event = "reopen"
)

// events describes the full lifecycle. Delivered is terminal; there is no
// event out of it.
var events = []loopfsm.EventDesc{
	{Name: string(EventDeliver), Src: []string{string(enums.OrderStatusPending)}, Dst: string(enums.OrderStatusDelivered)},
	{Name: string(EventCancel), Src: []string{string(enums.OrderStatusPending)}, Dst: string(enums.OrderStatusCancelled)},
	{Name: string(EventReopen), Src: []string{string(enums.OrderStatusCancelled)}, Dst: string(enums.OrderStatusPending)},
}

// eventFor maps a requested target status onto the event that reaches it
// from the current status.
func eventFor(current, target enums.OrderStatus) Event {
	switch target {
	case enums.OrderStatusDelivered:
		return EventDeliver
	case enums.OrderStatusCancelled:
		return EventCancel
	case enums.OrderStatusPending:
		return EventReopen
	}
	return Event("")
}

// applyTransition validates that the order may move from current to target.
// looplab/fsm tracks state internally, so a short-lived machine is built per
// call seeded with the current status.
func applyTransition(ctx context.Context, current, target enums.OrderStatus) error {
	event := eventFor(current, target)
	machine := loopfsm.NewFSM(string(current), events, nil)

	if err := machine.Event(ctx, string(event)); err != nil {
		var invalidEvent loopfsm.InvalidEventError
		var noTransition loopfsm.NoTransitionError
		if errors.As(err, &invalidEvent) || errors.As(err, &noTransition) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order status cannot change").
				WithDetails(map[string]any{"from": current.String(), "to": target.String()})
		}
		return err
	}
	return nil
}
