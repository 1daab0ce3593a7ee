package consumedthing

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/wostzone/wot-consume/pkg/dispatch"
	"github.com/wostzone/wot-consume/pkg/protocol"
	"github.com/wostzone/wot-consume/pkg/td"
)

// OutputHandler receives each item delivered by a push-style subscription.
type OutputHandler func(name string, output *InteractionOutput)

// ErrorHandler receives a terminal stream error for a push-style
// subscription. When nil, the error is logged instead.
type ErrorHandler func(name string, err error)

func (ct *ConsumedThing) observe(ctx context.Context, rt protocol.ResourceType, name string, forms []td.Form, subscribeOp, unsubscribeOp string, onNext OutputHandler, onError ErrorHandler, schema *td.DataSchema, opts dispatch.InteractionOptions) (*Subscription, error) {
	result, err := ct.dispatchOp(subscribeOp, forms, opts)
	if err != nil {
		return nil, err
	}

	resource := protocol.Resource{ThingID: ct.td.ID, Name: name, Form: result.Form}
	streamCtx, cancel := context.WithCancel(ctx)
	stream, err := result.Client.SubscribeResource(streamCtx, resource, rt)
	if err != nil {
		cancel()
		return nil, ct.wrapError("subscribe", err)
	}

	unsubForm, uerr := dispatch.SelectUnsubscribeForm(ct.td.ID, forms, result.FormIndex, unsubscribeOp)
	if uerr != nil {
		// Fall back to the subscribed form itself: better to attempt an
		// unlink through the same endpoint than to leave the stream
		// entirely untorn-down.
		unsubForm = result.Form
	}

	sub := &Subscription{
		ThingID:      ct.td.ID,
		Name:         name,
		ResourceType: rt,
		Form:         unsubForm,
		FormIndex:    result.FormIndex,
		client:       result.Client,
		registry:     ct.registry,
		cancel:       cancel,
		stream:       stream,
	}
	sub.active = 1

	if err := ct.registry.register(rt, name, sub); err != nil {
		cancel()
		_ = stream.Close()
		return nil, err
	}

	go ct.pump(streamCtx, sub, stream, onNext, onError, schema)

	return sub, nil
}

// pump delivers stream items to onNext until the stream ends. A terminal,
// non-cancellation error triggers the same teardown stop() performs
// (cancel, unlink, registry removal) before invoking onError, so a dead
// stream never leaves a dangling subscription behind.
func (ct *ConsumedThing) pump(ctx context.Context, sub *Subscription, stream protocol.ContentStream, onNext OutputHandler, onError ErrorHandler, schema *td.DataSchema) {
	for {
		content, err := stream.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			sub.stop(context.Background())
			if onError != nil {
				onError(sub.Name, err)
			} else {
				logrus.Warnf("subscription %q on thing %q ended with error: %v", sub.Name, sub.ThingID, err)
			}
			return
		}
		if onNext != nil {
			onNext(sub.Name, NewInteractionOutput(content, schema, ct.codecs))
		}
	}
}

// ObserveProperty registers a push-style observation of a property's value
// changes. Fails with DuplicateSubscriptionError if name already has an
// active observation.
func (ct *ConsumedThing) ObserveProperty(ctx context.Context, name string, onNext OutputHandler, onError ErrorHandler, opts dispatch.InteractionOptions) (*Subscription, error) {
	prop := ct.td.GetProperty(name)
	if prop == nil {
		return nil, &protocol.MissingAffordanceError{ThingID: ct.td.ID, Name: name}
	}
	return ct.observe(ctx, protocol.ResourceProperty, name, prop.Forms, td.OpObserveProperty, td.OpUnobserveProperty, onNext, onError, &prop.DataSchema, opts)
}

// SubscribeEvent registers a push-style subscription to an event.
// Semantics are identical to ObserveProperty but against events.
func (ct *ConsumedThing) SubscribeEvent(ctx context.Context, name string, onNext OutputHandler, onError ErrorHandler, opts dispatch.InteractionOptions) (*Subscription, error) {
	event := ct.td.GetEvent(name)
	if event == nil {
		return nil, &protocol.MissingAffordanceError{ThingID: ct.td.ID, Name: name}
	}
	return ct.observe(ctx, protocol.ResourceEvent, name, event.Forms, td.OpSubscribeEvent, td.OpUnsubscribeEvent, onNext, onError, event.Data, opts)
}
