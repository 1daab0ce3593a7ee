package consumedthing

import (
	"context"
	"errors"

	"github.com/wostzone/wot-consume/pkg/codec"
	"github.com/wostzone/wot-consume/pkg/dispatch"
	"github.com/wostzone/wot-consume/pkg/protocol"
	"github.com/wostzone/wot-consume/pkg/td"
)

// EventStream is the pull-style equivalent of SubscribeEvent: a
// restartable-per-call stream of InteractionOutput rather than a
// registered listener. Calling ConsumeEvent again for the same name while
// one stream is still active fails with DuplicateSubscriptionError; the
// original stream is left untouched.
type EventStream struct {
	sub    *Subscription
	stream protocol.ContentStream
	schema *td.DataSchema
	codecs *codec.Registry
}

// ConsumeEvent dispatches a subscribeevent operation against name and
// returns a pull-style EventStream. On stream completion or error
// (excluding cooperative cancellation), the registry entry is removed and
// unlinkResource is issued exactly once.
func (ct *ConsumedThing) ConsumeEvent(ctx context.Context, name string, opts dispatch.InteractionOptions) (*EventStream, error) {
	event := ct.td.GetEvent(name)
	if event == nil {
		return nil, &protocol.MissingAffordanceError{ThingID: ct.td.ID, Name: name}
	}

	result, err := ct.dispatchOp(td.OpSubscribeEvent, event.Forms, opts)
	if err != nil {
		return nil, err
	}

	resource := protocol.Resource{ThingID: ct.td.ID, Name: name, Form: result.Form}
	streamCtx, cancel := context.WithCancel(ctx)
	stream, err := result.Client.SubscribeResource(streamCtx, resource, protocol.ResourceEvent)
	if err != nil {
		cancel()
		return nil, ct.wrapError("consumeEvent", err)
	}

	unsubForm, uerr := dispatch.SelectUnsubscribeForm(ct.td.ID, event.Forms, result.FormIndex, td.OpUnsubscribeEvent)
	if uerr != nil {
		unsubForm = result.Form
	}

	sub := &Subscription{
		ThingID:      ct.td.ID,
		Name:         name,
		ResourceType: protocol.ResourceEvent,
		Form:         unsubForm,
		FormIndex:    result.FormIndex,
		client:       result.Client,
		registry:     ct.registry,
		cancel:       cancel,
		stream:       stream,
	}
	sub.active = 1

	if err := ct.registry.register(protocol.ResourceEvent, name, sub); err != nil {
		// A subscribeEvent/consumeEvent is already active on name: leave
		// it untouched and tear down only the stream we just opened.
		cancel()
		_ = stream.Close()
		return nil, err
	}

	return &EventStream{sub: sub, stream: stream, schema: event.Data, codecs: ct.codecs}, nil
}

// Next blocks until the next event item, a terminal error, or ctx
// cancellation. A non-cancellation error tears the subscription down
// (unlinkResource exactly once, registry entry removed) before being
// returned.
func (s *EventStream) Next(ctx context.Context) (*InteractionOutput, error) {
	content, err := s.stream.Next(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		s.sub.stop(context.Background())
		return nil, err
	}
	return NewInteractionOutput(content, s.schema, s.codecs), nil
}

// Close stops the underlying subscription cooperatively, without treating
// the teardown as an error-triggered one.
func (s *EventStream) Close() {
	s.sub.stop(context.Background())
}
