// Package consumedthing implements the Consumption Engine: the public
// interaction surface (readProperty, writeProperty, invokeAction,
// observeProperty, subscribeEvent, ...) that turns a ThingDescription into
// a live, protocol-multiplexed Thing, together with the
// Listener/Subscription Registry and the Servient façade that backs
// Protocol Binding Dispatch.
//
// This is modelled after the scripting definition of the W3C WoT
// ConsumedThing interface. Key differences from a JS runtime: no Promises
// (every call is synchronous-looking and returns a Go error), and errors
// are concrete types rather than DOMExceptions.
package consumedthing

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/wostzone/wot-consume/pkg/codec"
	"github.com/wostzone/wot-consume/pkg/dispatch"
	"github.com/wostzone/wot-consume/pkg/protocol"
	"github.com/wostzone/wot-consume/pkg/td"
)

// ConsumedThing is a remote representation of a Thing used by a consumer.
// It owns a reference to the servient, the (immutable) TD, a lazily
// populated scheme -> client cache, and the registry tracking its active
// observations and subscriptions.
//
// Equality is by TD content (see td.ThingDescription.Equal), not by the
// client cache: two ConsumedThing values wrapping TDs with the same id,
// title and base are considered the same Thing even if their client
// caches have diverged.
type ConsumedThing struct {
	servient *Servient
	td       *td.ThingDescription
	clients  *dispatch.ClientCache
	registry *Registry
	codecs   *codec.Registry
}

// NewConsumedThing constructs a ConsumedThing from a TD. Intended for use
// by ConsumedThingFactory; most callers should go through
// ConsumedThingFactory.Consume instead so the servient and codec registry
// are wired consistently.
func NewConsumedThing(servient *Servient, thingTD *td.ThingDescription, codecs *codec.Registry) *ConsumedThing {
	return &ConsumedThing{
		servient: servient,
		td:       thingTD,
		clients:  dispatch.NewClientCache(),
		registry: NewRegistry(),
		codecs:   codecs,
	}
}

// ThingDescription returns the TD this ConsumedThing wraps.
func (ct *ConsumedThing) ThingDescription() *td.ThingDescription {
	return ct.td
}

// Destroy stops every active observation and subscription. Callers must
// invoke this before dropping their last reference to a ConsumedThing.
func (ct *ConsumedThing) Destroy() {
	ct.registry.stopAll()
}

func (ct *ConsumedThing) dispatchOp(op string, forms []td.Form, opts dispatch.InteractionOptions) (dispatch.Result, error) {
	return dispatch.Dispatch(ct.servient, ct.clients, ct.td.ID, ct.td.Base, op, forms, ct.td.SecuritySchemes(), opts)
}

func (ct *ConsumedThing) wrapError(op string, err error) error {
	return &protocol.ConsumedThingError{ThingID: ct.td.ID, Op: op, Cause: err}
}

// checkResponseContentType fails with MediaTypeMismatchError when the form
// declares a response content type that disagrees with the content
// actually returned by the client.
func checkResponseContentType(form td.Form, content protocol.Content) error {
	if form.Response == nil || form.Response.ContentType == "" {
		return nil
	}
	expected := codec.GetMediaType(form.Response.ContentType)
	actual := codec.GetMediaType(content.MediaType)
	if expected != actual {
		return &protocol.MediaTypeMismatchError{Expected: expected, Actual: actual}
	}
	return nil
}

// ReadProperty reads a single Property value.
func (ct *ConsumedThing) ReadProperty(ctx context.Context, name string, opts dispatch.InteractionOptions) (*InteractionOutput, error) {
	prop := ct.td.GetProperty(name)
	if prop == nil {
		return nil, &protocol.MissingAffordanceError{ThingID: ct.td.ID, Name: name}
	}

	result, err := ct.dispatchOp(td.OpReadProperty, prop.Forms, opts)
	if err != nil {
		return nil, err
	}

	resource := protocol.Resource{ThingID: ct.td.ID, Name: name, Form: result.Form}
	content, err := result.Client.ReadResource(ctx, resource)
	if err != nil {
		return nil, ct.wrapError("readProperty", err)
	}
	if err := checkResponseContentType(result.Form, content); err != nil {
		return nil, err
	}

	return NewInteractionOutput(content, &prop.DataSchema, ct.codecs), nil
}

// ReadMultipleProperties dispatches a read for each name concurrently
// (bounded concurrency, see readMany) and joins the results. If any read
// fails, the whole operation fails and no partial result is returned.
func (ct *ConsumedThing) ReadMultipleProperties(ctx context.Context, names []string, opts dispatch.InteractionOptions) (map[string]*InteractionOutput, error) {
	type outcome struct {
		name   string
		output *InteractionOutput
		err    error
	}

	results := readMany(names, func(name string) outcome {
		out, err := ct.ReadProperty(ctx, name, opts)
		return outcome{name: name, output: out, err: err}
	})

	values := make(map[string]*InteractionOutput, len(names))
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		values[r.name] = r.output
	}
	return values, nil
}

// ReadAllProperties reads every readable property of the Thing. Properties
// for which no readable form can be dispatched are silently dropped in a
// pre-filter pass — the failure is logged but does not fail the whole call.
func (ct *ConsumedThing) ReadAllProperties(ctx context.Context, opts dispatch.InteractionOptions) (map[string]*InteractionOutput, error) {
	var readable []string
	for _, name := range ct.td.PropertyNames() {
		prop := ct.td.GetProperty(name)
		if prop == nil || !prop.IsReadable() {
			continue
		}
		if _, err := ct.dispatchOp(td.OpReadProperty, prop.Forms, opts); err != nil {
			logrus.Warnf("readAllProperties: dropping %q on thing %q: %v", name, ct.td.ID, err)
			continue
		}
		readable = append(readable, name)
	}
	return ct.ReadMultipleProperties(ctx, readable, opts)
}

// WriteProperty writes a single Property value. input must carry a Value;
// Stream inputs fail with UnsupportedInputError.
func (ct *ConsumedThing) WriteProperty(ctx context.Context, name string, input InteractionInput, opts dispatch.InteractionOptions) error {
	if input.IsStream() {
		return &protocol.UnsupportedInputError{Name: name}
	}

	prop := ct.td.GetProperty(name)
	if prop == nil {
		return &protocol.MissingAffordanceError{ThingID: ct.td.ID, Name: name}
	}

	result, err := ct.dispatchOp(td.OpWriteProperty, prop.Forms, opts)
	if err != nil {
		return err
	}

	contentType := result.Form.EffectiveContentType()
	body, err := ct.codecs.Encode(input.Value(), contentType)
	if err != nil {
		return err
	}

	resource := protocol.Resource{ThingID: ct.td.ID, Name: name, Form: result.Form}
	content := protocol.Content{MediaType: contentType, Body: body}
	if err := result.Client.WriteResource(ctx, resource, content); err != nil {
		return ct.wrapError("writeProperty", err)
	}
	return nil
}

// WriteMultipleProperties writes every property in values concurrently. If
// any write fails, the whole operation fails.
func (ct *ConsumedThing) WriteMultipleProperties(ctx context.Context, values map[string]InteractionInput, opts dispatch.InteractionOptions) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}

	results := readMany(names, func(name string) error {
		return ct.WriteProperty(ctx, name, values[name], opts)
	})
	for _, err := range results {
		if err != nil {
			return err
		}
	}
	return nil
}
