package consumedthing

import (
	"context"

	"github.com/wostzone/wot-consume/pkg/dispatch"
	"github.com/wostzone/wot-consume/pkg/protocol"
	"github.com/wostzone/wot-consume/pkg/td"
)

// InvokeAction invokes an action. When input is nil, a null-valued content
// encoded under the form's content type is sent instead. The result is
// wrapped with the action's output schema.
func (ct *ConsumedThing) InvokeAction(ctx context.Context, name string, input *InteractionInput, opts dispatch.InteractionOptions) (*InteractionOutput, error) {
	action := ct.td.GetAction(name)
	if action == nil {
		return nil, &protocol.MissingAffordanceError{ThingID: ct.td.ID, Name: name}
	}
	if input != nil && input.IsStream() {
		return nil, &protocol.UnsupportedInputError{Name: name}
	}

	result, err := ct.dispatchOp(td.OpInvokeAction, action.Forms, opts)
	if err != nil {
		return nil, err
	}

	contentType := result.Form.EffectiveContentType()
	var value interface{}
	if input != nil {
		value = input.Value()
	}
	body, err := ct.codecs.Encode(value, contentType)
	if err != nil {
		return nil, err
	}

	resource := protocol.Resource{ThingID: ct.td.ID, Name: name, Form: result.Form}
	reqContent := protocol.Content{MediaType: contentType, Body: body}
	respContent, err := result.Client.InvokeResource(ctx, resource, &reqContent)
	if err != nil {
		return nil, ct.wrapError("invokeAction", err)
	}
	if err := checkResponseContentType(result.Form, respContent); err != nil {
		return nil, err
	}

	return NewInteractionOutput(respContent, action.Output, ct.codecs), nil
}
