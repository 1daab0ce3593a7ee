package dispatch

import (
	"github.com/wostzone/wot-consume/pkg/protocol"
	"github.com/wostzone/wot-consume/pkg/td"
	"github.com/wostzone/wot-consume/pkg/uritemplate"
)

// InteractionOptions carries the per-call overrides the Consumption Engine
// may pass through to dispatch: an explicit form index (bypassing scheme
// preference entirely) and URI template variables for href expansion.
type InteractionOptions struct {
	FormIndex    *int
	URIVariables map[string]string
}

// Result is what a successful dispatch hands back to the engine: the form
// actually selected (possibly a clone with an expanded href) and the
// protocol client to invoke it through.
type Result struct {
	Form      td.Form
	FormIndex int
	Scheme    string
	Client    protocol.Client
}

// Dispatch resolves op against forms for the given thing: augment forms
// with resolved schemes, pick a client-capable scheme (honoring the
// servient's scheme priority, or FormIndex's own scheme when explicitly
// given), select the best-matching form for that scheme, and expand any
// URI template variables in its href.
func Dispatch(servient ServientView, cache *ClientCache, thingID, base, op string, forms []td.Form, securitySchemes []td.SecurityScheme, opts InteractionOptions) (Result, error) {
	augmented := Augment(forms, base)

	if opts.FormIndex != nil {
		return dispatchExplicitForm(servient, cache, thingID, augmented, securitySchemes, *opts.FormIndex, opts)
	}

	schemes := orderSchemes(augmented, servient.SupportedSchemes())

	var chosenScheme string
	var client protocol.Client
	for _, scheme := range schemes {
		href := firstHrefForScheme(augmented, scheme)
		c, err := cache.getOrCreate(servient, scheme, href, securitySchemes)
		if err != nil {
			return Result{}, err
		}
		if c != nil {
			chosenScheme = scheme
			client = c
			break
		}
	}
	if client == nil {
		return Result{}, &protocol.NoClientFactoryForSchemesError{ThingID: thingID, Schemes: schemes}
	}

	form, ok := selectForm(augmented, chosenScheme, op)
	if !ok {
		return Result{}, &protocol.NoFormForInteractionError{ThingID: thingID, Op: op}
	}

	form = expandURIVariables(form, opts.URIVariables)
	return Result{Form: form.Form, FormIndex: form.Index, Scheme: chosenScheme, Client: client}, nil
}

func dispatchExplicitForm(servient ServientView, cache *ClientCache, thingID string, augmented []AugmentedForm, securitySchemes []td.SecurityScheme, index int, opts InteractionOptions) (Result, error) {
	if index < 0 || index >= len(augmented) {
		return Result{}, &protocol.NoFormForInteractionError{ThingID: thingID, Op: "formIndex"}
	}
	form := augmented[index]
	client, err := cache.getOrCreate(servient, form.HrefScheme, form.Href, securitySchemes)
	if err != nil {
		return Result{}, err
	}
	if client == nil {
		return Result{}, &protocol.NoClientFactoryForSchemesError{ThingID: thingID, Schemes: []string{form.HrefScheme}}
	}
	form = expandURIVariables(form, opts.URIVariables)
	return Result{Form: form.Form, FormIndex: form.Index, Scheme: form.HrefScheme, Client: client}, nil
}

// selectForm picks the first form of scheme satisfying the requested op,
// or - absent any op list (default-op inference) - the first form of
// scheme at all.
func selectForm(augmented []AugmentedForm, scheme, op string) (AugmentedForm, bool) {
	for _, f := range augmented {
		if f.HrefScheme != scheme {
			continue
		}
		if f.HasOp(op) {
			return f, true
		}
	}
	for _, f := range augmented {
		if f.HrefScheme != scheme {
			continue
		}
		if len(f.Op) == 0 {
			return f, true
		}
	}
	return AugmentedForm{}, false
}

func firstHrefForScheme(augmented []AugmentedForm, scheme string) string {
	for _, f := range augmented {
		if f.HrefScheme == scheme {
			return f.Href
		}
	}
	return ""
}

// expandURIVariables resolves {var} placeholders in form's href. If
// expansion leaves the href unchanged, the original form is returned
// as-is; otherwise a shallow clone carries the expanded href.
func expandURIVariables(form AugmentedForm, vars map[string]string) AugmentedForm {
	if len(vars) == 0 {
		return form
	}
	expanded, changed := uritemplate.Expand(form.Href, vars)
	if !changed {
		return form
	}
	clone := form.Form.Clone()
	clone.Href = expanded
	form.Form = *clone
	return form
}
