// Package dispatch implements protocol binding dispatch: it turns an
// affordance's form sequence and a requested operation into a concrete,
// scheme-resolved form plus a lazily-cached protocol client.
package dispatch

import (
	"net/url"
	"strings"

	"github.com/wostzone/wot-consume/pkg/td"
)

// AugmentedForm is a Form together with its resolved URI scheme, derived
// from the form's own href when absolute, or from the enclosing TD's base
// otherwise.
type AugmentedForm struct {
	td.Form
	Index      int
	HrefScheme string
}

// Augment resolves the URI scheme of every form in forms against base and
// returns them in original order, indexed.
func Augment(forms []td.Form, base string) []AugmentedForm {
	out := make([]AugmentedForm, len(forms))
	for i, f := range forms {
		out[i] = AugmentedForm{Form: f, Index: i, HrefScheme: resolveScheme(f.Href, base)}
	}
	return out
}

func resolveScheme(href, base string) string {
	if u, err := url.Parse(href); err == nil && u.Scheme != "" {
		return strings.ToLower(u.Scheme)
	}
	if u, err := url.Parse(base); err == nil {
		return strings.ToLower(u.Scheme)
	}
	return ""
}
