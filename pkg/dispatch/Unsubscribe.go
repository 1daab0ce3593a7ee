package dispatch

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"

	"github.com/wostzone/wot-consume/pkg/protocol"
	"github.com/wostzone/wot-consume/pkg/td"
)

// SelectUnsubscribeForm picks the form to use when tearing down a
// subscription that was established through forms[subscribedIndex]: if
// the subscribed form itself already carries unsubOp, reuse it;
// otherwise score every form that carries unsubOp and take the highest,
// ties going to the lowest index. Fails with NoFormForInteractionError
// when no form carries unsubOp.
func SelectUnsubscribeForm(thingID string, forms []td.Form, subscribedIndex int, unsubOp string) (td.Form, error) {
	if subscribedIndex >= 0 && subscribedIndex < len(forms) && forms[subscribedIndex].HasOp(unsubOp) {
		return forms[subscribedIndex], nil
	}

	var reference td.Form
	if subscribedIndex >= 0 && subscribedIndex < len(forms) {
		reference = forms[subscribedIndex]
	}
	refScheme, refHost := schemeAndHost(reference.Href)
	refContentType := reference.EffectiveContentType()

	bestIndex := -1
	bestScore := 0
	for i, f := range forms {
		if !f.HasOp(unsubOp) {
			continue
		}
		score := 0
		if f.HasOp(unsubOp) {
			score++
		}
		scheme, host := schemeAndHost(f.Href)
		if scheme == refScheme && host == refHost {
			score++
		}
		if f.EffectiveContentType() == refContentType {
			score++
		}
		if score > bestScore {
			bestScore = score
			bestIndex = i
		}
	}

	if bestScore == 0 || bestIndex < 0 {
		return td.Form{}, &protocol.NoFormForInteractionError{ThingID: thingID, Op: unsubOp}
	}
	return forms[bestIndex], nil
}

// schemeAndHost returns href's scheme and host, with the host normalized
// to its ASCII (punycode) form so a Unicode-hostname form compares equal
// to its ASCII-encoded equivalent.
func schemeAndHost(href string) (string, string) {
	u, err := url.Parse(href)
	if err != nil {
		return "", ""
	}
	host := u.Host
	if ascii, err := idna.Lookup.ToASCII(strings.ToLower(u.Hostname())); err == nil {
		if port := u.Port(); port != "" {
			host = ascii + ":" + port
		} else {
			host = ascii
		}
	}
	return u.Scheme, host
}
