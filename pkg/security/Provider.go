package security

import (
	"fmt"
	"strings"

	"github.com/wostzone/wot-consume/pkg/td"
)

// NoCredentialsFoundError reports that no credentials could be resolved
// for a form, either because no href prefix matched the credential store
// or because a matching entry's concrete kind did not match any of the
// TD's declared security schemes.
type NoCredentialsFoundError struct {
	Href    string
	Message string
}

func (e *NoCredentialsFoundError) Error() string {
	return fmt.Sprintf("no credentials found for %q: %s", e.Href, e.Message)
}

// kindNames renders a human-readable scheme kind, e.g. "basic" -> "BasicCredentials".
func kindNames(kind string) string {
	if kind == "" {
		return "NoCredentials"
	}
	return strings.ToUpper(kind[:1]) + kind[1:] + "Credentials"
}

// Provider resolves credentials for a form's href against a CredentialStore,
// validating the resolved credential's kind against the TD's declared
// security schemes.
type Provider struct {
	store *CredentialStore
}

// NewProvider wraps store in a Provider. A nil store behaves as an empty
// one: every lookup with declared security schemes fails with
// NoCredentialsFoundError.
func NewProvider(store *CredentialStore) *Provider {
	if store == nil {
		store = NewCredentialStore()
	}
	return &Provider{store: store}
}

// Resolve returns the credentials that should be installed on a protocol
// client serving href, given the TD's resolved security schemes (see
// td.ThingDescription.SecuritySchemes). An empty schemes list means
// anonymous access and always returns NoCredentials, nil.
func (p *Provider) Resolve(href string, schemes []td.SecurityScheme) (Credentials, error) {
	if len(schemes) == 0 {
		return NoCredentials{}, nil
	}

	creds, found := p.store.lookup(href)
	if !found {
		return nil, &NoCredentialsFoundError{Href: href, Message: "no href prefix matched the credential store"}
	}

	for _, scheme := range schemes {
		if scheme.Scheme == creds.Kind() {
			return creds, nil
		}
	}

	expected := kindNames(schemes[0].Scheme)
	actual := kindNames(creds.Kind())
	return nil, &NoCredentialsFoundError{
		Href:    href,
		Message: fmt.Sprintf("Expected %s but found %s", expected, actual),
	}
}
