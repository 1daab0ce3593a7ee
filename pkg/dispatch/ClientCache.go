package dispatch

import (
	"sync"

	"github.com/wostzone/wot-consume/pkg/protocol"
	"github.com/wostzone/wot-consume/pkg/security"
	"github.com/wostzone/wot-consume/pkg/td"
)

// ServientView is the narrow slice of the Servient façade that dispatch
// needs: the scheme-priority list, factory lookup, and the credentials
// provider. Kept as an interface here (rather than importing the Servient
// type) so pkg/dispatch has no dependency on pkg/consumedthing.
type ServientView interface {
	SupportedSchemes() []string
	ClientFactory(scheme string) (protocol.ClientFactory, bool)
	Credentials() *security.Provider
}

// ClientCache holds the scheme -> Client cache for a single ConsumedThing.
// First use of a scheme is serialized so the factory is invoked exactly
// once even under concurrent dispatch.
type ClientCache struct {
	mu      sync.Mutex
	clients map[string]protocol.Client
}

// NewClientCache returns an empty cache.
func NewClientCache() *ClientCache {
	return &ClientCache{clients: make(map[string]protocol.Client)}
}

// getOrCreate returns the cached client for scheme, creating and
// installing credentials on one if this is the first demand for that
// scheme. href and schemes are used only for the one-time credentials
// lookup at creation time.
func (c *ClientCache) getOrCreate(servient ServientView, scheme, href string, schemes []td.SecurityScheme) (protocol.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[scheme]; ok {
		return client, nil
	}

	factory, ok := servient.ClientFactory(scheme)
	if !ok {
		return nil, nil
	}

	client, err := factory.CreateClient()
	if err != nil {
		return nil, &protocol.ClientError{Scheme: scheme, Cause: err}
	}

	creds, err := servient.Credentials().Resolve(href, schemes)
	if err != nil {
		return nil, err
	}
	if err := client.SetCredentials(creds); err != nil {
		return nil, &protocol.ClientError{Scheme: scheme, Cause: err}
	}

	c.clients[scheme] = client
	return client, nil
}

// Get returns the already-cached client for scheme, if any.
func (c *ClientCache) Get(scheme string) (protocol.Client, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	client, ok := c.clients[scheme]
	return client, ok
}
