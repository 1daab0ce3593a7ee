package consumedthing

import (
	"sync"

	"github.com/wostzone/wot-consume/pkg/protocol"
	"github.com/wostzone/wot-consume/pkg/security"
	"github.com/wostzone/wot-consume/pkg/td"
)

// Servient is the dependency container a ConsumedThing reads to reach
// protocol bindings: a registry of ProtocolClientFactory instances keyed
// by scheme, the scheme priority list used by dispatch, a credential
// store, and the current TD universe.
type Servient struct {
	mu               sync.RWMutex
	factories        map[string]protocol.ClientFactory
	supportedSchemes []string
	credentials      *security.Provider
	things           *td.ThingStore
}

// NewServient returns a Servient with schemes ordered by priority (lowest
// index = most preferred) and credentials resolved through store. A nil
// store behaves as an empty credential store.
func NewServient(priority []string, store *security.CredentialStore) *Servient {
	return &Servient{
		factories:        make(map[string]protocol.ClientFactory),
		supportedSchemes: priority,
		credentials:      security.NewProvider(store),
		things:           td.NewThingStore(),
	}
}

// RegisterFactory installs factory under its own Scheme(), initializing it.
// Process-lifetime operation; not expected to race with dispatch.
func (s *Servient) RegisterFactory(factory protocol.ClientFactory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := factory.Init(); err != nil {
		return err
	}
	s.factories[factory.Scheme()] = factory
	return nil
}

// UnregisterFactory destroys and removes the factory registered for scheme.
func (s *Servient) UnregisterFactory(scheme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	factory, ok := s.factories[scheme]
	if !ok {
		return nil
	}
	delete(s.factories, scheme)
	return factory.Destroy()
}

// ClientFactory returns the factory registered for scheme, if any.
func (s *Servient) ClientFactory(scheme string) (protocol.ClientFactory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.factories[scheme]
	return f, ok
}

// SupportedSchemes returns the scheme priority list used by dispatch.
func (s *Servient) SupportedSchemes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.supportedSchemes
}

// Credentials returns the servient's CredentialsProvider.
func (s *Servient) Credentials() *security.Provider {
	return s.credentials
}

// Things returns the servient's TD store.
func (s *Servient) Things() *td.ThingStore {
	return s.things
}
