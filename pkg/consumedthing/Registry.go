package consumedthing

import (
	"context"
	"sync"

	"github.com/wostzone/wot-consume/pkg/protocol"
)

// Registry is the Listener/Subscription Registry: per ConsumedThing, it
// maintains the observedProperties and subscribedEvents maps and
// enforces at-most-one active observation/subscription per affordance
// name.
type Registry struct {
	mu                 sync.Mutex
	observedProperties map[string]*Subscription
	subscribedEvents   map[string]*Subscription
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		observedProperties: make(map[string]*Subscription),
		subscribedEvents:   make(map[string]*Subscription),
	}
}

func (r *Registry) mapFor(rt protocol.ResourceType) map[string]*Subscription {
	if rt == protocol.ResourceEvent {
		return r.subscribedEvents
	}
	return r.observedProperties
}

// register inserts sub under name, failing with DuplicateSubscriptionError
// if an entry already exists. This is the registry's at-most-one guarantee
// and must be an atomic check-then-insert.
func (r *Registry) register(rt protocol.ResourceType, name string, sub *Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.mapFor(rt)
	if _, exists := m[name]; exists {
		return &protocol.DuplicateSubscriptionError{Name: name}
	}
	m[name] = sub
	return nil
}

// remove drops the entry for name, if present. Idempotent.
func (r *Registry) remove(rt protocol.ResourceType, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.mapFor(rt), name)
}

// get returns the active subscription for name, if any.
func (r *Registry) get(rt protocol.ResourceType, name string) (*Subscription, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.mapFor(rt)[name]
	return sub, ok
}

// stopAll stops every active observation and subscription and clears both
// maps. Used to guard ConsumedThing teardown.
func (r *Registry) stopAll() {
	r.mu.Lock()
	subs := make([]*Subscription, 0, len(r.observedProperties)+len(r.subscribedEvents))
	for _, s := range r.observedProperties {
		subs = append(subs, s)
	}
	for _, s := range r.subscribedEvents {
		subs = append(subs, s)
	}
	r.mu.Unlock()

	for _, s := range subs {
		s.stop(context.Background())
	}
}
