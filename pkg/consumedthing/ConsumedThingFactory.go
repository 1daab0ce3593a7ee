package consumedthing

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/wostzone/wot-consume/pkg/codec"
	"github.com/wostzone/wot-consume/pkg/td"
)

// ConsumedThingFactory manages the live ConsumedThing instances for a
// single Servient. Consume obtains a ConsumedThing; if one already exists
// in this factory for a TD's ID it is returned as-is rather than
// rebuilt, so two callers consuming the same Thing share one client cache
// and one subscription registry.
type ConsumedThingFactory struct {
	servient *Servient
	codecs   *codec.Registry

	mu    sync.RWMutex
	cache map[string]*ConsumedThing
}

// NewConsumedThingFactory returns a factory backed by servient. A nil
// codecs registry defaults to codec.NewDefaultRegistry().
func NewConsumedThingFactory(servient *Servient, codecs *codec.Registry) *ConsumedThingFactory {
	if codecs == nil {
		codecs = codec.NewDefaultRegistry()
	}
	return &ConsumedThingFactory{
		servient: servient,
		codecs:   codecs,
		cache:    make(map[string]*ConsumedThing),
	}
}

// Consume returns the ConsumedThing for thingTD, creating and registering
// it in the servient's TD store on first use.
func (f *ConsumedThingFactory) Consume(thingTD *td.ThingDescription) *ConsumedThing {
	f.mu.Lock()
	defer f.mu.Unlock()

	if ct, found := f.cache[thingTD.ID]; found {
		return ct
	}

	logrus.Infof("consuming thing %q", thingTD.ID)
	ct := NewConsumedThing(f.servient, thingTD, f.codecs)
	f.cache[thingTD.ID] = ct
	f.servient.Things().Add(thingTD)
	return ct
}

// Destroy stops every subscription held by the ConsumedThing for thingID
// and drops it from the factory's cache.
func (f *ConsumedThingFactory) Destroy(thingID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ct, found := f.cache[thingID]
	if !found {
		return
	}
	ct.Destroy()
	delete(f.cache, thingID)
	f.servient.Things().Remove(thingID)
}

// Get returns the cached ConsumedThing for thingID, if one exists.
func (f *ConsumedThingFactory) Get(thingID string) (*ConsumedThing, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	ct, found := f.cache[thingID]
	return ct, found
}
