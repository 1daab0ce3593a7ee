package consumedthing

import (
	"context"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/wostzone/wot-consume/pkg/protocol"
	"github.com/wostzone/wot-consume/pkg/td"
)

// registryHandle is the narrow slice of *Registry a Subscription needs to
// tear itself down. Routing stop() through a handle rather than a direct
// map reference keeps the Subscription from reaching into Registry
// internals and makes its own removal a single, idempotent, race-free
// call.
type registryHandle interface {
	remove(rt protocol.ResourceType, name string)
}

// Subscription represents one active observation (property) or
// subscription (event). Exactly one Subscription exists per affordance
// name in the owning Registry while active; stop() is safe to call any
// number of times and issues unlinkResource exactly once.
type Subscription struct {
	ThingID      string
	Name         string
	ResourceType protocol.ResourceType
	Form         td.Form
	FormIndex    int

	active   int32 // 0/1, CAS-guarded
	client   protocol.Client
	registry registryHandle
	cancel   context.CancelFunc
	stream   protocol.ContentStream
}

// Active reports whether the subscription is still delivering notifications.
func (s *Subscription) Active() bool {
	return atomic.LoadInt32(&s.active) == 1
}

// stop cancels the underlying stream, unlinks the resource on the owning
// client exactly once, and removes the Subscription's own entry from the
// registry. Subsequent calls are no-ops.
func (s *Subscription) stop(ctx context.Context) {
	if !atomic.CompareAndSwapInt32(&s.active, 1, 0) {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.stream != nil {
		_ = s.stream.Close()
	}
	resource := protocol.Resource{ThingID: s.ThingID, Name: s.Name, Form: s.Form}
	if err := s.client.UnlinkResource(ctx, resource, s.ResourceType); err != nil {
		logrus.Warnf("unlinkResource failed for %q on thing %q: %v", s.Name, s.ThingID, err)
	}
	s.registry.remove(s.ResourceType, s.Name)
}

// Stop is the public teardown entry point used by callers holding a
// Subscription returned from ObserveProperty/SubscribeEvent.
func (s *Subscription) Stop() {
	s.stop(context.Background())
}
