// Package protocol defines the narrow contract the Consumption Engine
// depends on to reach concrete protocol bindings (HTTP, WebSocket, MQTT,
// CoAP, ...), plus the engine's error taxonomy. Concrete bindings live
// under pkg/bindings/*; this package knows nothing about any of them.
package protocol

import "github.com/wostzone/wot-consume/pkg/td"

// ResourceType distinguishes property-backed resources from event-backed
// ones, passed to subscribeResource/unlinkResource so a binding can apply
// transport-specific semantics (e.g. MQTT topic naming) without the core
// caring which.
type ResourceType int

const (
	// ResourceProperty identifies a property observation.
	ResourceProperty ResourceType = iota
	// ResourceEvent identifies an event subscription.
	ResourceEvent
)

func (t ResourceType) String() string {
	switch t {
	case ResourceProperty:
		return "PROPERTY"
	case ResourceEvent:
		return "EVENT"
	default:
		return "UNKNOWN"
	}
}

// Resource identifies the interaction target a ProtocolClient call acts on.
type Resource struct {
	ThingID string
	Name    string
	Form    td.Form
}
