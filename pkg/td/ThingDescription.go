package td

import "sync"

// ThingDescription is the read-only TD document consumed by a ConsumedThing.
//
// This wraps the plain data fields with an update mutex; TD parsing
// itself lives outside this package.
type ThingDescription struct {
	ID                  string                         `json:"id"`
	Title               string                         `json:"title,omitempty"`
	Base                string                         `json:"base,omitempty"`
	Security            []string                       `json:"security,omitempty"`
	SecurityDefinitions map[string]SecurityScheme      `json:"securityDefinitions,omitempty"`
	Properties          map[string]*PropertyAffordance `json:"properties,omitempty"`
	Actions             map[string]*ActionAffordance   `json:"actions,omitempty"`
	Events              map[string]*EventAffordance    `json:"events,omitempty"`

	mu sync.RWMutex
}

// GetProperty returns the named property affordance, or nil if unknown.
func (t *ThingDescription) GetProperty(name string) *PropertyAffordance {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.Properties[name]
}

// GetAction returns the named action affordance, or nil if unknown.
func (t *ThingDescription) GetAction(name string) *ActionAffordance {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.Actions[name]
}

// GetEvent returns the named event affordance, or nil if unknown.
func (t *ThingDescription) GetEvent(name string) *EventAffordance {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.Events[name]
}

// PropertyNames returns the names of all properties in the TD.
func (t *ThingDescription) PropertyNames() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.Properties))
	for name := range t.Properties {
		names = append(names, name)
	}
	return names
}

// SecuritySchemes resolves the TD's top-level `security` list against its
// `securityDefinitions` map, returning the concrete schemes in effect for
// this Thing. Unknown names are skipped.
func (t *ThingDescription) SecuritySchemes() []SecurityScheme {
	t.mu.RLock()
	defer t.mu.RUnlock()
	schemes := make([]SecurityScheme, 0, len(t.Security))
	for _, name := range t.Security {
		if s, found := t.SecurityDefinitions[name]; found {
			s.Name = name
			schemes = append(schemes, s)
		}
	}
	return schemes
}

// Equal compares two TDs by content rather than identity.
func (t *ThingDescription) Equal(other *ThingDescription) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.ID == other.ID && t.Title == other.Title && t.Base == other.Base
}
