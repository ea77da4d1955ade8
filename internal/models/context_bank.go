// ABOUTME: Context bank of typical experiences per event type
// ABOUTME: Event types keep the order they have in the source file
package models

import orderedmap "github.com/wk8/go-ordered-map/v2"

// EventType describes one kind of event a certificate can come from
type EventType struct {
	Description        string   `json:"description" yaml:"description"`
	TypicalExperiences []string `json:"typical_experiences" yaml:"typical_experiences"`
	SafeFraming        []string `json:"safe_framing" yaml:"safe_framing"`
}

// ContextBank is the optional knowledge base injected into the system prompt
type ContextBank struct {
	EventTypes *orderedmap.OrderedMap[string, EventType] `json:"event_types" yaml:"event_types"`
}

// Len returns the number of event types
func (cb *ContextBank) Len() int {
	if cb == nil || cb.EventTypes == nil {
		return 0
	}
	return cb.EventTypes.Len()
}
