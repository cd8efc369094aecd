// Package hiveevent defines the canonical event record the engine
// produces for every completed span, shaped for the downstream
// observability backend.  The semantic field groups (config, inputs,
// outputs, metadata, metrics, feedback) are always present as
// mappings, never nil, so consumers can index into them without
// guarding.
package hiveevent

import (
	"time"

	"github.com/muir/list"
)

// EventType classifies what kind of operation a span represents.
const (
	TypeModel   = "model"
	TypeTool    = "tool"
	TypeChain   = "chain"
	TypeGeneric = "generic"
)

// IDs carries span identity and hierarchy, populated from the bag's
// reserved keys independent of convention detection.
type IDs struct {
	EventID     string   `json:"event_id"`
	SessionID   string   `json:"session_id,omitempty"`
	ParentID    string   `json:"parent_id,omitempty"`
	ChildrenIDs []string `json:"children_ids,omitempty"`
	ProjectID   string   `json:"project_id,omitempty"`
}

// Event is the canonical record for one span.
type Event struct {
	EventName string    `json:"event_name"`
	EventType string    `json:"event_type"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Config   map[string]interface{} `json:"config"`
	Inputs   map[string]interface{} `json:"inputs"`
	Outputs  map[string]interface{} `json:"outputs"`
	Metadata map[string]interface{} `json:"metadata"`
	Metrics  map[string]interface{} `json:"metrics"`
	Feedback map[string]interface{} `json:"feedback"`

	IDs IDs `json:"ids"`
}

// New returns an event with every field group allocated.  The event id
// is left empty; the mapper assigns it from the span's reserved keys or
// derives a deterministic one.
func New() *Event {
	return &Event{
		EventType: TypeGeneric,
		Config:    map[string]interface{}{},
		Inputs:    map[string]interface{}{},
		Outputs:   map[string]interface{}{},
		Metadata:  map[string]interface{}{},
		Metrics:   map[string]interface{}{},
		Feedback:  map[string]interface{}{},
	}
}

// SetChildren stores a defensive copy of ids so the event does not
// alias a slice the caller may keep mutating.
func (e *Event) SetChildren(ids []string) {
	e.IDs.ChildrenIDs = list.Copy(ids)
}

// Fill copies entries of src into dst for keys dst does not already
// have.  This is the merge primitive behind additive enhancement:
// lower-priority conventions fill gaps and never overwrite.
func Fill(dst, src map[string]interface{}) {
	for k, v := range src {
		if _, taken := dst[k]; !taken {
			dst[k] = v
		}
	}
}
