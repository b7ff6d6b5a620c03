package domain

import "time"

// EventType defines the category of a store change.
type EventType string

const (
	EventNodeAdded        EventType = "node_added"
	EventNodeUpdated      EventType = "node_updated"
	EventNodeDeleted      EventType = "node_deleted"
	EventNodesChanged     EventType = "nodes_changed"
	EventEdgeAdded        EventType = "edge_added"
	EventEdgeDeleted      EventType = "edge_deleted"
	EventEdgesChanged     EventType = "edges_changed"
	EventSelectionChanged EventType = "selection_changed"
	EventFlowLoaded       EventType = "flow_loaded"
)

// ChangeEvent is delivered to store subscribers after a mutation completes.
type ChangeEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	NodeID    string    `json:"node_id,omitempty"`
	EdgeID    string    `json:"edge_id,omitempty"`

	// Structural is false for changes that only touch view state (selection, dragging).
	Structural bool `json:"structural"`
}

// Observer receives change events. Implementations must not block.
type Observer func(ChangeEvent)
