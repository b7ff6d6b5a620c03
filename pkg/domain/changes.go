package domain

// ChangeType is the kind of an incremental change coming from the canvas.
type ChangeType string

const (
	ChangePosition ChangeType = "position"
	ChangeSelect   ChangeType = "select"
	ChangeRemove   ChangeType = "remove"
)

// NodeChange is one entry of a batch produced by interactive manipulation
// (drag, multi-select, delete-by-gesture).
type NodeChange struct {
	Type     ChangeType `json:"type" validate:"required,oneof=position select remove"`
	ID       string     `json:"id" validate:"required"`
	Position *Position  `json:"position,omitempty"`
	Dragging bool       `json:"dragging,omitempty"`
	Selected bool       `json:"selected,omitempty"`
}

// EdgeChange is one entry of an edge change batch. Only select and remove apply to edges.
type EdgeChange struct {
	Type     ChangeType `json:"type" validate:"required,oneof=select remove"`
	ID       string     `json:"id" validate:"required"`
	Selected bool       `json:"selected,omitempty"`
}
