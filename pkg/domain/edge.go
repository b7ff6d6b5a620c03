package domain

// Edge is a directed connection between two nodes.
// Source and Target are expected to reference existing nodes, but dangling
// references are tolerated by the store.
type Edge struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Touches reports whether nodeID is the source or the target of the edge.
func (e Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

// Connection is a request to link two nodes, as emitted by the canvas.
type Connection struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}
