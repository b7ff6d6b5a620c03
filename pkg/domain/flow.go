package domain

// StartNodeID is the identifier of the node every new flow starts with.
const StartNodeID = "start-node"

// FlowData is the canonical document exchanged on export and import.
// It is a pure projection of node payloads and edge tuples; view state is never part of it.
type FlowData struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// NewStartNode returns the start node a fresh flow is initialised with.
func NewStartNode() Node {
	return Node{
		ID:       StartNodeID,
		Name:     "Start",
		Position: Position{X: 250, Y: 50},
		IsStart:  true,
		Payload:  StartPayload{},
	}
}

// NewFlowData returns a document holding only the start node.
func NewFlowData() *FlowData {
	return &FlowData{
		Nodes: []Node{NewStartNode()},
		Edges: []Edge{},
	}
}

// Clone returns a deep copy of the document.
func (f *FlowData) Clone() *FlowData {
	if f == nil {
		return nil
	}
	c := &FlowData{
		Nodes: make([]Node, len(f.Nodes)),
		Edges: make([]Edge, len(f.Edges)),
	}
	for i, n := range f.Nodes {
		c.Nodes[i] = n.Clone()
	}
	copy(c.Edges, f.Edges)
	return c
}

// Node returns the node with the given id.
func (f *FlowData) Node(id string) (Node, bool) {
	for _, n := range f.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// StartNode returns the first node flagged as start.
func (f *FlowData) StartNode() (Node, bool) {
	for _, n := range f.Nodes {
		if n.IsStart {
			return n, true
		}
	}
	return Node{}, false
}
