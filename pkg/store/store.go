package store

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/flowcraft/internal/logging"
	"github.com/aretw0/flowcraft/pkg/domain"
)

// Id prefixes of generated identifiers.
const (
	NodeIDPrefix = "node-"
	EdgeIDPrefix = "edge-"
)

// protectedKeys are ignored by UpdateNode: identity, type and the start flag are write-once.
var protectedKeys = map[string]bool{
	domain.KeyID:      true,
	domain.KeyType:    true,
	domain.KeyIsStart: true,
}

// Store is the single source of truth for the flow being edited.
// Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	nodes []domain.Node
	edges []domain.Edge

	// view state, never exported
	focused       string
	selectedNodes map[string]bool
	selectedEdges map[string]bool
	dragging      map[string]bool

	obsMu     sync.Mutex
	observers map[int]domain.Observer
	nextObs   int

	ids      IDGenerator
	position Positioner
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a store holding only the start node.
func New(opts ...Option) *Store {
	s := &Store{
		observers: make(map[int]domain.Observer),
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	defaults(s)
	for _, opt := range opts {
		opt(s)
	}
	s.reset(domain.NewFlowData())
	return s
}

// reset replaces the graph and clears every piece of view state. Caller holds mu.
func (s *Store) reset(doc *domain.FlowData) {
	s.nodes = make([]domain.Node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		s.nodes[i] = n.Clone()
	}
	s.edges = make([]domain.Edge, len(doc.Edges))
	copy(s.edges, doc.Edges)

	s.focused = ""
	s.selectedNodes = make(map[string]bool)
	s.selectedEdges = make(map[string]bool)
	s.dragging = make(map[string]bool)
}

func (s *Store) nodeIndex(id string) int {
	for i, n := range s.nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) edgeIndex(id string) int {
	for i, e := range s.edges {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) event(t domain.EventType, structural bool) domain.ChangeEvent {
	return domain.ChangeEvent{Timestamp: s.now(), Type: t, Structural: structural}
}

// AddNode creates a node of type t with a fresh id, the default name for the type,
// an initial position and empty payload fields. The new node becomes the selection.
func (s *Store) AddNode(t domain.NodeType) (domain.Node, error) {
	if t == domain.NodeTypeStart || !t.Valid() {
		return domain.Node{}, fmt.Errorf("%w: %q", domain.ErrUnknownNodeType, t)
	}

	s.mu.Lock()
	n := domain.Node{
		ID:       NodeIDPrefix + s.ids.NewID(),
		Name:     t.DefaultName(),
		Position: s.position(),
		Payload:  domain.EmptyPayload(t),
	}
	s.nodes = append(s.nodes, n)
	s.selectOnly(n.ID)
	s.mu.Unlock()

	s.logger.Debug("node added", "node_id", n.ID, "type", t)
	ev := s.event(domain.EventNodeAdded, true)
	ev.NodeID = n.ID
	s.notify(ev)
	return n.Clone(), nil
}

// UpdateNode shallow-merges patch into the node's document fields.
// The id, type and isStart keys are ignored. A patch value of the wrong shape
// returns domain.ErrInvalidPatch and leaves the node unchanged.
func (s *Store) UpdateNode(id string, patch map[string]any) (domain.Node, error) {
	s.mu.Lock()
	i := s.nodeIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return domain.Node{}, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}

	merged := s.nodes[i].ToMap()
	for k, v := range patch {
		if protectedKeys[k] {
			continue
		}
		merged[k] = v
	}
	updated, err := domain.NodeFromMap(merged)
	if err != nil {
		s.mu.Unlock()
		return domain.Node{}, fmt.Errorf("%w: %w", domain.ErrInvalidPatch, err)
	}
	s.nodes[i] = updated
	s.mu.Unlock()

	s.logger.Debug("node updated", "node_id", id, "keys", len(patch))
	ev := s.event(domain.EventNodeUpdated, true)
	ev.NodeID = id
	s.notify(ev)
	return updated.Clone(), nil
}

// DeleteNode removes a node and every edge touching it.
// It returns false, changing nothing, for the start node or an unknown id.
func (s *Store) DeleteNode(id string) bool {
	s.mu.Lock()
	ok := s.deleteNode(id)
	s.mu.Unlock()
	if !ok {
		return false
	}

	s.logger.Debug("node deleted", "node_id", id)
	ev := s.event(domain.EventNodeDeleted, true)
	ev.NodeID = id
	s.notify(ev)
	return true
}

// deleteNode is DeleteNode without locking or notification. Caller holds mu.
func (s *Store) deleteNode(id string) bool {
	i := s.nodeIndex(id)
	if i < 0 || s.nodes[i].IsStart {
		return false
	}
	s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)

	kept := s.edges[:0]
	for _, e := range s.edges {
		if e.Touches(id) {
			delete(s.selectedEdges, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	s.edges = kept

	delete(s.selectedNodes, id)
	delete(s.dragging, id)
	if s.focused == id {
		s.focused = ""
	}
	return true
}

// Connect adds a directed edge. Any pair of ids is accepted, including
// self-loops, parallel edges and references to nodes that do not exist.
func (s *Store) Connect(c domain.Connection) domain.Edge {
	s.mu.Lock()
	e := domain.Edge{
		ID:     EdgeIDPrefix + s.ids.NewID(),
		Source: c.Source,
		Target: c.Target,
		Label:  c.Label,
	}
	s.edges = append(s.edges, e)
	s.mu.Unlock()

	s.logger.Debug("edge added", "edge_id", e.ID, "source", e.Source, "target", e.Target)
	ev := s.event(domain.EventEdgeAdded, true)
	ev.EdgeID = e.ID
	s.notify(ev)
	return e
}

// DeleteEdge removes an edge. It returns false for an unknown id.
func (s *Store) DeleteEdge(id string) bool {
	s.mu.Lock()
	ok := s.deleteEdge(id)
	s.mu.Unlock()
	if !ok {
		return false
	}

	s.logger.Debug("edge deleted", "edge_id", id)
	ev := s.event(domain.EventEdgeDeleted, true)
	ev.EdgeID = id
	s.notify(ev)
	return true
}

func (s *Store) deleteEdge(id string) bool {
	i := s.edgeIndex(id)
	if i < 0 {
		return false
	}
	s.edges = append(s.edges[:i], s.edges[i+1:]...)
	delete(s.selectedEdges, id)
	return true
}

// ApplyNodeChanges applies a batch of canvas changes in order.
// Changes that name unknown nodes are skipped; a remove of the start node is a no-op.
func (s *Store) ApplyNodeChanges(changes []domain.NodeChange) {
	if len(changes) == 0 {
		return
	}

	s.mu.Lock()
	structural := false
	for _, c := range changes {
		i := s.nodeIndex(c.ID)
		if i < 0 {
			continue
		}
		switch c.Type {
		case domain.ChangePosition:
			if c.Position != nil {
				s.nodes[i].Position = *c.Position
				structural = true
			}
			if c.Dragging {
				s.dragging[c.ID] = true
			} else {
				delete(s.dragging, c.ID)
			}
		case domain.ChangeSelect:
			s.setNodeSelected(c.ID, c.Selected)
		case domain.ChangeRemove:
			if s.deleteNode(c.ID) {
				structural = true
			}
		}
	}
	s.mu.Unlock()

	s.notify(s.event(domain.EventNodesChanged, structural))
}

// ApplyEdgeChanges applies a batch of edge selection and removal changes.
func (s *Store) ApplyEdgeChanges(changes []domain.EdgeChange) {
	if len(changes) == 0 {
		return
	}

	s.mu.Lock()
	structural := false
	for _, c := range changes {
		if s.edgeIndex(c.ID) < 0 {
			continue
		}
		switch c.Type {
		case domain.ChangeSelect:
			if c.Selected {
				s.selectedEdges[c.ID] = true
			} else {
				delete(s.selectedEdges, c.ID)
			}
		case domain.ChangeRemove:
			if s.deleteEdge(c.ID) {
				structural = true
			}
		}
	}
	s.mu.Unlock()

	s.notify(s.event(domain.EventEdgesChanged, structural))
}

// Load replaces the whole graph with doc and resets the selection.
// Duplicate node or edge ids return domain.ErrDuplicateID and leave the store unchanged.
// The document is not validated.
func (s *Store) Load(doc *domain.FlowData) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", domain.ErrInvalidDocument)
	}
	if err := checkUnique(doc); err != nil {
		return err
	}

	s.mu.Lock()
	s.reset(doc)
	s.mu.Unlock()

	s.logger.Debug("flow loaded", "nodes", len(doc.Nodes), "edges", len(doc.Edges))
	s.notify(s.event(domain.EventFlowLoaded, true))
	return nil
}

// Reset discards the graph and starts over with only the start node.
func (s *Store) Reset() {
	// a fresh document cannot fail the uniqueness check
	_ = s.Load(domain.NewFlowData())
}

func checkUnique(doc *domain.FlowData) error {
	seen := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if seen[n.ID] {
			return fmt.Errorf("%w: node %q", domain.ErrDuplicateID, n.ID)
		}
		seen[n.ID] = true
	}
	seen = make(map[string]bool, len(doc.Edges))
	for _, e := range doc.Edges {
		if seen[e.ID] {
			return fmt.Errorf("%w: edge %q", domain.ErrDuplicateID, e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}

// Export returns a deep copy of the current graph as a document.
func (s *Store) Export() *domain.FlowData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := &domain.FlowData{Nodes: s.nodes, Edges: s.edges}
	return doc.Clone()
}

// Nodes returns a copy of the node list in insertion order.
func (s *Store) Nodes() []domain.Node {
	return s.Export().Nodes
}

// Edges returns a copy of the edge list in insertion order.
func (s *Store) Edges() []domain.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Edge, len(s.edges))
	copy(out, s.edges)
	return out
}

// Node returns a copy of the node with the given id.
func (s *Store) Node(id string) (domain.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.nodeIndex(id)
	if i < 0 {
		return domain.Node{}, false
	}
	return s.nodes[i].Clone(), true
}

// Edge returns the edge with the given id.
func (s *Store) Edge(id string) (domain.Edge, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.edgeIndex(id)
	if i < 0 {
		return domain.Edge{}, false
	}
	return s.edges[i], true
}

// Len returns the number of nodes and edges.
func (s *Store) Len() (nodes, edges int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes), len(s.edges)
}
