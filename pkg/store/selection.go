package store

import (
	"fmt"
	"sort"

	"github.com/aretw0/flowcraft/pkg/domain"
)

// Select focuses the node with the given id and makes it the only selected node.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	if s.nodeIndex(id) < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	s.selectOnly(id)
	s.mu.Unlock()

	ev := s.event(domain.EventSelectionChanged, false)
	ev.NodeID = id
	s.notify(ev)
	return nil
}

// ClearSelection drops the focused node and every selected node and edge.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	s.focused = ""
	clear(s.selectedNodes)
	clear(s.selectedEdges)
	s.mu.Unlock()

	s.notify(s.event(domain.EventSelectionChanged, false))
}

// SelectedNodeID returns the focused node, the one a property panel would edit.
func (s *Store) SelectedNodeID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focused, s.focused != ""
}

// SelectedNodeIDs returns every node flagged as selected, sorted.
func (s *Store) SelectedNodeIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.selectedNodes)
}

// SelectedEdgeIDs returns every edge flagged as selected, sorted.
func (s *Store) SelectedEdgeIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.selectedEdges)
}

// Dragging reports whether the node is being dragged on the canvas.
func (s *Store) Dragging(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dragging[id]
}

// selectOnly makes id the focused and only selected node. Caller holds mu.
func (s *Store) selectOnly(id string) {
	clear(s.selectedNodes)
	s.selectedNodes[id] = true
	s.focused = id
}

// setNodeSelected applies a select change. The focus follows the last node
// selected and is dropped when its node is deselected. Caller holds mu.
func (s *Store) setNodeSelected(id string, selected bool) {
	if selected {
		s.selectedNodes[id] = true
		s.focused = id
		return
	}
	delete(s.selectedNodes, id)
	if s.focused == id {
		s.focused = ""
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
