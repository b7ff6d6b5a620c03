package dsl

import (
	"fmt"

	"github.com/aretw0/flowcraft/pkg/domain"
)

// Spacing between nodes placed by the builder when no explicit position is given.
const rowHeight = 120

// Builder manages the flow construction.
type Builder struct {
	order []string
	nodes map[string]*NodeBuilder
}

// New creates a new flow builder holding the start node.
func New() *Builder {
	b := &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
	start := b.Add(domain.StartNodeID)
	start.node = domain.NewStartNode()
	start.placed = true
	return b
}

// Start returns the builder of the start node.
func (b *Builder) Start() *NodeBuilder {
	return b.nodes[domain.StartNodeID]
}

// Add creates a new node in the flow.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node:    domain.Node{ID: id},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Build assembles the document. Nodes keep the order they were added in and
// edges the order their transitions were declared in.
// Every node must have a type and every transition must target a declared node.
func (b *Builder) Build() (*domain.FlowData, error) {
	doc := &domain.FlowData{
		Nodes: make([]domain.Node, 0, len(b.order)),
		Edges: []domain.Edge{},
	}

	for i, id := range b.order {
		nb := b.nodes[id]
		n := nb.node.Clone()
		if n.Payload == nil {
			return nil, fmt.Errorf("node %q: %w: no type set", id, domain.ErrUnknownNodeType)
		}
		if n.Name == "" {
			n.Name = n.Type().DefaultName()
		}
		if !nb.placed {
			n.Position = domain.Position{X: 250, Y: float64(50 + i*rowHeight)}
		}
		doc.Nodes = append(doc.Nodes, n)
	}

	for _, id := range b.order {
		for _, t := range b.nodes[id].transitions {
			if _, ok := b.nodes[t.target]; !ok {
				return nil, fmt.Errorf("node %q: transition to %w: %s", id, domain.ErrNodeNotFound, t.target)
			}
			doc.Edges = append(doc.Edges, domain.Edge{
				ID:     fmt.Sprintf("edge-%d", len(doc.Edges)+1),
				Source: id,
				Target: t.target,
				Label:  t.label,
			})
		}
	}

	return doc, nil
}

// MustBuild is like Build but panics on error. Intended for tests and static templates.
func (b *Builder) MustBuild() *domain.FlowData {
	doc, err := b.Build()
	if err != nil {
		panic(err)
	}
	return doc
}
