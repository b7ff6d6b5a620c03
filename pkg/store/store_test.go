package store_test

import (
	"testing"

	"github.com/aretw0/flowcraft/internal/idgen"
	"github.com/aretw0/flowcraft/pkg/domain"
	"github.com/aretw0/flowcraft/pkg/store"
	"github.com/aretw0/flowcraft/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(
		store.WithIDGenerator(idgen.NewSequence(0)),
		store.WithPositioner(func() domain.Position { return domain.Position{X: 100, Y: 200} }),
	)
}

func TestNew_StartsWithStartNode(t *testing.T) {
	s := store.New()

	nodes := s.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, domain.NewStartNode(), nodes[0])
	assert.Empty(t, s.Edges())

	_, ok := s.SelectedNodeID()
	assert.False(t, ok)
}

func TestAddNode(t *testing.T) {
	s := newStore(t)

	n, err := s.AddNode(domain.NodeTypeSetVariable)
	require.NoError(t, err)
	assert.Equal(t, "node-1", n.ID)
	assert.Equal(t, "Set_variable Node", n.Name)
	assert.Equal(t, domain.Position{X: 100, Y: 200}, n.Position)
	assert.Equal(t, domain.SetVariablePayload{}, n.Payload)
	assert.False(t, n.IsStart)

	sel, ok := s.SelectedNodeID()
	assert.True(t, ok)
	assert.Equal(t, n.ID, sel)

	m, err := s.AddNode(domain.NodeTypeMessage)
	require.NoError(t, err)
	assert.Equal(t, "node-2", m.ID)
	assert.Equal(t, []string{"node-2"}, s.SelectedNodeIDs())
}

func TestAddNode_RejectsUnknownAndStart(t *testing.T) {
	s := newStore(t)

	_, err := s.AddNode("email")
	assert.ErrorIs(t, err, domain.ErrUnknownNodeType)

	_, err = s.AddNode(domain.NodeTypeStart)
	assert.ErrorIs(t, err, domain.ErrUnknownNodeType)

	assert.Len(t, s.Nodes(), 1)
}

func TestAddNode_RandomPositionInRange(t *testing.T) {
	s := store.New()
	for _, typ := range domain.PaletteTypes {
		n, err := s.AddNode(typ)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n.Position.X, 100.0)
		assert.Less(t, n.Position.X, 500.0)
		assert.GreaterOrEqual(t, n.Position.Y, 100.0)
		assert.Less(t, n.Position.Y, 500.0)
	}
}

func TestUpdateNode(t *testing.T) {
	s := newStore(t)
	n, _ := s.AddNode(domain.NodeTypeAPI)

	got, err := s.UpdateNode(n.ID, map[string]any{
		"apiEndpoint": "https://api.example.com",
		"method":      "POST",
		"headers":     map[string]string{"Authorization": "token"},
		"note":        "kept",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.APIPayload{
		Endpoint: "https://api.example.com",
		Method:   domain.MethodPost,
		Headers:  map[string]string{"Authorization": "token"},
	}, got.Payload)
	assert.Equal(t, "kept", got.Extra["note"])

	// shallow merge keeps untouched fields
	got, err = s.UpdateNode(n.ID, map[string]any{"body": `{"a":1}`, "name": "Call"})
	require.NoError(t, err)
	p := got.Payload.(domain.APIPayload)
	assert.Equal(t, "https://api.example.com", p.Endpoint)
	assert.Equal(t, `{"a":1}`, p.Body)
	assert.Equal(t, "Call", got.Name)

	stored, ok := s.Node(n.ID)
	require.True(t, ok)
	assert.Equal(t, got, stored)
}

func TestUpdateNode_IdentityIsWriteOnce(t *testing.T) {
	s := newStore(t)

	got, err := s.UpdateNode(domain.StartNodeID, map[string]any{
		"isStart": false,
		"id":      "other",
		"type":    "message",
		"name":    "Begin",
	})
	require.NoError(t, err)
	assert.True(t, got.IsStart)
	assert.Equal(t, domain.StartNodeID, got.ID)
	assert.Equal(t, domain.NodeTypeStart, got.Type())
	assert.Equal(t, "Begin", got.Name)

	n, _ := s.AddNode(domain.NodeTypeMessage)
	got, err = s.UpdateNode(n.ID, map[string]any{"isStart": true})
	require.NoError(t, err)
	assert.False(t, got.IsStart)
}

func TestUpdateNode_Errors(t *testing.T) {
	s := newStore(t)
	n, _ := s.AddNode(domain.NodeTypeMessage)
	_, _ = s.UpdateNode(n.ID, map[string]any{"message": "hi"})

	_, err := s.UpdateNode("ghost", map[string]any{"name": "x"})
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)

	_, err = s.UpdateNode(n.ID, map[string]any{"message": []string{"not", "text"}})
	assert.ErrorIs(t, err, domain.ErrInvalidPatch)

	stored, _ := s.Node(n.ID)
	assert.Equal(t, domain.MessagePayload{Message: "hi"}, stored.Payload)
}

func TestDeleteNode_CascadesEdges(t *testing.T) {
	s := newStore(t)
	a, _ := s.AddNode(domain.NodeTypeMessage)
	b, _ := s.AddNode(domain.NodeTypeQuestion)
	s.Connect(domain.Connection{Source: domain.StartNodeID, Target: a.ID})
	s.Connect(domain.Connection{Source: a.ID, Target: b.ID})
	keep := s.Connect(domain.Connection{Source: domain.StartNodeID, Target: b.ID})

	require.NoError(t, s.Select(a.ID))
	assert.True(t, s.DeleteNode(a.ID))

	for _, e := range s.Edges() {
		assert.NotEqual(t, a.ID, e.Source)
		assert.NotEqual(t, a.ID, e.Target)
	}
	assert.Equal(t, []domain.Edge{keep}, s.Edges())

	_, ok := s.Node(a.ID)
	assert.False(t, ok)
	_, ok = s.SelectedNodeID()
	assert.False(t, ok)
}

func TestDeleteNode_StartNodeIsNoOp(t *testing.T) {
	s := newStore(t)
	a, _ := s.AddNode(domain.NodeTypeMessage)
	s.Connect(domain.Connection{Source: domain.StartNodeID, Target: a.ID})
	before := s.Export()

	assert.False(t, s.DeleteNode(domain.StartNodeID))
	assert.False(t, s.DeleteNode("ghost"))
	assert.Equal(t, before, s.Export())
}

func TestDeleteNode_KeepsUnrelatedSelection(t *testing.T) {
	s := newStore(t)
	a, _ := s.AddNode(domain.NodeTypeMessage)
	b, _ := s.AddNode(domain.NodeTypeMessage)

	assert.True(t, s.DeleteNode(a.ID))
	sel, ok := s.SelectedNodeID()
	assert.True(t, ok)
	assert.Equal(t, b.ID, sel)
}

func TestConnect_Permissive(t *testing.T) {
	s := newStore(t)
	a, _ := s.AddNode(domain.NodeTypeMessage)

	e1 := s.Connect(domain.Connection{Source: a.ID, Target: a.ID})
	e2 := s.Connect(domain.Connection{Source: a.ID, Target: domain.StartNodeID, Label: "back"})
	e3 := s.Connect(domain.Connection{Source: a.ID, Target: domain.StartNodeID})
	e4 := s.Connect(domain.Connection{Source: a.ID, Target: "ghost"})

	assert.Equal(t, "edge-2", e1.ID)
	assert.Equal(t, "back", e2.Label)
	assert.NotEqual(t, e2.ID, e3.ID)
	assert.Equal(t, []domain.Edge{e1, e2, e3, e4}, s.Edges())
}

func TestDeleteEdge(t *testing.T) {
	s := newStore(t)
	e := s.Connect(domain.Connection{Source: "a", Target: "b"})

	assert.True(t, s.DeleteEdge(e.ID))
	assert.False(t, s.DeleteEdge(e.ID))
	assert.Empty(t, s.Edges())
}

func TestApplyNodeChanges(t *testing.T) {
	s := newStore(t)
	a, _ := s.AddNode(domain.NodeTypeMessage)
	b, _ := s.AddNode(domain.NodeTypeCondition)
	s.Connect(domain.Connection{Source: a.ID, Target: b.ID})

	s.ApplyNodeChanges([]domain.NodeChange{
		{Type: domain.ChangePosition, ID: a.ID, Position: &domain.Position{X: 1, Y: 2}, Dragging: true},
		{Type: domain.ChangeSelect, ID: a.ID, Selected: true},
		{Type: domain.ChangeRemove, ID: b.ID},
		{Type: domain.ChangeRemove, ID: domain.StartNodeID},
		{Type: domain.ChangePosition, ID: "ghost", Position: &domain.Position{}},
	})

	got, ok := s.Node(a.ID)
	require.True(t, ok)
	assert.Equal(t, domain.Position{X: 1, Y: 2}, got.Position)
	assert.True(t, s.Dragging(a.ID))

	_, ok = s.Node(b.ID)
	assert.False(t, ok)
	_, ok = s.Node(domain.StartNodeID)
	assert.True(t, ok)
	assert.Empty(t, s.Edges())

	sel, _ := s.SelectedNodeID()
	assert.Equal(t, a.ID, sel)

	s.ApplyNodeChanges([]domain.NodeChange{
		{Type: domain.ChangePosition, ID: a.ID},
		{Type: domain.ChangeSelect, ID: a.ID, Selected: false},
	})
	assert.False(t, s.Dragging(a.ID))
	_, ok = s.SelectedNodeID()
	assert.False(t, ok)
}

func TestApplyEdgeChanges(t *testing.T) {
	s := newStore(t)
	e1 := s.Connect(domain.Connection{Source: "a", Target: "b"})
	e2 := s.Connect(domain.Connection{Source: "b", Target: "c"})

	s.ApplyEdgeChanges([]domain.EdgeChange{
		{Type: domain.ChangeSelect, ID: e1.ID, Selected: true},
		{Type: domain.ChangeSelect, ID: e2.ID, Selected: true},
		{Type: domain.ChangeRemove, ID: e2.ID},
	})

	assert.Equal(t, []domain.Edge{e1}, s.Edges())
	assert.Equal(t, []string{e1.ID}, s.SelectedEdgeIDs())

	s.ClearSelection()
	assert.Empty(t, s.SelectedEdgeIDs())
}

func TestSelect(t *testing.T) {
	s := newStore(t)
	assert.ErrorIs(t, s.Select("ghost"), domain.ErrNodeNotFound)

	require.NoError(t, s.Select(domain.StartNodeID))
	sel, ok := s.SelectedNodeID()
	assert.True(t, ok)
	assert.Equal(t, domain.StartNodeID, sel)

	s.ClearSelection()
	_, ok = s.SelectedNodeID()
	assert.False(t, ok)
}

func TestExportLoad_RoundTrip(t *testing.T) {
	s := newStore(t)
	a, _ := s.AddNode(domain.NodeTypeQuestion)
	_, err := s.UpdateNode(a.ID, map[string]any{"question": "Name?", "variable": "name"})
	require.NoError(t, err)
	s.Connect(domain.Connection{Source: domain.StartNodeID, Target: a.ID, Label: "ask"})

	doc := s.Export()

	other := store.New()
	require.NoError(t, other.Load(doc))
	assert.Equal(t, doc, other.Export())
	assert.Equal(t, validator.ValidateFlow(doc), validator.Validate(other.Nodes(), other.Edges()))

	_, ok := other.SelectedNodeID()
	assert.False(t, ok)
}

func TestExport_IsACopy(t *testing.T) {
	s := newStore(t)
	doc := s.Export()
	doc.Nodes[0].Name = "Changed"
	doc.Nodes = append(doc.Nodes, domain.Node{ID: "x"})

	nodes := s.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, "Start", nodes[0].Name)
}

func TestLoad_Atomic(t *testing.T) {
	s := newStore(t)
	_, _ = s.AddNode(domain.NodeTypeMessage)
	before := s.Export()

	dup := &domain.FlowData{
		Nodes: []domain.Node{domain.NewStartNode(), domain.NewStartNode()},
		Edges: []domain.Edge{},
	}
	assert.ErrorIs(t, s.Load(dup), domain.ErrDuplicateID)

	dupEdges := &domain.FlowData{
		Nodes: []domain.Node{domain.NewStartNode()},
		Edges: []domain.Edge{{ID: "e"}, {ID: "e"}},
	}
	assert.ErrorIs(t, s.Load(dupEdges), domain.ErrDuplicateID)
	assert.ErrorIs(t, s.Load(nil), domain.ErrInvalidDocument)

	assert.Equal(t, before, s.Export())
}

func TestLoad_StartNodeWithOtherIDIsProtected(t *testing.T) {
	s := newStore(t)
	start := domain.NewStartNode()
	start.ID = "entry"
	require.NoError(t, s.Load(&domain.FlowData{Nodes: []domain.Node{start}}))

	assert.False(t, s.DeleteNode("entry"))
	assert.Len(t, s.Nodes(), 1)
}

func TestReset(t *testing.T) {
	s := newStore(t)
	_, _ = s.AddNode(domain.NodeTypeMessage)
	s.Reset()
	assert.Equal(t, domain.NewFlowData(), s.Export())
}
