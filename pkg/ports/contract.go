package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/flowcraft/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contractFlow returns a document exercising every part of the canonical shape:
// all node types, headers, extra keys and labelled edges.
func contractFlow() *domain.FlowData {
	doc := domain.NewFlowData()
	doc.Nodes = append(doc.Nodes,
		domain.Node{
			ID: "ask", Name: "Ask", Position: domain.Position{X: 100, Y: 200.5},
			Payload: domain.QuestionPayload{Question: "Name?", Variable: "name"},
			Extra:   map[string]any{"color": "teal"},
		},
		domain.Node{
			ID: "call", Name: "Call", Position: domain.Position{X: 300, Y: 400},
			Payload: domain.APIPayload{
				Endpoint: "https://example.com", Method: domain.MethodPost,
				Headers: map[string]string{"Accept": "application/json"}, Body: `{"n":1}`,
			},
		},
	)
	doc.Edges = append(doc.Edges,
		domain.Edge{ID: "e1", Source: domain.StartNodeID, Target: "ask", Label: "begin"},
		domain.Edge{ID: "e2", Source: "ask", Target: "call"},
	)
	return doc
}

// RunDocumentStoreContract runs a suite of tests to verify that a DocumentStore implementation
// adheres to the defined interface contract.
func RunDocumentStoreContract(t *testing.T, store DocumentStore) {
	ctx := context.Background()
	name := "contract-test-flow-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		doc := contractFlow()

		err := store.Save(ctx, name, doc)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, doc.Edges, loaded.Edges)
		require.Len(t, loaded.Nodes, len(doc.Nodes))
		for i := range doc.Nodes {
			assert.Equal(t, doc.Nodes[i].ID, loaded.Nodes[i].ID)
			assert.Equal(t, doc.Nodes[i].Payload, loaded.Nodes[i].Payload)
			assert.Equal(t, doc.Nodes[i].Position, loaded.Nodes[i].Position)
			assert.Equal(t, doc.Nodes[i].IsStart, loaded.Nodes[i].IsStart)
		}
		assert.Equal(t, "teal", loaded.Nodes[1].Extra["color"])
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, domain.NewFlowData()))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Len(t, loaded.Nodes, 1)
		assert.Empty(t, loaded.Edges)
	})

	t.Run("Load Isolation", func(t *testing.T) {
		doc := contractFlow()
		require.NoError(t, store.Save(ctx, name, doc))
		doc.Nodes[0].Name = "mutated after save"

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "Start", loaded.Nodes[0].Name)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrFlowNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, name, domain.NewFlowData())
		require.NoError(t, err)

		err = store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrFlowNotFound, "Load after Delete should return ErrFlowNotFound")

		assert.NoError(t, store.Delete(ctx, name), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-1"
		id2 := name + "-2"
		_ = store.Save(ctx, id1, domain.NewFlowData())
		_ = store.Save(ctx, id2, domain.NewFlowData())

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
	})
}
