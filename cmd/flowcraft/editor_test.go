package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/flowcraft/pkg/adapters/memory"
	"github.com/aretw0/flowcraft/pkg/domain"
	"github.com/aretw0/flowcraft/pkg/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEditor(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing Flow Starts Fresh", func(t *testing.T) {
		ed, err := newEditor(ctx, memory.NewStore(), nil, "")
		require.NoError(t, err)
		assert.Len(t, ed.Nodes(), 1)
	})

	t.Run("File Wins Over Store", func(t *testing.T) {
		docs := memory.NewStore()
		require.NoError(t, docs.Save(ctx, "default", domain.NewFlowData()))

		path := filepath.Join(t.TempDir(), "flow.json")
		doc := domain.NewFlowData()
		doc.Nodes = append(doc.Nodes, domain.Node{ID: "m", Name: "M", Payload: domain.MessagePayload{Message: "hi"}})
		require.NoError(t, serializer.WriteFile(path, doc))

		ed, err := newEditor(ctx, docs, nil, path)
		require.NoError(t, err)
		assert.Len(t, ed.Nodes(), 2)
	})

	t.Run("Bad File", func(t *testing.T) {
		_, err := newEditor(ctx, memory.NewStore(), nil, filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})
}

func TestStartAutosave(t *testing.T) {
	ctx := context.Background()
	docs := memory.NewStore()
	ed, err := newEditor(ctx, docs, nil, "")
	require.NoError(t, err)

	stop := startAutosave(ed)
	_, err = ed.AddNode(domain.NodeTypeMessage)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		doc, err := docs.Load(ctx, ed.FlowName())
		return err == nil && len(doc.Nodes) == 2
	}, time.Second, 10*time.Millisecond)

	ed.Connect(domain.Connection{Source: domain.StartNodeID, Target: "x"})
	stop()

	doc, err := docs.Load(ctx, ed.FlowName())
	require.NoError(t, err)
	assert.Len(t, doc.Edges, 1)
}
