package loam

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/flowcraft/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestLoader_ListAndLoad(t *testing.T) {
	dir := seed(t, map[string]string{
		"welcome.json": `{
  "nodes": [
    {"id": "start-node", "type": "start", "name": "Start", "position": {"x": 250, "y": 50}, "isStart": true},
    {"id": "hi", "type": "message", "name": "Hi", "position": {"x": 250, "y": 170}, "message": "Hello!"}
  ],
  "edges": [{"id": "e1", "source": "start-node", "target": "hi"}]
}`,
		"survey.md": `---
title: Customer survey
nodes:
  - id: start-node
    type: start
    name: Start
    isStart: true
  - id: ask
    type: question
    name: Ask
    question: How was it?
    variable: rating
edges:
  - id: e1
    source: start-node
    target: ask
---
Asks a single rating question.`,
	})

	loader, err := Open(dir)
	require.NoError(t, err)
	ctx := context.Background()

	names, err := loader.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"survey", "welcome"}, names)

	doc, err := loader.Load(ctx, "welcome")
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 2)
	assert.Equal(t, domain.MessagePayload{Message: "Hello!"}, doc.Nodes[1].Payload)
	assert.Equal(t, domain.Position{X: 250, Y: 170}, doc.Nodes[1].Position)
	assert.True(t, doc.Nodes[0].IsStart)

	flow, err := loader.Get(ctx, "survey")
	require.NoError(t, err)
	assert.Equal(t, "Customer survey", flow.Title)
	assert.Equal(t, "Asks a single rating question.", flow.Description)
	assert.Equal(t, domain.QuestionPayload{Question: "How was it?", Variable: "rating"}, flow.Doc.Nodes[1].Payload)
	assert.Equal(t, []domain.Edge{{ID: "e1", Source: "start-node", Target: "ask"}}, flow.Doc.Edges)
}

func TestLoader_InvalidDocument(t *testing.T) {
	dir := seed(t, map[string]string{
		"partial.json": `{"nodes": []}`,
	})
	loader, err := Open(dir)
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), "partial")
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}

func TestLoader_Missing(t *testing.T) {
	loader, err := Open(t.TempDir())
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrFlowNotFound)
}

func TestTrimExtension(t *testing.T) {
	assert.Equal(t, "a/b", trimExtension("a/b.json"))
	assert.Equal(t, "plain", trimExtension("plain"))
}
