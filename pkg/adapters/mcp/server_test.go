package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/flowcraft"
	"github.com/aretw0/flowcraft/internal/idgen"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(flowcraft.New(flowcraft.WithIDGenerator(idgen.NewSequence(0))))
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestTools_BuildFlow(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleAddNode(ctx, call("add_node", map[string]any{"type": "message"}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	var node map[string]any
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &node))
	assert.Equal(t, "node-1", node["id"])

	res, err = s.handleUpdateNode(ctx, call("update_node", map[string]any{
		"node_id": "node-1",
		"patch":   map[string]any{"message": "Welcome!"},
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError, text(t, res))

	res, err = s.handleConnect(ctx, call("connect", map[string]any{"source": "start-node", "target": "node-1"}))
	require.NoError(t, err)
	assert.Contains(t, text(t, res), `"id":"edge-2"`)

	v, err := s.handleValidate(ctx, call("validate", nil), nil)
	require.NoError(t, err)
	assert.True(t, v.Valid)

	res, err = s.handleExport(ctx, call("export_flow", map[string]any{"format": "yaml"}))
	require.NoError(t, err)
	assert.Contains(t, text(t, res), "message: Welcome!")

	res, err = s.handleDeleteEdge(ctx, call("delete_edge", map[string]any{"edge_id": "edge-2"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	v, err = s.handleValidate(ctx, call("validate", nil), nil)
	require.NoError(t, err)
	assert.False(t, v.Valid)
	require.Len(t, v.Errors, 1)
	assert.Equal(t, "connection", v.Errors[0].Field)
}

func TestTools_Errors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]any
	}{
		{"Start Type", s.handleAddNode, map[string]any{"type": "start"}},
		{"Missing Type", s.handleAddNode, map[string]any{}},
		{"Unknown Node", s.handleUpdateNode, map[string]any{"node_id": "ghost", "patch": map[string]any{}}},
		{"Patch Not Object", s.handleUpdateNode, map[string]any{"node_id": "start-node", "patch": 3}},
		{"Bad Patch Shape", s.handleUpdateNode, map[string]any{"node_id": "start-node", "patch": `{"name": 1}`}},
		{"Delete Start", s.handleDeleteNode, map[string]any{"node_id": "start-node"}},
		{"Delete Unknown", s.handleDeleteNode, map[string]any{"node_id": "ghost"}},
		{"Connect Without Target", s.handleConnect, map[string]any{"source": "a"}},
		{"Unknown Edge", s.handleDeleteEdge, map[string]any{"edge_id": "ghost"}},
		{"Bad Format", s.handleExport, map[string]any{"format": "xml"}},
		{"Bad Document", s.handleImport, map[string]any{"document": `{"nodes":[]}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.handler(ctx, call("", tt.args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
		})
	}

	nodes, _ := s.editor.Len()
	assert.Equal(t, 1, nodes)
}

func TestImportAndResource(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	doc := `{"nodes":[{"id":"start-node","type":"start","name":"Start","position":{"x":250,"y":50},"isStart":true},` +
		`{"id":"c","type":"condition","name":"Adult?","position":{"x":0,"y":0},"condition":"age >= 18"}],` +
		`"edges":[{"id":"e1","source":"start-node","target":"c"}]}`

	res, err := s.handleImport(ctx, call("import_flow", map[string]any{"document": doc}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	assert.Equal(t, "imported 2 nodes and 1 edges, 0 validation errors", text(t, res))

	contents, err := s.readFlow(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	tc, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, FlowURI, tc.URI)
	assert.JSONEq(t, doc, tc.Text)
}

func TestPatchArgument(t *testing.T) {
	m, err := patchArgument(`{"name":"x"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "x"}, m)

	_, err = patchArgument(`[1]`)
	assert.Error(t, err)

	_, err = patchArgument(nil)
	assert.Error(t, err)
}
