package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/flowcraft"
	"github.com/aretw0/flowcraft/internal/logging"
	"github.com/aretw0/flowcraft/pkg/domain"
	"github.com/aretw0/flowcraft/pkg/serializer"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// FlowURI is the resource holding the current flow document.
const FlowURI = "flowcraft://flow"

// ValidationResponse is the structured result of the validate tool.
type ValidationResponse struct {
	Valid  bool                     `json:"valid" jsonschema_description:"True when the flow has no validation errors"`
	Errors []domain.ValidationError `json:"errors" jsonschema_description:"Required-field and connectivity problems, per node"`
}

// Server wraps an Editor and exposes it as an MCP Server.
type Server struct {
	editor    *flowcraft.Editor
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(ed *flowcraft.Editor, opts ...Option) *Server {
	s := &Server{
		editor:    ed,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("flowcraft-mcp", flowcraft.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("add_node",
		mcp.WithDescription("Add a node of the given type. It gets a fresh id, the default name and empty fields."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Node type"),
			mcp.Enum("message", "question", "set_variable", "condition", "api")),
	), s.handleAddNode)

	s.mcpServer.AddTool(mcp.NewTool("update_node",
		mcp.WithDescription("Shallow-merge fields into a node, e.g. {\"message\": \"Hi\"}. id, type and isStart are ignored."),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Node to update")),
		mcp.WithObject("patch", mcp.Required(), mcp.Description("Fields to set")),
	), s.handleUpdateNode)

	s.mcpServer.AddTool(mcp.NewTool("delete_node",
		mcp.WithDescription("Delete a node and every edge touching it. The start node cannot be deleted."),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Node to delete")),
	), s.handleDeleteNode)

	s.mcpServer.AddTool(mcp.NewTool("connect",
		mcp.WithDescription("Add a directed edge between two nodes."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Source node id")),
		mcp.WithString("target", mcp.Required(), mcp.Description("Target node id")),
		mcp.WithString("label", mcp.Description("Optional edge label")),
	), s.handleConnect)

	s.mcpServer.AddTool(mcp.NewTool("delete_edge",
		mcp.WithDescription("Delete an edge."),
		mcp.WithString("edge_id", mcp.Required(), mcp.Description("Edge to delete")),
	), s.handleDeleteEdge)

	s.mcpServer.AddTool(mcp.NewTool("validate",
		mcp.WithDescription("Validate the current flow."),
		mcp.WithOutputSchema[ValidationResponse](),
	), mcp.NewStructuredToolHandler(s.handleValidate))

	s.mcpServer.AddTool(mcp.NewTool("export_flow",
		mcp.WithDescription("Export the current flow as a document."),
		mcp.WithString("format", mcp.Description("Document format (default json)"), mcp.Enum("json", "yaml")),
	), s.handleExport)

	s.mcpServer.AddTool(mcp.NewTool("import_flow",
		mcp.WithDescription("Replace the current flow with a document. A malformed document changes nothing."),
		mcp.WithString("document", mcp.Required(), mcp.Description("The flow document")),
		mcp.WithString("format", mcp.Description("Document format (default json)"), mcp.Enum("json", "yaml")),
	), s.handleImport)
}

func (s *Server) handleAddNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t, err := request.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.editor.AddNode(domain.NodeType(t))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("add node failed: %v", err)), nil
	}
	return jsonResult(n)
}

func (s *Server) handleUpdateNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("node_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	patch, err := patchArgument(request.GetArguments()["patch"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.editor.UpdateNode(id, patch)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("update node failed: %v", err)), nil
	}
	return jsonResult(n)
}

// patchArgument accepts the patch as an object or as a JSON-encoded object.
func patchArgument(v any) (map[string]any, error) {
	switch p := v.(type) {
	case map[string]any:
		return p, nil
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(p), &m); err != nil {
			return nil, fmt.Errorf("patch is not a JSON object: %w", err)
		}
		return m, nil
	default:
		return nil, errors.New("patch must be an object")
	}
}

func (s *Server) handleDeleteNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("node_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !s.editor.DeleteNode(id) {
		if n, ok := s.editor.Node(id); ok && n.IsStart {
			return mcp.NewToolResultError("the start node cannot be deleted"), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("%v: %s", domain.ErrNodeNotFound, id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted node %s", id)), nil
}

func (s *Server) handleConnect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := request.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target, err := request.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	e := s.editor.Connect(domain.Connection{
		Source: source,
		Target: target,
		Label:  request.GetString("label", ""),
	})
	return jsonResult(e)
}

func (s *Server) handleDeleteEdge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("edge_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !s.editor.DeleteEdge(id) {
		return mcp.NewToolResultError(fmt.Sprintf("%v: %s", domain.ErrEdgeNotFound, id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted edge %s", id)), nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ValidationResponse, error) {
	errs := s.editor.Errors()
	return ValidationResponse{Valid: len(errs) == 0, Errors: errs}, nil
}

func (s *Server) handleExport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, err := serializer.ParseFormat(request.GetString("format", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.editor.ExportBytes(f)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleImport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := request.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	f, err := serializer.ParseFormat(request.GetString("format", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.editor.Import([]byte(doc), f); err != nil {
		s.logger.Warn("MCP import rejected", "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("import failed: %v", err)), nil
	}
	nodes, edges := s.editor.Len()
	return mcp.NewToolResultText(fmt.Sprintf("imported %d nodes and %d edges, %d validation errors",
		nodes, edges, len(s.editor.Errors()))), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(FlowURI, "Current Flow Document",
		mcp.WithMIMEType("application/json"),
	), s.readFlow)
}

func (s *Server) readFlow(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := s.editor.ExportBytes(serializer.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to export flow: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FlowURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}
