package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/flowcraft"
	"github.com/aretw0/flowcraft/pkg/domain"
	"github.com/aretw0/flowcraft/pkg/serializer"
	"github.com/go-chi/chi/v5"
)

// GetFlow handles GET /flow. ?format=yaml selects YAML.
func (s *Server) GetFlow(w http.ResponseWriter, r *http.Request) {
	f, err := serializer.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeDocument(w, f)
}

// DownloadFlow handles GET /flow/download.
func (s *Server) DownloadFlow(w http.ResponseWriter, r *http.Request) {
	name := serializer.ExportFileName(time.Now())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	s.writeDocument(w, serializer.FormatJSON)
}

func (s *Server) writeDocument(w http.ResponseWriter, f serializer.Format) {
	data, err := s.Editor.ExportBytes(f)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.Write(data)
}

// PutFlow handles PUT /flow. The format comes from ?format or the Content-Type.
func (s *Server) PutFlow(w http.ResponseWriter, r *http.Request) {
	f, err := requestFormat(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}
	if err := s.Editor.Import(data, f); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.GetValidation(w, r)
}

func requestFormat(r *http.Request) (serializer.Format, error) {
	if q := r.URL.Query().Get("format"); q != "" {
		return serializer.ParseFormat(q)
	}
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		return serializer.FormatYAML, nil
	}
	return serializer.FormatJSON, nil
}

// GetPalette handles GET /palette.
func (s *Server) GetPalette(w http.ResponseWriter, r *http.Request) {
	out := make([]paletteEntry, 0, len(domain.PaletteTypes))
	for _, t := range domain.PaletteTypes {
		out = append(out, paletteEntry{Type: t, Label: t.Label(), DefaultName: t.DefaultName()})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// AddNode handles POST /nodes.
func (s *Server) AddNode(w http.ResponseWriter, r *http.Request) {
	var req addNodeRequest
	if !s.decode(w, r, &req) {
		return
	}
	n, err := s.Editor.AddNode(req.Type)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, n)
}

// GetNode handles GET /nodes/{id}.
func (s *Server) GetNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n, ok := s.Editor.Node(id)
	if !ok {
		s.writeDomainError(w, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id))
		return
	}
	s.writeJSON(w, http.StatusOK, n)
}

// UpdateNode handles PATCH /nodes/{id}.
func (s *Server) UpdateNode(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	var patch map[string]any
	if err := dec.Decode(&patch); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	n, err := s.Editor.UpdateNode(chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, n)
}

// DeleteNode handles DELETE /nodes/{id}. The start node answers 409.
func (s *Server) DeleteNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if s.Editor.DeleteNode(id) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if _, ok := s.Editor.Node(id); ok {
		s.writeError(w, http.StatusConflict, fmt.Errorf("node %s is the start node and cannot be deleted", id))
		return
	}
	s.writeDomainError(w, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id))
}

// GetNodeErrors handles GET /nodes/{id}/errors.
func (s *Server) GetNodeErrors(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.Editor.Node(id); !ok {
		s.writeDomainError(w, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id))
		return
	}
	errs := s.Editor.NodeErrors(id)
	if errs == nil {
		errs = []domain.ValidationError{}
	}
	s.writeJSON(w, http.StatusOK, errs)
}

// ApplyNodeChanges handles POST /nodes/changes.
func (s *Server) ApplyNodeChanges(w http.ResponseWriter, r *http.Request) {
	var req nodeChangesRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.Editor.ApplyNodeChanges(req.Changes)
	w.WriteHeader(http.StatusNoContent)
}

// Connect handles POST /edges.
func (s *Server) Connect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if !s.decode(w, r, &req) {
		return
	}
	e := s.Editor.Connect(domain.Connection{Source: req.Source, Target: req.Target, Label: req.Label})
	s.writeJSON(w, http.StatusCreated, e)
}

// DeleteEdge handles DELETE /edges/{id}.
func (s *Server) DeleteEdge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.Editor.DeleteEdge(id) {
		s.writeDomainError(w, fmt.Errorf("%w: %s", domain.ErrEdgeNotFound, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyEdgeChanges handles POST /edges/changes.
func (s *Server) ApplyEdgeChanges(w http.ResponseWriter, r *http.Request) {
	var req edgeChangesRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.Editor.ApplyEdgeChanges(req.Changes)
	w.WriteHeader(http.StatusNoContent)
}

// GetSelection handles GET /selection.
func (s *Server) GetSelection(w http.ResponseWriter, r *http.Request) {
	focused, _ := s.Editor.SelectedNodeID()
	s.writeJSON(w, http.StatusOK, selectionResponse{
		NodeID: focused,
		Nodes:  s.Editor.SelectedNodeIDs(),
		Edges:  s.Editor.SelectedEdgeIDs(),
	})
}

// Select handles PUT /selection.
func (s *Server) Select(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.Editor.Select(req.NodeID); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearSelection handles DELETE /selection.
func (s *Server) ClearSelection(w http.ResponseWriter, r *http.Request) {
	s.Editor.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

// GetValidation handles GET /validation.
func (s *Server) GetValidation(w http.ResponseWriter, r *http.Request) {
	errs := s.Editor.Errors()
	s.writeJSON(w, http.StatusOK, validationResponse{Valid: len(errs) == 0, Errors: errs})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "flowcraft-http",
		"version":     flowcraft.Version,
		"api_version": apiVersion,
	})
}

// SubscribeEvents handles GET /events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE: client connected", "clients", s.Streams.Len())

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// -- Helpers --

// decode reads a JSON body into req and validates it, answering 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	if details := check(req); len(details) > 0 {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request", Details: details})
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "err", err)
	} else {
		s.logger.Debug("request rejected", "status", status, "err", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeDomainError maps sentinel errors to status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNodeNotFound),
		errors.Is(err, domain.ErrEdgeNotFound),
		errors.Is(err, domain.ErrFlowNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidDocument),
		errors.Is(err, domain.ErrInvalidPatch),
		errors.Is(err, domain.ErrUnknownNodeType),
		errors.Is(err, domain.ErrDuplicateID):
		status = http.StatusBadRequest
	}
	s.writeError(w, status, err)
}
