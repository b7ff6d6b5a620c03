package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aretw0/flowcraft"
	"github.com/aretw0/flowcraft/internal/logging"
	"github.com/aretw0/flowcraft/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes caps request bodies, imported documents included.
const maxBodyBytes = 4 << 20

// Server serves the editor API.
type Server struct {
	Editor  *flowcraft.Editor
	Streams *StreamManager

	router      chi.Router
	logger      *slog.Logger
	unsubscribe func()
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger used for request errors and SSE.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates the API for ed and starts forwarding its change events to SSE clients.
// Call Close to detach it from the editor.
func NewServer(ed *flowcraft.Editor, opts ...Option) *Server {
	s := &Server{
		Editor: ed,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	s.router = s.routes()
	s.unsubscribe = ed.Subscribe(s.forward)
	return s
}

// NewHandler is NewServer for callers that only need the handler.
func NewHandler(ed *flowcraft.Editor, opts ...Option) http.Handler {
	return NewServer(ed, opts...)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops forwarding editor events and disconnects SSE clients.
func (s *Server) Close() {
	s.unsubscribe()
	s.Streams.Close()
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(enableCORS)

	r.Route("/flow", func(r chi.Router) {
		r.Get("/", s.GetFlow)
		r.Put("/", s.PutFlow)
		r.Get("/download", s.DownloadFlow)
	})
	r.Get("/palette", s.GetPalette)

	r.Route("/nodes", func(r chi.Router) {
		r.Post("/", s.AddNode)
		r.Post("/changes", s.ApplyNodeChanges)
		r.Get("/{id}", s.GetNode)
		r.Patch("/{id}", s.UpdateNode)
		r.Delete("/{id}", s.DeleteNode)
		r.Get("/{id}/errors", s.GetNodeErrors)
	})
	r.Route("/edges", func(r chi.Router) {
		r.Post("/", s.Connect)
		r.Post("/changes", s.ApplyEdgeChanges)
		r.Delete("/{id}", s.DeleteEdge)
	})
	r.Route("/selection", func(r chi.Router) {
		r.Get("/", s.GetSelection)
		r.Put("/", s.Select)
		r.Delete("/", s.ClearSelection)
	})

	r.Get("/validation", s.GetValidation)
	r.Get("/events", s.SubscribeEvents)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if m := s.Editor.Metrics(); m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Flowcraft API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// streamEvent is the SSE payload: the change plus the validation error count after it.
type streamEvent struct {
	domain.ChangeEvent
	ValidationErrors int `json:"validation_errors"`
}

func (s *Server) forward(ev domain.ChangeEvent) {
	b, err := json.Marshal(streamEvent{ChangeEvent: ev, ValidationErrors: len(s.Editor.Errors())})
	if err != nil {
		s.logger.Error("SSE: encode event", "err", err)
		return
	}
	s.Streams.Broadcast(string(b))
}
