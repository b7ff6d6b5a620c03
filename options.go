package flowcraft

import (
	"log/slog"

	"github.com/aretw0/flowcraft/pkg/observability"
	"github.com/aretw0/flowcraft/pkg/ports"
	"github.com/aretw0/flowcraft/pkg/store"
)

// DefaultFlowName is the document name used by Save when none was configured.
const DefaultFlowName = "default"

// Option defines a functional option for configuring the Editor.
type Option func(*Editor)

// WithLogger sets a custom structured logger for the editor and its store.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithIDGenerator sets the generator of new node and edge id suffixes.
func WithIDGenerator(gen store.IDGenerator) Option {
	return func(e *Editor) {
		e.storeOpts = append(e.storeOpts, store.WithIDGenerator(gen))
	}
}

// WithPositioner sets how added nodes are placed on the canvas.
func WithPositioner(p store.Positioner) Option {
	return func(e *Editor) {
		e.storeOpts = append(e.storeOpts, store.WithPositioner(p))
	}
}

// WithMetrics records mutations, imports and graph size on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Editor) {
		e.metrics = m
	}
}

// WithDocumentStore enables Save and Open against the given store.
func WithDocumentStore(docs ports.DocumentStore) Option {
	return func(e *Editor) {
		e.docs = docs
	}
}

// WithFlowName sets the document name Save writes to.
func WithFlowName(name string) Option {
	return func(e *Editor) {
		if name != "" {
			e.flowName = name
		}
	}
}
