package flowcraft

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/flowcraft/internal/logging"
	"github.com/aretw0/flowcraft/pkg/domain"
	"github.com/aretw0/flowcraft/pkg/observability"
	"github.com/aretw0/flowcraft/pkg/ports"
	"github.com/aretw0/flowcraft/pkg/serializer"
	"github.com/aretw0/flowcraft/pkg/store"
	"github.com/aretw0/flowcraft/pkg/validator"
)

// ErrNoDocumentStore is returned by Save and Open when the editor was built without one.
var ErrNoDocumentStore = errors.New("no document store configured")

// Editor is the high-level entry point of the library.
// It owns a graph store and keeps the validation result current: every structural
// change re-runs the validator before other subscribers are notified.
type Editor struct {
	*store.Store

	mu   sync.RWMutex
	errs []domain.ValidationError

	storeOpts []store.Option
	metrics   *observability.Metrics
	docs      ports.DocumentStore
	flowName  string
	logger    *slog.Logger
}

// New creates an editor holding a fresh flow with only the start node.
func New(opts ...Option) *Editor {
	e := &Editor{flowName: DefaultFlowName}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}

	e.Store = store.New(append([]store.Option{store.WithLogger(e.logger)}, e.storeOpts...)...)
	// first subscriber: validation is fresh by the time any other observer runs
	e.Store.Subscribe(e.onChange)
	e.revalidate()
	return e
}

func (e *Editor) onChange(ev domain.ChangeEvent) {
	if !ev.Structural {
		return
	}
	if e.metrics != nil {
		e.metrics.ObserveMutation(string(ev.Type))
	}
	e.revalidate()
}

// revalidate holds mu while taking the snapshot, so the last call always stores
// the errors of the newest graph.
func (e *Editor) revalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc := e.Store.Export()
	e.errs = validator.ValidateFlow(doc)
	if e.metrics != nil {
		e.metrics.SetGraph(len(doc.Nodes), len(doc.Edges), len(e.errs))
	}
}

// Errors returns the validation errors of the current graph.
func (e *Editor) Errors() []domain.ValidationError {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]domain.ValidationError, len(e.errs))
	copy(out, e.errs)
	return out
}

// NodeErrors returns the validation errors attached to one node.
func (e *Editor) NodeErrors(id string) []domain.ValidationError {
	return validator.ForNode(e.Errors(), id)
}

// Valid reports whether the current graph has no validation errors.
func (e *Editor) Valid() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.errs) == 0
}

// Import replaces the flow with the document in data.
// A malformed document leaves the current flow untouched.
func (e *Editor) Import(data []byte, f serializer.Format) error {
	doc, err := serializer.Decode(data, f)
	if err == nil {
		err = e.Store.Load(doc)
	}
	if e.metrics != nil {
		e.metrics.ObserveImport(err)
	}
	if err != nil {
		e.logger.Warn("import rejected", "format", f, "err", err)
		return err
	}
	e.logger.Info("flow imported", "nodes", len(doc.Nodes), "edges", len(doc.Edges))
	return nil
}

// ExportBytes encodes the current flow in the given format.
func (e *Editor) ExportBytes(f serializer.Format) ([]byte, error) {
	return serializer.Encode(e.Store.Export(), f)
}

// FlowName returns the document name Save writes to.
func (e *Editor) FlowName() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.flowName
}

// Metrics returns the configured metrics, or nil.
func (e *Editor) Metrics() *observability.Metrics {
	return e.metrics
}

// Save writes the current flow to the document store under FlowName.
func (e *Editor) Save(ctx context.Context) error {
	if e.docs == nil {
		return ErrNoDocumentStore
	}
	name := e.FlowName()
	if err := e.docs.Save(ctx, name, e.Store.Export()); err != nil {
		return fmt.Errorf("save flow %q: %w", name, err)
	}
	e.logger.Info("flow saved", "flow", name)
	return nil
}

// Open loads the named flow from the document store and makes it the Save target.
func (e *Editor) Open(ctx context.Context, name string) error {
	if e.docs == nil {
		return ErrNoDocumentStore
	}
	doc, err := e.docs.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("open flow %q: %w", name, err)
	}
	if err := e.Store.Load(doc); err != nil {
		return fmt.Errorf("open flow %q: %w", name, err)
	}

	e.mu.Lock()
	e.flowName = name
	e.mu.Unlock()

	e.logger.Info("flow opened", "flow", name)
	return nil
}
