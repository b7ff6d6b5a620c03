package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/flowcraft/pkg/domain"
	"github.com/aretw0/loam"
)

// Loader adapts a Loam repository to the ports.DocumentLoader interface.
// Each document in the repository is one flow, named after its file without extension.
type Loader struct {
	Repo *loam.TypedRepository[FlowMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[FlowMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository at dir and wraps it in a Loader.
// Strict mode keeps numbers as json.Number/int64 instead of float64.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
		loam.WithVersioning(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[FlowMetadata](repo)), nil
}

// Flow is a library entry with its description.
type Flow struct {
	Name        string
	Title       string
	Description string
	Doc         *domain.FlowData
}

// Get retrieves a flow with its title and description.
func (l *Loader) Get(ctx context.Context, name string) (*Flow, error) {
	doc, err := l.Repo.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: loam get failed for %s: %v", domain.ErrFlowNotFound, name, err)
	}

	raw := map[string]any{}
	if doc.Data.Nodes != nil {
		raw["nodes"] = doc.Data.Nodes
	}
	if doc.Data.Edges != nil {
		raw["edges"] = doc.Data.Edges
	}
	flow, err := domain.FlowDataFromMap(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return &Flow{
		Name:        trimExtension(name),
		Title:       doc.Data.Title,
		Description: strings.TrimSpace(doc.Content),
		Doc:         flow,
	}, nil
}

// Load retrieves and decodes the named flow.
func (l *Loader) Load(ctx context.Context, name string) (*domain.FlowData, error) {
	f, err := l.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return f.Doc, nil
}

// List lists all flows in the repository, sorted.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	names := make([]string, 0, len(docs))

	for _, doc := range docs {
		name := trimExtension(doc.ID)

		if existingPath, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: flow '%s' is defined in both '%s' and '%s'", name, existingPath, doc.ID)
		}
		seen[name] = doc.ID
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
