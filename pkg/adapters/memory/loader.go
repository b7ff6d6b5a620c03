package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/flowcraft/pkg/domain"
	"github.com/aretw0/flowcraft/pkg/serializer"
)

// Loader implements ports.DocumentLoader over a fixed set of documents,
// such as built-in templates.
type Loader struct {
	docs map[string][]byte
}

// NewLoader creates a Loader from raw JSON documents keyed by name.
func NewLoader(data map[string]string) *Loader {
	docs := make(map[string][]byte, len(data))
	for k, v := range data {
		docs[k] = []byte(v)
	}
	return &Loader{docs: docs}
}

// NewFromDocs creates a Loader from domain documents.
// This handles serialization automatically.
func NewFromDocs(docs map[string]*domain.FlowData) (*Loader, error) {
	data := make(map[string][]byte, len(docs))
	for name, doc := range docs {
		if name == "" {
			return nil, fmt.Errorf("document missing name")
		}
		b, err := serializer.Encode(doc, serializer.FormatJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", name, err)
		}
		data[name] = b
	}
	return &Loader{docs: data}, nil
}

// Load decodes the named document.
func (l *Loader) Load(ctx context.Context, name string) (*domain.FlowData, error) {
	raw, ok := l.docs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFlowNotFound, name)
	}
	return serializer.Decode(raw, serializer.FormatJSON)
}

// List returns all document names, sorted.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(l.docs))
	for name := range l.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
