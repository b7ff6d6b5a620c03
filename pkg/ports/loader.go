package ports

import (
	"context"

	"github.com/aretw0/flowcraft/pkg/domain"
)

// DocumentLoader provides read-only access to a library of flow documents.
// This allows the source (Loam directory, embedded templates) to be decoupled.
type DocumentLoader interface {
	// Load retrieves and decodes the named flow.
	Load(ctx context.Context, name string) (*domain.FlowData, error)

	// List returns the names of all flows in the library.
	List(ctx context.Context) ([]string, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
type Watchable interface {
	// Watch returns a channel that receives the name of each changed flow.
	Watch(ctx context.Context) (<-chan string, error)
}
