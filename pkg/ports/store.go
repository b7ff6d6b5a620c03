package ports

import (
	"context"

	"github.com/aretw0/flowcraft/pkg/domain"
)

// DocumentStore persists flow documents by name.
// Implementations store the canonical document only; view state is never persisted.
type DocumentStore interface {
	// Save writes the document under name, replacing any previous version.
	Save(ctx context.Context, name string, doc *domain.FlowData) error

	// Load retrieves the document stored under name.
	// Returns domain.ErrFlowNotFound if there is none.
	Load(ctx context.Context, name string) (*domain.FlowData, error)

	// Delete removes the document. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of stored documents.
	List(ctx context.Context) ([]string, error)
}
