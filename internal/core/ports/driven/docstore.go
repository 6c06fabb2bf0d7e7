package driven

import (
	"context"

	"github.com/custodia-labs/polyglot/internal/core/domain"
)

// DocumentStore persists ingested document records. Content is not stored;
// the chunks live in the VectorStore.
type DocumentStore interface {
	// SaveDocument stores or replaces a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if absent.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// DeleteDocument removes a document. Missing IDs are not an error.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns all documents ordered by name.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// Clear removes every document.
	Clear(ctx context.Context) error
}
