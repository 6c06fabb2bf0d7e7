package driving

import (
	"context"

	"github.com/custodia-labs/polyglot/internal/core/domain"
)

// RAGService answers questions against the ingested documents.
type RAGService interface {
	// Answer runs retrieval and generation for one query.
	// It never returns a raw error: failures are OutcomeFailed results
	// carrying a classified ErrorKind.
	Answer(ctx context.Context, query domain.Query) domain.Result
}
