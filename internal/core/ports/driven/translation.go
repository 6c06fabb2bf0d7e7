package driven

import (
	"context"

	"github.com/custodia-labs/polyglot/internal/core/domain"
)

// Translator is the external translation capability.
// Failures should be *domain.ProviderError so callers can classify them.
type Translator interface {
	Translate(ctx context.Context, req domain.TranslationRequest) (string, error)
}

// TranslationStore holds translation cache entries.
// Put is last-write-wins per key.
type TranslationStore interface {
	// Get returns the entry for key, or false on a miss.
	Get(ctx context.Context, key domain.TranslationKey) (domain.TranslationEntry, bool, error)

	// Put stores an entry.
	Put(ctx context.Context, entry domain.TranslationEntry) error

	// Clear removes every entry.
	Clear(ctx context.Context) error

	// Len returns the number of entries.
	Len(ctx context.Context) (int, error)
}
