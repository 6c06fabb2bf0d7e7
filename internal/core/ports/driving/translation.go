package driving

import (
	"context"

	"github.com/custodia-labs/polyglot/internal/core/domain"
)

// TranslationService translates text through a cache.
type TranslationService interface {
	// Translate returns text in target. Identical source and target return
	// text unchanged without touching the cache. Failures wrap
	// domain.ErrTranslationUnavailable.
	Translate(ctx context.Context, text string, source, target domain.Language, cultural bool) (string, error)

	// Clear drops every cached entry and resets the counters.
	Clear(ctx context.Context) error

	// Size returns the number of cached entries.
	Size(ctx context.Context) (int, error)

	// Stats returns hits, misses and size since the last clear.
	Stats(ctx context.Context) domain.CacheStats
}
