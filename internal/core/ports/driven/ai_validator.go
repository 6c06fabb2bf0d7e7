package driven

import (
	"context"

	"github.com/custodia-labs/polyglot/internal/core/domain"
)

// AIConfigValidator checks provider settings before they are saved.
// Implementations build the provider and ping it.
type AIConfigValidator interface {
	// ValidateEmbedding pings the embedding provider.
	// Returns nil if the provider is reachable or not configured.
	ValidateEmbedding(ctx context.Context, config *domain.EmbeddingSettings) error

	// ValidateLLM pings the generation provider.
	// Returns nil if the provider is reachable or not configured.
	ValidateLLM(ctx context.Context, config *domain.LLMSettings) error
}
