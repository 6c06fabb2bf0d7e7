package ai

import (
	"context"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator validates provider settings by building the provider
// and pinging it.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding pings the embedding provider.
func (v *ConfigValidator) ValidateEmbedding(ctx context.Context, config *domain.EmbeddingSettings) error {
	svc, err := CreateAndValidateEmbeddingService(ctx, config)
	if svc != nil {
		_ = svc.Close()
	}
	return err
}

// ValidateLLM pings the generation provider.
func (v *ConfigValidator) ValidateLLM(ctx context.Context, config *domain.LLMSettings) error {
	svc, err := CreateAndValidateLLMService(ctx, config)
	if svc != nil {
		_ = svc.Close()
	}
	return err
}
