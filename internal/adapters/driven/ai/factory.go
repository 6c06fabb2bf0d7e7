// Package ai builds the embedding, generation and translation providers
// from settings and wraps them with retries and request pacing.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/polyglot/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/polyglot/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/polyglot/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/polyglot/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/polyglot/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/polyglot/internal/adapters/driven/translator"
	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
	"github.com/custodia-labs/polyglot/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Services holds the providers built from settings. Any field may be nil
// when its provider is not configured.
type Services struct {
	Embedding  driven.EmbeddingService
	LLM        driven.LLMService
	Translator driven.Translator

	// Warnings lists providers that could not be built.
	Warnings []string
}

// Close releases all resources held by the services.
func (s *Services) Close() {
	if s.Embedding != nil {
		_ = s.Embedding.Close()
	}
	if s.LLM != nil {
		_ = s.LLM.Close()
	}
}

// Build creates every configured provider. A provider that cannot be
// built is left nil with a warning so commands that do not need it still
// run; callers surface the matching unavailable error when they do.
// Translation runs on the generation model.
func Build(settings *domain.AppSettings, prompts driven.PromptStore) *Services {
	policy := RetryPolicyFrom(settings.Providers)
	timeout := settings.Providers.Timeout
	out := &Services{}

	embedding, err := CreateEmbeddingService(&settings.Embedding, timeout)
	switch {
	case err != nil:
		out.Warnings = append(out.Warnings, fmt.Sprintf("embedding: %v", err))
	case embedding != nil:
		out.Embedding = NewRetryingEmbedding(embedding, policy)
	}

	llm, err := CreateLLMService(&settings.LLM, timeout)
	switch {
	case err != nil:
		out.Warnings = append(out.Warnings, fmt.Sprintf("llm: %v", err))
	case llm != nil:
		// Translation wraps the raw model so a retried translation is not
		// retried again one layer down.
		out.Translator = NewRetryingTranslator(translator.New(llm, prompts), policy)
		out.LLM = NewRetryingLLM(llm, policy)
	}

	for _, w := range out.Warnings {
		logger.Warn("%s", w)
	}
	return out
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'polyglot settings set embedding.provider' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'polyglot settings set llm.provider' to fix",
			domain.ErrLLMUnavailable, err)
	}
	return svc, nil
}

// CreateEmbeddingService creates the embedding service for settings.
// Returns nil if the provider is not configured. A zero timeout uses the
// adapter default.
func CreateEmbeddingService(settings *domain.EmbeddingSettings, timeout time.Duration) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		})

	default:
		return nil, fmt.Errorf("%s does not support embeddings, use ollama or openai", settings.Provider)
	}
}

// CreateLLMService creates the LLM service for settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings, timeout time.Duration) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		})

	case domain.AIProviderGroq:
		baseURL := settings.BaseURL
		if baseURL == "" {
			baseURL = openaillm.GroqBaseURL
		}
		return openaillm.NewLLMService(openaillm.LLMConfig{
			Name:    string(domain.AIProviderGroq),
			APIKey:  settings.APIKey,
			BaseURL: baseURL,
			Model:   settings.Model,
			Timeout: timeout,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
