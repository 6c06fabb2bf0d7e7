package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/polyglot/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/polyglot/internal/core/domain"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	service := NewSettingsService(memory.NewConfigStore(), nil)

	settings, err := service.Get()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, defaults.Embedding.Model, settings.Embedding.Model)
	assert.Equal(t, defaults.LLM, settings.LLM)
	assert.Equal(t, defaults.Chunking, settings.Chunking)
	assert.Equal(t, defaults.Detection, settings.Detection)
	assert.Equal(t, defaults.Retrieval, settings.Retrieval)
	assert.Equal(t, defaults.Answer, settings.Answer)
	assert.Equal(t, defaults.Upload, settings.Upload)
	assert.Equal(t, defaults.Providers, settings.Providers)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "openai")
	_ = store.Set("embedding.api_key", "sk-test")
	_ = store.Set("llm.provider", "groq")
	_ = store.Set("chunking.overlap", 0)
	_ = store.Set("retrieval.top_k", 8)
	_ = store.Set("answer.mismatch_policy", "accept")
	_ = store.Set("detection.default_language", "ja")
	_ = store.Set("upload.allowed_formats", []string{"PDF", "txt", "exe"})

	settings, err := NewSettingsService(store, nil).Get()
	require.NoError(t, err)

	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-small", settings.Embedding.Model, "model default follows provider")
	assert.Equal(t, "sk-test", settings.Embedding.APIKey)
	assert.Equal(t, domain.AIProviderGroq, settings.LLM.Provider)
	assert.Equal(t, domain.DefaultLLMModels()[domain.AIProviderGroq], settings.LLM.Model)
	assert.Equal(t, 0, settings.Chunking.Overlap, "zero is a valid stored value")
	assert.Equal(t, 8, settings.Retrieval.TopK)
	assert.Equal(t, domain.MismatchAccept, settings.Answer.MismatchPolicy)
	assert.Equal(t, domain.LanguageJapanese, settings.Detection.Default)
	assert.Equal(t, []domain.FileFormat{domain.FormatPDF, domain.FormatText}, settings.Upload.AllowedFormats)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "invalid_provider")
	_ = store.Set("answer.mismatch_policy", "ignore")
	_ = store.Set("detection.default_language", "tlh")

	settings, err := NewSettingsService(store, nil).Get()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, defaults.Answer.MismatchPolicy, settings.Answer.MismatchPolicy)
	assert.Equal(t, defaults.Detection.Default, settings.Detection.Default)
}

func TestSettingsService_Get_APIKeyFromEnvironment(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-key")
	store := memory.NewConfigStore()
	_ = store.Set("llm.provider", "anthropic")

	settings, err := NewSettingsService(store, nil).Get()
	require.NoError(t, err)
	assert.Equal(t, "env-key", settings.LLM.APIKey)
	assert.True(t, settings.LLM.IsConfigured())
}

func TestSettingsService_Save_DoesNotPersistEnvironmentKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	store := memory.NewConfigStore()
	_ = store.Set("llm.provider", "openai")
	service := NewSettingsService(store, nil)

	settings, err := service.Get()
	require.NoError(t, err)
	require.NoError(t, service.Save(settings))

	_, stored := store.Get("llm.api_key")
	assert.False(t, stored)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    any
		wantErr bool
	}{
		{key: "retrieval.top_k", value: "7", want: 7},
		{key: "retrieval.top_k", value: "0", wantErr: true},
		{key: "retrieval.top_k", value: "many", wantErr: true},
		{key: "llm.temperature", value: "0.4", want: 0.4},
		{key: "answer.cultural_context", value: "false", want: false},
		{key: "answer.mismatch_policy", value: "accept", want: "accept"},
		{key: "answer.mismatch_policy", value: "shrug", wantErr: true},
		{key: "detection.default_language", value: "ko", want: "ko"},
		{key: "detection.default_language", value: "xx", wantErr: true},
		{key: "embedding.provider", value: "anthropic", wantErr: true},
		{key: "llm.provider", value: "anthropic", want: "anthropic"},
		{key: "upload.allowed_formats", value: "pdf, txt", want: []string{"pdf", "txt"}},
		{key: "upload.allowed_formats", value: "pdf,exe", wantErr: true},
		{key: "chunking.overlap", value: "-1", wantErr: true},
		{key: "no.such.key", value: "1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store, nil)

			err := service.Set(tt.key, tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			got, ok := store.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	keys := NewSettingsService(memory.NewConfigStore(), nil).Keys()

	assert.Equal(t, "embedding.provider", keys[0])
	assert.Contains(t, keys, "answer.mismatch_policy")
	assert.Contains(t, keys, "retrieval.pretranslate_query")
	assert.Contains(t, keys, "translation.persist")
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	t.Run("ollama gets local base URL and default model", func(t *testing.T) {
		store := memory.NewConfigStore()
		service := NewSettingsService(store, nil)

		require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOllama, "", ""))

		settings, err := service.Get()
		require.NoError(t, err)
		assert.Equal(t, "bge-m3", settings.Embedding.Model)
		assert.Equal(t, "http://localhost:11434", settings.Embedding.BaseURL)
	})

	t.Run("openai requires key", func(t *testing.T) {
		service := NewSettingsService(memory.NewConfigStore(), nil)
		err := service.SetEmbeddingProvider(domain.AIProviderOpenAI, "", "")
		assert.ErrorContains(t, err, "API key required")
	})

	t.Run("anthropic has no embeddings", func(t *testing.T) {
		service := NewSettingsService(memory.NewConfigStore(), nil)
		err := service.SetEmbeddingProvider(domain.AIProviderAnthropic, "", "key")
		assert.ErrorContains(t, err, "does not support embeddings")
	})

	t.Run("cloud clears base URL", func(t *testing.T) {
		store := memory.NewConfigStore()
		_ = store.Set("embedding.base_url", "http://gpu-box:11434")
		service := NewSettingsService(store, nil)

		require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOpenAI, "text-embedding-3-large", "sk"))

		settings, err := service.Get()
		require.NoError(t, err)
		assert.Empty(t, settings.Embedding.BaseURL)
		assert.Equal(t, "text-embedding-3-large", settings.Embedding.Model)
		assert.Equal(t, "sk", settings.Embedding.APIKey)
	})
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "groq-env")
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NoError(t, service.SetLLMProvider(domain.AIProviderGroq, "", ""))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderGroq, settings.LLM.Provider)
	assert.Equal(t, "groq-env", settings.LLM.APIKey)

	assert.Error(t, service.SetLLMProvider(domain.AIProvider("nope"), "", ""))
}

func TestSettingsService_Validate(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	assert.NoError(t, NewSettingsService(memory.NewConfigStore(), nil).Validate())

	store := memory.NewConfigStore()
	_ = store.Set("llm.provider", "openai")
	_ = store.Set("chunking.overlap", 5000)
	err := NewSettingsService(store, nil).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM provider")
	assert.Contains(t, err.Error(), "chunking.overlap")
}

func TestSettingsService_ValidateProviders(t *testing.T) {
	validator := &mockAIValidator{llmErr: errors.New("unreachable")}
	service := NewSettingsService(memory.NewConfigStore(), validator)

	assert.NoError(t, service.ValidateEmbeddingConfig(context.Background()))
	assert.EqualError(t, service.ValidateLLMConfig(context.Background()), "unreachable")
	assert.Equal(t, domain.AIProviderOllama, validator.embedding.Provider)

	// No validator configured: nothing to check.
	assert.NoError(t, NewSettingsService(memory.NewConfigStore(), nil).ValidateLLMConfig(context.Background()))
}

func TestSettingsService_GetPipelineConfig(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("chunking.size", 400)

	cfg := NewSettingsService(store, nil).GetPipelineConfig()

	assert.Equal(t, []string{"chunker", "langtag"}, cfg.Processors)
	assert.Equal(t, 400, cfg.GetProcessorConfig("chunker")["chunk_size"])
	assert.Equal(t, 200, cfg.GetProcessorConfig("chunker")["overlap"])
}
