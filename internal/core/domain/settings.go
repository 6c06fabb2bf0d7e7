package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGroq is Groq's OpenAI-compatible cloud API.
	AIProviderGroq AIProvider = "groq"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGroq:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGroq
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// APIKeyEnv is the environment variable consulted when no key is configured.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case AIProviderGroq:
		return "GROQ_API_KEY"
	default:
		return ""
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGroq:
		return "Groq (cloud)"
	default:
		return unknownDescription
	}
}

// MismatchPolicy decides what happens when a generated answer is not in
// the requested target language.
type MismatchPolicy string

// Available mismatch policies.
const (
	// MismatchTranslate post-translates the answer through the translation cache.
	MismatchTranslate MismatchPolicy = "translate"

	// MismatchAccept keeps the answer and reports a warning.
	MismatchAccept MismatchPolicy = "accept"
)

// IsValid returns true if the policy is recognised.
func (m MismatchPolicy) IsValid() bool {
	return m == MismatchTranslate || m == MismatchAccept
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint override.
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds generation provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint override.
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// Temperature controls sampling; answers default to 0.1.
	Temperature float64

	// MaxTokens bounds the generated answer.
	MaxTokens int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings configures the chunker.
type ChunkingSettings struct {
	// Size is the target chunk length in characters.
	Size int

	// Overlap is carried from the end of the previous chunk.
	Overlap int

	// Tolerance is the window around Size searched for a sentence break.
	Tolerance int
}

// DetectionSettings configures language detection.
type DetectionSettings struct {
	// MinLength is the shortest span, in letters, detected rather than defaulted.
	MinLength int

	// Default is returned for spans shorter than MinLength.
	Default Language
}

// RetrievalSettings configures the query path.
type RetrievalSettings struct {
	// TopK bounds the retrieved context.
	TopK int

	// MaxContextChars is the context budget passed to generation.
	MaxContextChars int

	// PretranslateQuery translates the query into the scope language before
	// searching. Off by default: embeddings are cross-lingual.
	PretranslateQuery bool
}

// AnswerSettings configures answer post-processing.
type AnswerSettings struct {
	// MismatchPolicy applies when the answer language check fails.
	MismatchPolicy MismatchPolicy

	// CulturalContext adds cultural directives to prompts and translations.
	CulturalContext bool
}

// TranslationSettings configures the translation cache.
type TranslationSettings struct {
	// Persist stores cache entries in SQLite instead of memory.
	Persist bool
}

// UploadSettings bounds ingestion.
type UploadSettings struct {
	// MaxFileSize is the largest accepted upload in bytes.
	MaxFileSize int64

	// AllowedFormats lists accepted file formats.
	AllowedFormats []FileFormat
}

// ProviderSettings configures retry and rate limiting for external calls.
type ProviderSettings struct {
	// MaxRetries bounds retries of transient failures.
	MaxRetries int

	// RequestsPerSecond is the sustained request rate.
	RequestsPerSecond float64

	// Burst is the token bucket size.
	Burst int

	// Timeout bounds a single request.
	Timeout time.Duration
}

// StorageSettings locates persistent state.
type StorageSettings struct {
	// DataDir holds the SQLite database. Empty means ~/.polyglot/data.
	DataDir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding   EmbeddingSettings
	LLM         LLMSettings
	Chunking    ChunkingSettings
	Detection   DetectionSettings
	Retrieval   RetrievalSettings
	Answer      AnswerSettings
	Translation TranslationSettings
	Upload      UploadSettings
	Providers   ProviderSettings
	Storage     StorageSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Both providers default to a local Ollama so no API key is needed.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    DefaultEmbeddingModels()[AIProviderOllama],
		},
		LLM: LLMSettings{
			Provider:    AIProviderOllama,
			Model:       DefaultLLMModels()[AIProviderOllama],
			Temperature: 0.1,
			MaxTokens:   1024,
		},
		Chunking: ChunkingSettings{
			Size:      1000,
			Overlap:   200,
			Tolerance: 100,
		},
		Detection: DetectionSettings{
			MinLength: 20,
			Default:   DefaultLanguage,
		},
		Retrieval: RetrievalSettings{
			TopK:            DefaultTopK,
			MaxContextChars: 6000,
		},
		Answer: AnswerSettings{
			MismatchPolicy:  MismatchTranslate,
			CulturalContext: true,
		},
		Upload: UploadSettings{
			MaxFileSize:    50 * 1024 * 1024,
			AllowedFormats: AllFormats(),
		},
		Providers: ProviderSettings{
			MaxRetries:        3,
			RequestsPerSecond: 5,
			Burst:             10,
			Timeout:           60 * time.Second,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGroq,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
// Both defaults are multilingual so cross-lingual retrieval works.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "bge-m3",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderGroq:      "llama3-70b-8192",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"bge-m3":                  1024,
		"nomic-embed-text":        768,
		"mxbai-embed-large":       1024,
		"paraphrase-multilingual": 768,
		"snowflake-arctic-embed2": 1024,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config so processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// PipelineConfigFor builds the ingestion pipeline from chunking settings.
// Language tagging always follows chunking.
func PipelineConfigFor(c ChunkingSettings) PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker", "langtag"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": c.Size,
				"overlap":    c.Overlap,
				"tolerance":  c.Tolerance,
			},
		},
	}
}
