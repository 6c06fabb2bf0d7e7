package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
	"github.com/custodia-labs/polyglot/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyLLMTemperature    = "llm.temperature"
	keyLLMMaxTokens      = "llm.max_tokens"
	keyChunkSize         = "chunking.size"
	keyChunkOverlap      = "chunking.overlap"
	keyChunkTolerance    = "chunking.tolerance"
	keyDetectMinLength   = "detection.min_length"
	keyDetectDefault     = "detection.default_language"
	keyTopK              = "retrieval.top_k"
	keyMaxContextChars   = "retrieval.max_context_chars"
	keyPretranslate      = "retrieval.pretranslate_query"
	keyMismatchPolicy    = "answer.mismatch_policy"
	keyCulturalContext   = "answer.cultural_context"
	keyTranslatePersist  = "translation.persist"
	keyMaxFileSize       = "upload.max_file_size"
	keyAllowedFormats    = "upload.allowed_formats"
	keyMaxRetries        = "providers.max_retries"
	keyRequestsPerSecond = "providers.requests_per_second"
	keyBurst             = "providers.burst"
	keyDataDir           = "storage.data_dir"
)

// valueKind is how a settable key's string value is parsed.
type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
	kindList
)

type settableKey struct {
	key  string
	kind valueKind
}

// settableKeys lists every key accepted by Set, in display order.
var settableKeys = []settableKey{
	{keyEmbedProvider, kindString},
	{keyEmbedModel, kindString},
	{keyEmbedBaseURL, kindString},
	{keyEmbedAPIKey, kindString},
	{keyLLMProvider, kindString},
	{keyLLMModel, kindString},
	{keyLLMBaseURL, kindString},
	{keyLLMAPIKey, kindString},
	{keyLLMTemperature, kindFloat},
	{keyLLMMaxTokens, kindInt},
	{keyChunkSize, kindInt},
	{keyChunkOverlap, kindInt},
	{keyChunkTolerance, kindInt},
	{keyDetectMinLength, kindInt},
	{keyDetectDefault, kindString},
	{keyTopK, kindInt},
	{keyMaxContextChars, kindInt},
	{keyPretranslate, kindBool},
	{keyMismatchPolicy, kindString},
	{keyCulturalContext, kindBool},
	{keyTranslatePersist, kindBool},
	{keyMaxFileSize, kindInt},
	{keyAllowedFormats, kindList},
	{keyMaxRetries, kindInt},
	{keyRequestsPerSecond, kindFloat},
	{keyBurst, kindInt},
	{keyDataDir, kindString},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings. Unset keys take their
// defaults and empty API keys fall back to the provider's environment variable.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, d.Embedding.Provider),
			BaseURL:  s.getString(keyEmbedBaseURL, ""), // empty is valid for cloud providers
			APIKey:   s.getString(keyEmbedAPIKey, ""),
		},
		LLM: domain.LLMSettings{
			Provider:    s.getProvider(keyLLMProvider, d.LLM.Provider),
			BaseURL:     s.getString(keyLLMBaseURL, ""),
			APIKey:      s.getString(keyLLMAPIKey, ""),
			Temperature: s.getFloat(keyLLMTemperature, d.LLM.Temperature),
			MaxTokens:   s.getInt(keyLLMMaxTokens, d.LLM.MaxTokens),
		},
		Chunking: domain.ChunkingSettings{
			Size:      s.getInt(keyChunkSize, d.Chunking.Size),
			Overlap:   s.getInt(keyChunkOverlap, d.Chunking.Overlap),
			Tolerance: s.getInt(keyChunkTolerance, d.Chunking.Tolerance),
		},
		Detection: domain.DetectionSettings{
			MinLength: s.getInt(keyDetectMinLength, d.Detection.MinLength),
			Default:   s.getLanguage(keyDetectDefault, d.Detection.Default),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:              s.getInt(keyTopK, d.Retrieval.TopK),
			MaxContextChars:   s.getInt(keyMaxContextChars, d.Retrieval.MaxContextChars),
			PretranslateQuery: s.getBool(keyPretranslate, d.Retrieval.PretranslateQuery),
		},
		Answer: domain.AnswerSettings{
			MismatchPolicy:  s.getPolicy(d.Answer.MismatchPolicy),
			CulturalContext: s.getBool(keyCulturalContext, d.Answer.CulturalContext),
		},
		Translation: domain.TranslationSettings{
			Persist: s.getBool(keyTranslatePersist, d.Translation.Persist),
		},
		Upload: domain.UploadSettings{
			MaxFileSize:    int64(s.getInt(keyMaxFileSize, int(d.Upload.MaxFileSize))),
			AllowedFormats: s.getFormats(d.Upload.AllowedFormats),
		},
		Providers: domain.ProviderSettings{
			MaxRetries:        s.getInt(keyMaxRetries, d.Providers.MaxRetries),
			RequestsPerSecond: s.getFloat(keyRequestsPerSecond, d.Providers.RequestsPerSecond),
			Burst:             s.getInt(keyBurst, d.Providers.Burst),
			Timeout:           d.Providers.Timeout,
		},
		Storage: domain.StorageSettings{
			DataDir: s.getString(keyDataDir, ""),
		},
	}

	settings.Embedding.Model = s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[settings.Embedding.Provider])
	settings.LLM.Model = s.getString(keyLLMModel, domain.DefaultLLMModels()[settings.LLM.Provider])

	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = envAPIKey(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = envAPIKey(settings.LLM.Provider)
	}

	return settings, nil
}

// Save persists application settings. API keys are only written when set
// so keys supplied by the environment never land in the config file.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	formats := make([]string, len(settings.Upload.AllowedFormats))
	for i, f := range settings.Upload.AllowedFormats {
		formats[i] = f.String()
	}

	type entry struct {
		key   string
		value any
	}
	values := []entry{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMTemperature, settings.LLM.Temperature},
		{keyLLMMaxTokens, settings.LLM.MaxTokens},
		{keyChunkSize, settings.Chunking.Size},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyChunkTolerance, settings.Chunking.Tolerance},
		{keyDetectMinLength, settings.Detection.MinLength},
		{keyDetectDefault, settings.Detection.Default.String()},
		{keyTopK, settings.Retrieval.TopK},
		{keyMaxContextChars, settings.Retrieval.MaxContextChars},
		{keyPretranslate, settings.Retrieval.PretranslateQuery},
		{keyMismatchPolicy, string(settings.Answer.MismatchPolicy)},
		{keyCulturalContext, settings.Answer.CulturalContext},
		{keyTranslatePersist, settings.Translation.Persist},
		{keyMaxFileSize, settings.Upload.MaxFileSize},
		{keyAllowedFormats, formats},
		{keyMaxRetries, settings.Providers.MaxRetries},
		{keyRequestsPerSecond, settings.Providers.RequestsPerSecond},
		{keyBurst, settings.Providers.Burst},
		{keyDataDir, settings.Storage.DataDir},
	}
	if settings.Embedding.APIKey != "" && settings.Embedding.APIKey != envAPIKey(settings.Embedding.Provider) {
		values = append(values, entry{keyEmbedAPIKey, settings.Embedding.APIKey})
	}
	if settings.LLM.APIKey != "" && settings.LLM.APIKey != envAPIKey(settings.LLM.Provider) {
		values = append(values, entry{keyLLMAPIKey, settings.LLM.APIKey})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return s.configStore.Save()
}

// Keys returns the settable keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settableKeys))
	for i, k := range settableKeys {
		keys[i] = k.key
	}
	return keys
}

// Set parses, validates and persists a single key.
func (s *SettingsService) Set(key, value string) error {
	idx := slices.IndexFunc(settableKeys, func(k settableKey) bool {
		return k.key == key
	})
	if idx < 0 {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := parseValue(settableKeys[idx].kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}
	if err := validateValue(key, parsed); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return s.configStore.Save()
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}
	if apiKey == "" {
		apiKey = envAPIKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = model
	if model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}
	settings.Embedding.BaseURL = defaultBaseURL(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if apiKey == "" {
		apiKey = envAPIKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = model
	if model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}
	settings.LLM.BaseURL = defaultBaseURL(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var errs []error
	if !settings.Embedding.IsConfigured() {
		errs = append(errs, fmt.Errorf("embedding provider %q is not configured", settings.Embedding.Provider))
	}
	if !settings.LLM.IsConfigured() {
		errs = append(errs, fmt.Errorf("LLM provider %q is not configured", settings.LLM.Provider))
	}
	if settings.Chunking.Size <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", keyChunkSize))
	}
	if settings.Chunking.Overlap < 0 || settings.Chunking.Overlap >= settings.Chunking.Size {
		errs = append(errs, fmt.Errorf("%s must be in [0, %s)", keyChunkOverlap, keyChunkSize))
	}
	if settings.Retrieval.TopK <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", keyTopK))
	}
	return errors.Join(errs...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(ctx, &settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(ctx, &settings.LLM)
}

// GetPipelineConfig returns the ingestion pipeline configuration.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	settings, err := s.Get()
	if err != nil {
		return domain.PipelineConfigFor(domain.DefaultAppSettings().Chunking)
	}
	return domain.PipelineConfigFor(settings.Chunking)
}

// Stored values keep the type their backend decoded: TOML integers are
// int64 and arrays []any. A value of the wrong type reads as unset.

func lookup[T any](store driven.ConfigStore, key string, convert func(any) (T, bool)) (T, bool) {
	raw, ok := store.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	return convert(raw)
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), n == float64(int(n))
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asStrings(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if v, ok := lookup(s.configStore, key, asString); ok && v != "" {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if v, ok := lookup(s.configStore, key, asInt); ok {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if v, ok := lookup(s.configStore, key, asFloat); ok {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if v, ok := lookup(s.configStore, key, asBool); ok {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.getString(key, ""))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getLanguage(key string, defaultVal domain.Language) domain.Language {
	lang, err := domain.ParseLanguage(s.getString(key, ""))
	if err != nil {
		return defaultVal
	}
	return lang
}

func (s *SettingsService) getPolicy(defaultVal domain.MismatchPolicy) domain.MismatchPolicy {
	policy := domain.MismatchPolicy(s.getString(keyMismatchPolicy, ""))
	if !policy.IsValid() {
		return defaultVal
	}
	return policy
}

func (s *SettingsService) getFormats(defaultVal []domain.FileFormat) []domain.FileFormat {
	names, _ := lookup(s.configStore, keyAllowedFormats, asStrings)
	if len(names) == 0 {
		return defaultVal
	}
	formats := make([]domain.FileFormat, 0, len(names))
	for _, n := range names {
		if f := domain.FileFormat(strings.ToLower(n)); f.IsValid() {
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return defaultVal
	}
	return formats
}

func parseValue(kind valueKind, value string) (any, error) {
	switch kind {
	case kindInt:
		return strconv.Atoi(value)
	case kindFloat:
		return strconv.ParseFloat(value, 64)
	case kindBool:
		return strconv.ParseBool(value)
	case kindList:
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items, nil
	default:
		return value, nil
	}
}

func validateValue(key string, value any) error {
	switch key {
	case keyEmbedProvider:
		if !slices.Contains(domain.AllEmbeddingProviders(), domain.AIProvider(value.(string))) {
			return fmt.Errorf("unsupported embedding provider %q", value)
		}
	case keyLLMProvider:
		if !domain.AIProvider(value.(string)).IsValid() {
			return fmt.Errorf("unsupported LLM provider %q", value)
		}
	case keyDetectDefault:
		if _, err := domain.ParseLanguage(value.(string)); err != nil {
			return err
		}
	case keyMismatchPolicy:
		if !domain.MismatchPolicy(value.(string)).IsValid() {
			return fmt.Errorf("must be %q or %q", domain.MismatchTranslate, domain.MismatchAccept)
		}
	case keyAllowedFormats:
		for _, f := range value.([]string) {
			if !domain.FileFormat(strings.ToLower(f)).IsValid() {
				return fmt.Errorf("unsupported format %q", f)
			}
		}
	case keyChunkSize, keyTopK, keyMaxContextChars, keyMaxFileSize, keyLLMMaxTokens, keyBurst:
		if value.(int) <= 0 {
			return errors.New("must be positive")
		}
	case keyChunkOverlap, keyChunkTolerance, keyDetectMinLength, keyMaxRetries:
		if value.(int) < 0 {
			return errors.New("must not be negative")
		}
	case keyLLMTemperature, keyRequestsPerSecond:
		if value.(float64) < 0 {
			return errors.New("must not be negative")
		}
	}
	return nil
}

func envAPIKey(provider domain.AIProvider) string {
	if env := provider.APIKeyEnv(); env != "" {
		return os.Getenv(env)
	}
	return ""
}

// defaultBaseURL keeps a custom local endpoint and clears it for cloud providers.
func defaultBaseURL(provider domain.AIProvider, current string) string {
	if !provider.IsLocal() {
		return ""
	}
	if current == "" {
		return "http://localhost:11434"
	}
	return current
}
