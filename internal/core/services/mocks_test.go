package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockClassifier returns a fixed language and records what it was asked.
type mockClassifier struct {
	lang       domain.Language
	confidence float64
	unsure     bool
	calls      []string
}

func (m *mockClassifier) Classify(text string) (domain.Language, float64, bool) {
	m.calls = append(m.calls, text)
	if m.unsure {
		return domain.LanguageUnknown, 0, false
	}
	return m.lang, m.confidence, true
}

// mockAIValidator records the settings it validates.
type mockAIValidator struct {
	embedding *domain.EmbeddingSettings
	llm       *domain.LLMSettings
	embedErr  error
	llmErr    error
}

func (m *mockAIValidator) ValidateEmbedding(_ context.Context, config *domain.EmbeddingSettings) error {
	m.embedding = config
	return m.embedErr
}

func (m *mockAIValidator) ValidateLLM(_ context.Context, config *domain.LLMSettings) error {
	m.llm = config
	return m.llmErr
}

// testTopics places text on a few language-independent axes so that a
// question in one language lands near a passage in another, as a
// multilingual embedding model would.
var testTopics = [][]string{
	{"vacation", "vacaciones", "congés", "urlaub", "休暇"},
	{"salary", "salario", "salaire", "gehalt", "給料"},
	{"security", "seguridad", "sécurité", "sicherheit", "セキュリティ"},
	{"policy", "política", "politique", "richtlinie", "規定"},
}

// mockEmbeddingService produces deterministic topic vectors.
type mockEmbeddingService struct {
	mu    sync.Mutex
	calls int
	texts []string
	err   error
	// short drops one vector from each batch response.
	short bool
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, len(testTopics)+1)
	for i, words := range testTopics {
		for _, w := range words {
			v[i] += float32(strings.Count(lower, w))
		}
	}
	// A small constant axis keeps every vector non-zero.
	v[len(testTopics)] = 0.1
	return v
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.texts = append(m.texts, text)
	if m.err != nil {
		return nil, m.err
	}
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.texts = append(m.texts, texts...)
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, m.vector(t))
	}
	if m.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int              { return len(testTopics) + 1 }
func (m *mockEmbeddingService) ModelName() string            { return "mock-embed" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return m.err }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockLLMService returns a canned reply and records the conversation.
type mockLLMService struct {
	mu       sync.Mutex
	reply    string
	err      error
	calls    int
	messages [][]driven.ChatMessage
	opts     []driven.ChatOptions
}

func (m *mockLLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	return m.Chat(ctx, []driven.ChatMessage{{Role: driven.RoleUser, Content: prompt}},
		driven.ChatOptions{MaxTokens: opts.MaxTokens, Temperature: opts.Temperature})
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.messages = append(m.messages, messages)
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLMService) ModelName() string            { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return m.err }
func (m *mockLLMService) Close() error                 { return nil }

// lastUserPrompt returns the user message of the most recent chat.
func (m *mockLLMService) lastUserPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.messages) == 0 {
		return ""
	}
	for _, msg := range m.messages[len(m.messages)-1] {
		if msg.Role == driven.RoleUser {
			return msg.Content
		}
	}
	return ""
}

// mockTranslator counts calls. Without a reply table it prefixes the
// text with the target code. release, when set, blocks every call until
// it is closed.
type mockTranslator struct {
	calls   atomic.Int32
	err     error
	replies map[domain.Language]string
	release chan struct{}

	mu       sync.Mutex
	requests []domain.TranslationRequest
}

func (m *mockTranslator) Translate(ctx context.Context, req domain.TranslationRequest) (string, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.err != nil {
		return "", m.err
	}
	if reply, ok := m.replies[req.Target]; ok {
		return reply, nil
	}
	return "[" + string(req.Target) + "] " + req.Text, nil
}

// mockPromptStore serves fixed templates with the production placeholders.
type mockPromptStore struct {
	err error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	switch name {
	case driven.PromptAnswerSystem:
		return "Answer only from the context.", nil
	case driven.PromptAnswerUser:
		return "Context:\n%s\n\nQuestion: %s\n\n%s", nil
	case driven.PromptTranslate:
		return "From %s to %s. %s\n%s", nil
	}
	return "", errors.New("unknown prompt " + name)
}

func (m *mockPromptStore) Reload() {}

// mockExtractor returns the upload bytes as text for its formats.
type mockExtractor struct {
	formats []domain.FileFormat
	err     error
}

func (m *mockExtractor) Formats() []domain.FileFormat { return m.formats }

func (m *mockExtractor) Extract(_ context.Context, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return string(data), nil
}

// mockExtractorRegistry dispatches to a single extractor.
type mockExtractorRegistry struct {
	extractor *mockExtractor
}

func (r *mockExtractorRegistry) Extract(ctx context.Context, format domain.FileFormat, data []byte) (string, error) {
	for _, f := range r.extractor.formats {
		if f == format {
			return r.extractor.Extract(ctx, data)
		}
	}
	return "", domain.ErrUnsupportedFormat
}

func (r *mockExtractorRegistry) Register(driven.TextExtractor) {}

func (r *mockExtractorRegistry) Formats() []domain.FileFormat { return r.extractor.formats }

// testLexicon maps marker words to languages for mockDetector.
var testLexicon = map[string]domain.Language{
	"the": domain.LanguageEnglish, "is": domain.LanguageEnglish, "what": domain.LanguageEnglish,
	"la": domain.LanguageSpanish, "es": domain.LanguageSpanish, "cuál": domain.LanguageSpanish,
	"le": domain.LanguageFrench, "est": domain.LanguageFrench, "quelle": domain.LanguageFrench,
	"der": domain.LanguageGerman, "ist": domain.LanguageGerman, "die": domain.LanguageGerman,
}

// mockDetector votes on marker words. Text without any marker is
// unreliable and reported as English.
type mockDetector struct{}

func (mockDetector) Detect(text string) domain.Detection {
	votes := map[domain.Language]int{}
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if lang, ok := testLexicon[w]; ok {
			votes[lang]++
		}
	}

	best, n := domain.LanguageEnglish, 0
	for _, lang := range domain.SupportedLanguages() {
		if votes[lang] > n {
			best, n = lang, votes[lang]
		}
	}
	if n == 0 {
		return domain.Detection{Language: domain.LanguageEnglish}
	}
	return domain.Detection{Language: best, Confidence: 0.9, Reliable: true}
}
