package driven

import "context"

// LLMService writes answers and translations. Both the OpenAI adapter
// (also used for Groq) and the Anthropic and Ollama adapters implement it.
// Nothing it returns is cached.
type LLMService interface {
	// Generate completes a single prompt. The translator uses it.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Chat completes a system + user exchange. The orchestrator uses it to
	// answer from retrieved context.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	ModelName() string

	// Ping makes the cheapest call the provider allows.
	Ping(ctx context.Context) error

	Close() error
}

// GenerateOptions tunes a single-prompt completion. Zero values fall back
// to the provider defaults.
type GenerateOptions struct {
	MaxTokens   int
	Temperature float64

	// StopWords end the completion early, e.g. after the translated text.
	StopWords []string
}

// Message roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn. Anthropic receives the system turn out of band.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatOptions tunes an answer. The orchestrator sets them from the llm
// settings section.
type ChatOptions struct {
	MaxTokens   int
	Temperature float64
}
