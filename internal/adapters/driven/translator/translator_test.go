package translator

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
)

// --- Mock implementations ---

type mockLLM struct {
	reply  string
	err    error
	prompt string
	opts   driven.GenerateOptions
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.prompt, m.opts = prompt, opts
	return m.reply, m.err
}

func (m *mockLLM) Chat(context.Context, []driven.ChatMessage, driven.ChatOptions) (string, error) {
	return "", nil
}

func (m *mockLLM) ModelName() string { return "mock" }

func (m *mockLLM) Ping(context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

type mockPrompts struct {
	err error
}

func (m mockPrompts) Load(string) (string, error) {
	return "from %s to %s | %s | %s", m.err
}

func (m mockPrompts) Reload() {}

func TestTranslate_RendersPrompt(t *testing.T) {
	llm := &mockLLM{reply: "  Hola  "}
	tr := New(llm, mockPrompts{})

	out, err := tr.Translate(context.Background(), domain.TranslationRequest{
		Text:   "Hello",
		Source: domain.LanguageEnglish,
		Target: domain.LanguageSpanish,
	})

	require.NoError(t, err)
	assert.Equal(t, "Hola", out)
	assert.Equal(t, "from English to Spanish |  | Hello", llm.prompt)
	assert.Equal(t, 256, llm.opts.MaxTokens)
	assert.InDelta(t, translationTemperature, llm.opts.Temperature, 0.0001)
}

func TestTranslate_CulturalDirective(t *testing.T) {
	llm := &mockLLM{reply: "こんにちは"}
	tr := New(llm, mockPrompts{})

	_, err := tr.Translate(context.Background(), domain.TranslationRequest{
		Text:     "Hello",
		Source:   domain.LanguageEnglish,
		Target:   domain.LanguageJapanese,
		Cultural: true,
	})

	require.NoError(t, err)
	assert.Contains(t, llm.prompt, domain.CulturalDirective(domain.LanguageEnglish, domain.LanguageJapanese))
}

func TestTranslate_Failures(t *testing.T) {
	providerErr := domain.NewProviderError("openai", "chat", 503, "", nil)
	_, err := New(&mockLLM{err: providerErr}, mockPrompts{}).Translate(context.Background(), domain.TranslationRequest{Text: "x"})
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)

	_, err = New(&mockLLM{}, mockPrompts{err: fmt.Errorf("boom")}).Translate(context.Background(), domain.TranslationRequest{Text: "x"})
	assert.Error(t, err)

	_, err = New(nil, mockPrompts{}).Translate(context.Background(), domain.TranslationRequest{Text: "x"})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}
