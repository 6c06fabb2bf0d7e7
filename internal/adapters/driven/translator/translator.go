// Package translator implements translation on top of a generation model.
package translator

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
)

// Ensure LLMTranslator implements the interface.
var _ driven.Translator = (*LLMTranslator)(nil)

// translationTemperature keeps translations close to literal.
const translationTemperature = 0.1

// LLMTranslator asks an LLM to translate using the "translate" prompt.
type LLMTranslator struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// New creates a translator backed by llm.
func New(llm driven.LLMService, prompts driven.PromptStore) *LLMTranslator {
	return &LLMTranslator{llm: llm, prompts: prompts}
}

// Translate renders the prompt and returns the model output. A cultural
// request adds the same register directive answers use.
func (t *LLMTranslator) Translate(ctx context.Context, req domain.TranslationRequest) (string, error) {
	if t.llm == nil {
		return "", domain.ErrLLMUnavailable
	}
	template, err := t.prompts.Load(driven.PromptTranslate)
	if err != nil {
		return "", fmt.Errorf("load translate prompt: %w", err)
	}

	directive := ""
	if req.Cultural {
		directive = domain.CulturalDirective(req.Source, req.Target)
	}
	prompt := fmt.Sprintf(template, req.Source.Name(), req.Target.Name(), directive, req.Text)

	// Translations can run longer than the source, notably into CJK scripts.
	maxTokens := max(256, 4*len([]rune(req.Text)))
	out, err := t.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   maxTokens,
		Temperature: translationTemperature,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
