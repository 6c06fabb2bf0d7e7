package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
	"github.com/custodia-labs/polyglot/internal/core/ports/driving"
	"github.com/custodia-labs/polyglot/internal/logger"
)

// Ensure RAGService implements the interface.
var _ driving.RAGService = (*RAGService)(nil)

// contextSeparator joins the numbered context blocks.
const contextSeparator = "\n\n"

// RAGConfig tunes the orchestrator.
type RAGConfig struct {
	// TopK is used when a query does not set its own.
	TopK int

	// MaxContextChars bounds the assembled context in characters.
	// Zero disables the bound.
	MaxContextChars int

	// MismatchPolicy applies when the answer is not in the target language.
	MismatchPolicy domain.MismatchPolicy

	// CulturalContext adds cultural directives to prompts and translations.
	CulturalContext bool

	// PretranslateQuery translates the query into the scope language
	// before searching.
	PretranslateQuery bool

	// Temperature and MaxTokens are passed to generation.
	Temperature float64
	MaxTokens   int
}

// RAGConfigFrom derives the orchestrator configuration from settings.
func RAGConfigFrom(s *domain.AppSettings) RAGConfig {
	return RAGConfig{
		TopK:              s.Retrieval.TopK,
		MaxContextChars:   s.Retrieval.MaxContextChars,
		MismatchPolicy:    s.Answer.MismatchPolicy,
		CulturalContext:   s.Answer.CulturalContext,
		PretranslateQuery: s.Retrieval.PretranslateQuery,
		Temperature:       s.LLM.Temperature,
		MaxTokens:         s.LLM.MaxTokens,
	}
}

// RAGService answers questions from the indexed documents in the
// requested language.
type RAGService struct {
	index      driving.IndexService
	detector   driving.LanguageDetector
	llm        driven.LLMService
	translator driving.TranslationService
	prompts    driven.PromptStore
	cfg        RAGConfig
}

// NewRAGService creates the orchestrator. translator may be nil; answers
// in the wrong language are then returned degraded.
func NewRAGService(
	index driving.IndexService,
	detector driving.LanguageDetector,
	llm driven.LLMService,
	translator driving.TranslationService,
	prompts driven.PromptStore,
	cfg RAGConfig,
) *RAGService {
	if cfg.TopK <= 0 {
		cfg.TopK = domain.DefaultTopK
	}
	if !cfg.MismatchPolicy.IsValid() {
		cfg.MismatchPolicy = domain.MismatchTranslate
	}
	return &RAGService{
		index:      index,
		detector:   detector,
		llm:        llm,
		translator: translator,
		prompts:    prompts,
		cfg:        cfg,
	}
}

// Answer retrieves context for the query, generates a grounded answer and
// checks that it is written in the target language.
func (s *RAGService) Answer(ctx context.Context, q domain.Query) domain.Result {
	logger.Section("Answer")
	defer logger.Timed("answer")()

	text := strings.TrimSpace(q.Text)
	if text == "" {
		return failed(fmt.Errorf("answer: %w", domain.ErrEmptyInput))
	}
	target, err := resolveTarget(q.Target)
	if err != nil {
		return failed(err)
	}
	scope, err := domain.ParseScope(string(q.Scope))
	if err != nil {
		return failed(err)
	}
	if s.index == nil || s.detector == nil {
		return failed(fmt.Errorf("answer: %w", domain.ErrVectorIndexUnavailable))
	}
	if s.llm == nil {
		return failed(fmt.Errorf("answer: %w", domain.ErrLLMUnavailable))
	}
	if err := ctx.Err(); err != nil {
		return failed(err)
	}

	q.Language = s.detector.Detect(text).Language
	logger.Debug("Query language: %s, target: %s, scope: %s", q.Language, target, scope)

	var filter *domain.Language
	if lang, ok := scope.Filter(); ok {
		filter = &lang
	}

	searchText := text
	if s.cfg.PretranslateQuery && filter != nil && *filter != q.Language {
		searchText, err = s.pretranslate(ctx, text, q.Language, *filter)
		if err != nil {
			return failed(err)
		}
	}

	topK := q.TopK
	if topK <= 0 {
		topK = s.cfg.TopK
	}
	results, err := s.index.Search(ctx, searchText, topK, filter)
	if err != nil {
		return failed(fmt.Errorf("retrieve: %w", err))
	}
	if len(results) == 0 {
		logger.Info("No relevant chunks for query")
		return domain.Result{
			Outcome: domain.OutcomeNoResults,
			Message: domain.NoResultsMessage(target),
		}
	}

	contextText, used, truncated := buildContext(results, s.cfg.MaxContextChars)
	var warnings []domain.Warning
	if truncated {
		warnings = append(warnings, domain.Warning{
			Code:    domain.WarningContextTruncated,
			Message: fmt.Sprintf("context limited to %d of %d chunks", len(used), len(results)),
		})
	}

	generated, err := s.generate(ctx, contextText, text, q.Language, target)
	if err != nil {
		return failed(fmt.Errorf("generate: %w", err))
	}

	answer := &domain.Answer{
		Text:           generated,
		QueryLanguage:  q.Language,
		TargetLanguage: target,
		AnswerLanguage: domain.LanguageUnknown,
		Sources:        sourcesFor(used),
		Context:        used,
		ContextLength:  utf8.RuneCountInString(contextText),
		GeneratedAt:    time.Now(),
	}
	result := domain.Result{Outcome: domain.OutcomeOK, Answer: answer, Warnings: warnings}

	check := s.detector.Detect(generated)
	if !check.Reliable {
		logger.Debug("Answer too short to verify its language")
		return result
	}
	answer.AnswerLanguage = check.Language
	if check.Language == target {
		return result
	}

	logger.Warn("Answer written in %s, expected %s", check.Language, target)
	if s.cfg.MismatchPolicy == domain.MismatchAccept {
		result.Outcome = domain.OutcomeDegraded
		result.Warnings = append(result.Warnings, domain.Warning{
			Code:    domain.WarningLanguageMismatch,
			Message: fmt.Sprintf("answer is in %s, not %s", check.Language.Name(), target.Name()),
		})
		return result
	}

	translated, err := s.posttranslate(ctx, generated, check.Language, target)
	if err != nil {
		if ctx.Err() != nil {
			return failed(ctx.Err())
		}
		logger.Warn("Post-translation failed: %v", err)
		result.Outcome = domain.OutcomeDegraded
		result.Warnings = append(result.Warnings, domain.Warning{
			Code:    domain.WarningTranslationFailed,
			Message: err.Error(),
		})
		return result
	}
	answer.Text = translated
	answer.AnswerLanguage = target
	return result
}

func (s *RAGService) generate(ctx context.Context, contextText, question string, source, target domain.Language) (string, error) {
	if s.prompts == nil {
		return "", fmt.Errorf("%w: no prompt store", domain.ErrLLMUnavailable)
	}
	system, err := s.prompts.Load(driven.PromptAnswerSystem)
	if err != nil {
		return "", err
	}
	userTmpl, err := s.prompts.Load(driven.PromptAnswerUser)
	if err != nil {
		return "", err
	}

	directive := fmt.Sprintf("Please provide the answer in %s.", target.Name())
	if s.cfg.CulturalContext {
		directive = domain.CulturalDirective(source, target)
	}

	out, err := s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: system},
		{Role: driven.RoleUser, Content: fmt.Sprintf(userTmpl, contextText, question, directive)},
	}, driven.ChatOptions{
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", domain.NewInvalidResponseError(s.llm.ModelName(), "generate", "empty answer")
	}
	return out, nil
}

// pretranslate is fail-fast: searching with an untranslated query would
// silently change the meaning of a scoped search.
func (s *RAGService) pretranslate(ctx context.Context, text string, source, target domain.Language) (string, error) {
	if s.translator == nil {
		return "", fmt.Errorf("pretranslate query: %w", domain.ErrTranslationUnavailable)
	}
	out, err := s.translator.Translate(ctx, text, source, target, false)
	if err != nil {
		return "", fmt.Errorf("pretranslate query: %w", err)
	}
	logger.Debug("Query pretranslated %s->%s", source, target)
	return out, nil
}

func (s *RAGService) posttranslate(ctx context.Context, text string, source, target domain.Language) (string, error) {
	if s.translator == nil {
		return "", fmt.Errorf("translate answer: %w", domain.ErrTranslationUnavailable)
	}
	return s.translator.Translate(ctx, text, source, target, s.cfg.CulturalContext)
}

// buildContext formats results, best first, into numbered blocks within
// budget characters. Lower-scoring blocks are dropped first; the best block
// is always kept and cut to the budget if it alone exceeds it.
func buildContext(results []domain.ScoredChunk, budget int) (string, []domain.ScoredChunk, bool) {
	var b strings.Builder
	used := make([]domain.ScoredChunk, 0, len(results))
	size := 0

	for i, r := range results {
		block := formatContextBlock(i+1, r)
		n := utf8.RuneCountInString(block)
		if i > 0 {
			n += utf8.RuneCountInString(contextSeparator)
		}

		if budget > 0 && size+n > budget {
			if i == 0 {
				b.WriteString(truncateRunes(block, budget))
				used = append(used, r)
			}
			return b.String(), used, true
		}

		if i > 0 {
			b.WriteString(contextSeparator)
		}
		b.WriteString(block)
		size += n
		used = append(used, r)
	}
	return b.String(), used, false
}

func formatContextBlock(n int, r domain.ScoredChunk) string {
	return fmt.Sprintf("[%d] (file: %s, language: %s, score: %.2f)\n%s",
		n, r.Chunk.DocumentName, r.Chunk.Language.Name(), r.Score, r.Chunk.Content)
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func sourcesFor(used []domain.ScoredChunk) []domain.Source {
	sources := make([]domain.Source, len(used))
	for i, r := range used {
		sources[i] = domain.Source{
			FileName:   r.Chunk.DocumentName,
			Language:   r.Chunk.Language,
			Similarity: r.Score,
		}
	}
	return sources
}

func resolveTarget(target domain.Language) (domain.Language, error) {
	if target == "" {
		return domain.DefaultLanguage, nil
	}
	lang, err := domain.ParseLanguage(string(target))
	if err != nil {
		return "", fmt.Errorf("target: %w", err)
	}
	return lang, nil
}

func failed(err error) domain.Result {
	logger.Warn("Answer failed: %v", err)
	return domain.Failed(err)
}
