package ai

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
	"github.com/custodia-labs/polyglot/internal/logger"
)

// Ensure the retrying wrappers implement their interfaces.
var (
	_ driven.EmbeddingService = (*RetryingEmbedding)(nil)
	_ driven.LLMService       = (*RetryingLLM)(nil)
	_ driven.Translator       = (*RetryingTranslator)(nil)
)

// Retry defaults.
const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 200 * time.Millisecond
	DefaultMaxDelay   = 5 * time.Second

	// maxRetryAfter caps a provider's requested wait so one response
	// cannot stall a request indefinitely.
	maxRetryAfter = 60 * time.Second
)

// RetryPolicy configures retries and request pacing for one provider.
type RetryPolicy struct {
	// MaxRetries bounds retries after the first attempt.
	MaxRetries int

	// BaseDelay is the first backoff; each retry doubles it.
	BaseDelay time.Duration

	// MaxDelay caps the computed backoff.
	MaxDelay time.Duration

	// RequestsPerSecond is the sustained request rate. Zero disables pacing.
	RequestsPerSecond float64

	// Burst is the token bucket size.
	Burst int
}

// RetryPolicyFrom builds a policy from provider settings.
func RetryPolicyFrom(s domain.ProviderSettings) RetryPolicy {
	return RetryPolicy{
		MaxRetries:        s.MaxRetries,
		BaseDelay:         DefaultBaseDelay,
		MaxDelay:          DefaultMaxDelay,
		RequestsPerSecond: s.RequestsPerSecond,
		Burst:             s.Burst,
	}
}

// backoff returns the wait before retry attempt n (0-based).
func (p RetryPolicy) backoff(n int) time.Duration {
	d := p.BaseDelay << n
	if d <= 0 || d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// retrier paces calls through a token bucket and retries transient
// provider failures. Only rate limits and unavailability are retried.
type retrier struct {
	policy  RetryPolicy
	limiter *rate.Limiter
	sleep   func(ctx context.Context, d time.Duration) error
}

func newRetrier(policy RetryPolicy) *retrier {
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = DefaultBaseDelay
	}
	if policy.MaxDelay <= 0 {
		policy.MaxDelay = DefaultMaxDelay
	}
	limit := rate.Inf
	if policy.RequestsPerSecond > 0 {
		limit = rate.Limit(policy.RequestsPerSecond)
	}
	return &retrier{
		policy:  policy,
		limiter: rate.NewLimiter(limit, max(policy.Burst, 1)),
		sleep:   sleepContext,
	}
}

func (r *retrier) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	for attempt := 0; ; attempt++ {
		if err := r.limiter.Wait(ctx); err != nil {
			return err
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}

		var perr *domain.ProviderError
		if !errors.As(err, &perr) || !perr.Retryable() || attempt >= r.policy.MaxRetries {
			return err
		}

		delay := r.policy.backoff(attempt)
		if perr.RetryAfter > delay {
			delay = min(perr.RetryAfter, maxRetryAfter)
		}
		logger.Debug("%s: %v, retry %d/%d in %s", op, err, attempt+1, r.policy.MaxRetries, delay)
		if err := r.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryingEmbedding wraps an embedding service with retries.
type RetryingEmbedding struct {
	driven.EmbeddingService
	r *retrier
}

// NewRetryingEmbedding wraps svc with policy.
func NewRetryingEmbedding(svc driven.EmbeddingService, policy RetryPolicy) *RetryingEmbedding {
	return &RetryingEmbedding{EmbeddingService: svc, r: newRetrier(policy)}
}

// Embed generates a vector embedding, retrying transient failures.
func (e *RetryingEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := e.r.do(ctx, "embed", func(ctx context.Context) error {
		var err error
		out, err = e.EmbeddingService.Embed(ctx, text)
		return err
	})
	return out, err
}

// EmbedBatch generates embeddings, retrying transient failures.
func (e *RetryingEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := e.r.do(ctx, "embed batch", func(ctx context.Context) error {
		var err error
		out, err = e.EmbeddingService.EmbedBatch(ctx, texts)
		return err
	})
	return out, err
}

// RetryingLLM wraps an LLM service with retries.
type RetryingLLM struct {
	driven.LLMService
	r *retrier
}

// NewRetryingLLM wraps svc with policy.
func NewRetryingLLM(svc driven.LLMService, policy RetryPolicy) *RetryingLLM {
	return &RetryingLLM{LLMService: svc, r: newRetrier(policy)}
}

// Generate produces a completion, retrying transient failures.
func (l *RetryingLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	var out string
	err := l.r.do(ctx, "generate", func(ctx context.Context) error {
		var err error
		out, err = l.LLMService.Generate(ctx, prompt, opts)
		return err
	})
	return out, err
}

// Chat conducts a conversation, retrying transient failures.
func (l *RetryingLLM) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	var out string
	err := l.r.do(ctx, "chat", func(ctx context.Context) error {
		var err error
		out, err = l.LLMService.Chat(ctx, messages, opts)
		return err
	})
	return out, err
}

// RetryingTranslator wraps a translator with retries.
type RetryingTranslator struct {
	t driven.Translator
	r *retrier
}

// NewRetryingTranslator wraps t with policy.
func NewRetryingTranslator(t driven.Translator, policy RetryPolicy) *RetryingTranslator {
	return &RetryingTranslator{t: t, r: newRetrier(policy)}
}

// Translate translates, retrying transient failures.
func (t *RetryingTranslator) Translate(ctx context.Context, req domain.TranslationRequest) (string, error) {
	var out string
	err := t.r.do(ctx, "translate", func(ctx context.Context) error {
		var err error
		out, err = t.t.Translate(ctx, req)
		return err
	})
	return out, err
}
