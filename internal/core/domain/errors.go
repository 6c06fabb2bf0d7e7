package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	// All user-correctable input errors wrap it.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyInput indicates text is empty after normalisation.
	ErrEmptyInput = fmt.Errorf("%w: empty input", ErrInvalidInput)

	// ErrUnsupportedFormat indicates a file type with no extractor.
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported format", ErrInvalidInput)

	// ErrCorruptFile indicates a file that could not be parsed.
	ErrCorruptFile = fmt.Errorf("%w: corrupt file", ErrInvalidInput)

	// ErrUnsupportedLanguage indicates a language code outside the supported set.
	ErrUnsupportedLanguage = fmt.Errorf("%w: unsupported language", ErrInvalidInput)

	// ErrFileTooLarge indicates an upload above the configured size limit.
	ErrFileTooLarge = fmt.Errorf("%w: file too large", ErrInvalidInput)

	// Provider Errors.

	// ErrServiceUnavailable indicates an external provider is down or unreachable.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrRateLimited indicates the provider's rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidResponse indicates the provider answered with an unusable payload.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrTranslationUnavailable indicates the translation capability failed.
	ErrTranslationUnavailable = errors.New("translation unavailable")

	// Configuration Errors.

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector store is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrDimensionMismatch indicates vectors from different embedding spaces.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// ErrorKind classifies a failure for callers of the orchestrator.
type ErrorKind string

// Error kinds.
const (
	KindNone                   ErrorKind = ""
	KindInput                  ErrorKind = "input"
	KindServiceUnavailable     ErrorKind = "service_unavailable"
	KindRateLimit              ErrorKind = "rate_limited"
	KindInvalidResponse        ErrorKind = "invalid_response"
	KindTranslationUnavailable ErrorKind = "translation_unavailable"
	KindCancelled              ErrorKind = "cancelled"
	KindInternal               ErrorKind = "internal"
)

// ClassifyError maps an error chain to an ErrorKind.
// Translation failures win over the provider kind they wrap.
func ClassifyError(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCancelled
	case errors.Is(err, ErrInvalidInput):
		return KindInput
	case errors.Is(err, ErrTranslationUnavailable):
		return KindTranslationUnavailable
	case errors.Is(err, ErrRateLimited):
		return KindRateLimit
	case errors.Is(err, ErrServiceUnavailable),
		errors.Is(err, ErrLLMUnavailable),
		errors.Is(err, ErrEmbeddingUnavailable),
		errors.Is(err, ErrVectorIndexUnavailable):
		return KindServiceUnavailable
	case errors.Is(err, ErrInvalidResponse), errors.Is(err, ErrDimensionMismatch):
		return KindInvalidResponse
	default:
		return KindInternal
	}
}

// ProviderError is a typed failure from an embedding, generation or
// translation provider. It unwraps to ErrServiceUnavailable,
// ErrRateLimited or ErrInvalidResponse.
type ProviderError struct {
	// Provider names the backend, e.g. "openai".
	Provider string

	// Op is the operation that failed, e.g. "embed".
	Op string

	// StatusCode is the HTTP status, or 0 for transport failures.
	StatusCode int

	// RetryAfter is the provider's requested backoff, if any.
	RetryAfter time.Duration

	// Message is the provider's error text.
	Message string

	kind error
	err  error
}

// NewProviderError builds a ProviderError from an HTTP status.
// A zero status with a non-nil cause is treated as a transport failure.
func NewProviderError(provider, op string, status int, message string, cause error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Op:         op,
		StatusCode: status,
		Message:    message,
		kind:       kindForStatus(status),
		err:        cause,
	}
}

// NewInvalidResponseError reports a payload that could not be used.
func NewInvalidResponseError(provider, op, message string) *ProviderError {
	return &ProviderError{Provider: provider, Op: op, Message: message, kind: ErrInvalidResponse}
}

func kindForStatus(status int) error {
	switch {
	case status == 0:
		return ErrServiceUnavailable
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status == http.StatusRequestTimeout, status >= http.StatusInternalServerError:
		return ErrServiceUnavailable
	default:
		return ErrInvalidResponse
	}
}

// Error implements error.
func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.err != nil {
		msg += ": " + e.err.Error()
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *ProviderError) Unwrap() []error {
	if e.err == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.err}
}

// Retryable returns true for transient failures.
func (e *ProviderError) Retryable() bool {
	return e.kind == ErrServiceUnavailable || e.kind == ErrRateLimited
}
