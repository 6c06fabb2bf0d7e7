package domain

// Outcome tags the result of an answer request.
type Outcome string

// Answer outcomes.
const (
	// OutcomeOK is a grounded answer in the requested language.
	OutcomeOK Outcome = "ok"

	// OutcomeNoResults means retrieval found nothing. It is not an error.
	OutcomeNoResults Outcome = "no_results"

	// OutcomeDegraded is a usable answer that carries warnings,
	// e.g. it could not be translated into the target language.
	OutcomeDegraded Outcome = "degraded"

	// OutcomeFailed means no answer could be produced; see Kind.
	OutcomeFailed Outcome = "failed"
)

// WarningCode identifies a machine-readable warning.
type WarningCode string

// Warning codes.
const (
	// WarningLanguageMismatch: the generated answer is not in the target language.
	WarningLanguageMismatch WarningCode = "language_mismatch"

	// WarningTranslationFailed: post-translation failed, the answer is untranslated.
	WarningTranslationFailed WarningCode = "translation_failed"

	// WarningContextTruncated: low-scoring chunks were dropped to fit the budget.
	WarningContextTruncated WarningCode = "context_truncated"
)

// Warning accompanies a degraded or truncated result.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// Result is the tagged outcome of the RAG orchestrator.
// Exactly one of Answer (OK, Degraded) or Message (NoResults) or
// Kind/Err (Failed) is meaningful.
type Result struct {
	Outcome  Outcome   `json:"outcome"`
	Answer   *Answer   `json:"answer,omitempty"`
	Message  string    `json:"message,omitempty"`
	Warnings []Warning `json:"warnings,omitempty"`
	Kind     ErrorKind `json:"error_kind,omitempty"`
	Err      error     `json:"-"`
}

// Success reports whether the result carries an answer.
func (r Result) Success() bool {
	return r.Outcome == OutcomeOK || r.Outcome == OutcomeDegraded
}

// HasWarning reports whether a warning with the given code is present.
func (r Result) HasWarning(code WarningCode) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

// Failed builds an OutcomeFailed result classified from err.
func Failed(err error) Result {
	return Result{
		Outcome: OutcomeFailed,
		Kind:    ClassifyError(err),
		Err:     err,
		Message: err.Error(),
	}
}
