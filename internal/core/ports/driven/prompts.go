package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names are an error.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptAnswerSystem is the system prompt for grounded answers.
	// It has no placeholders.
	PromptAnswerSystem = "answer_system"

	// PromptAnswerUser frames the question. Placeholders in order:
	// %s context, %s question, %s language directive.
	PromptAnswerUser = "answer_user"

	// PromptTranslate drives the LLM-backed translator. Placeholders in order:
	// %s source language name, %s target language name, %s directive, %s text.
	PromptTranslate = "translate"
)
