// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TextExtractor: Extracts plain text from one upload format
//   - ExtractorRegistry: Selects the extractor for a format
//   - LanguageClassifier: Statistical language identification
//   - VectorStore: Chunk and embedding persistence with similarity search
//   - TranslationStore: Translation cache entries
//   - DocumentStore: Ingested document records
//   - ConfigStore: Application configuration
//   - PromptStore: Answer and translation prompt templates
//
// # Provider Interfaces
//
// These call external services. Without them the query path fails with
// a classified service_unavailable error rather than crashing:
//
//   - EmbeddingService: Generates multilingual vector embeddings.
//   - LLMService: Generates answers.
//   - Translator: Translates text, optionally with cultural adaptation.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
