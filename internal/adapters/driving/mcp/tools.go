package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/polyglot/internal/core/domain"
)

// errNoIngest is returned by tools that need the ingest service.
var errNoIngest = errors.New("document management is not available")

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question, in any supported language"`
	Target   string `json:"target,omitempty" jsonschema:"language code the answer is written in (default en)"`
	Scope    string `json:"scope,omitempty" jsonschema:"search only documents in this language code, or all (default)"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of document chunks to retrieve (default from settings)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Outcome        string         `json:"outcome"`
	Answer         string         `json:"answer"`
	QueryLanguage  string         `json:"query_language,omitempty"`
	TargetLanguage string         `json:"target_language,omitempty"`
	AnswerLanguage string         `json:"answer_language,omitempty"`
	Sources        []SourceOutput `json:"sources"`
	Warnings       []string       `json:"warnings,omitempty"`
}

// SourceOutput attributes part of an answer to an uploaded document.
type SourceOutput struct {
	FileName   string  `json:"file_name"`
	Language   string  `json:"language"`
	Similarity float64 `json:"similarity"`
}

// UploadInput is the input schema for the upload tool.
type UploadInput struct {
	Path string `json:"path" jsonschema:"absolute path of a txt, md, pdf, docx, xlsx or csv file"`
}

// DocumentOutput describes an uploaded document.
type DocumentOutput struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Format   string `json:"format"`
	Language string `json:"language"`
	Size     int64  `json:"size"`
	Chunks   int    `json:"chunks"`
}

// StatsInput is the input schema for the stats tool.
type StatsInput struct{}

// LanguagesInput is the input schema for the languages tool.
type LanguagesInput struct{}

// LanguagesOutput lists supported languages.
type LanguagesOutput struct {
	Languages []LanguageOutput `json:"languages"`
}

// LanguageOutput is one supported language.
type LanguageOutput struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ClearInput is the input schema for the clear tool.
type ClearInput struct {
	Confirm bool `json:"confirm" jsonschema:"must be true; deletes every document and cached translation"`
}

// ClearOutput reports the clear tool result.
type ClearOutput struct {
	Cleared bool `json:"cleared"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the uploaded documents in the requested language, with sources",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "upload",
		Description: "Upload a local document so it can be asked about",
	}, s.handleUpload)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "stats",
		Description: "Show indexed documents, chunks, languages and translation cache usage",
	}, s.handleStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "languages",
		Description: "List the supported language codes",
	}, s.handleLanguages)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "clear",
		Description: "Delete every uploaded document and cached translation",
	}, s.handleClear)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	query := domain.Query{Text: input.Question, TopK: input.TopK}

	if input.Target != "" {
		target, err := domain.ParseLanguage(input.Target)
		if err != nil {
			return nil, AskOutput{}, err
		}
		query.Target = target
	}
	scope, err := domain.ParseScope(input.Scope)
	if err != nil {
		return nil, AskOutput{}, err
	}
	query.Scope = scope

	result := s.ports.RAG.Answer(ctx, query)
	if result.Outcome == domain.OutcomeFailed {
		return nil, AskOutput{}, fmt.Errorf("%s: %w", result.Kind, result.Err)
	}

	return nil, askOutput(result), nil
}

func askOutput(result domain.Result) AskOutput {
	out := AskOutput{
		Outcome: string(result.Outcome),
		Sources: []SourceOutput{},
	}
	for _, w := range result.Warnings {
		out.Warnings = append(out.Warnings, w.Message)
	}

	if result.Answer == nil {
		out.Answer = result.Message
		return out
	}

	a := result.Answer
	out.Answer = a.Text
	out.QueryLanguage = a.QueryLanguage.String()
	out.TargetLanguage = a.TargetLanguage.String()
	out.AnswerLanguage = a.AnswerLanguage.String()
	for _, src := range a.Sources {
		out.Sources = append(out.Sources, SourceOutput{
			FileName:   src.FileName,
			Language:   src.Language.String(),
			Similarity: src.Similarity,
		})
	}
	return out
}

// handleUpload handles the upload tool invocation.
func (s *Server) handleUpload(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UploadInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	if s.ports.Ingest == nil {
		return nil, DocumentOutput{}, errNoIngest
	}

	doc, err := s.ports.Ingest.IngestFile(ctx, input.Path)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, documentOutput(*doc), nil
}

func documentOutput(d domain.Document) DocumentOutput {
	return DocumentOutput{
		ID:       d.ID,
		Name:     d.Name,
		Format:   d.Format.String(),
		Language: d.Language.String(),
		Size:     d.Size,
		Chunks:   d.ChunkCount,
	}
}

// handleStats handles the stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, domain.SystemStats, error) {
	if s.ports.Ingest == nil {
		return nil, domain.SystemStats{}, errNoIngest
	}

	stats, err := s.ports.Ingest.Stats(ctx)
	if err != nil {
		return nil, domain.SystemStats{}, err
	}
	return nil, stats, nil
}

// handleLanguages handles the languages tool invocation.
func (s *Server) handleLanguages(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ LanguagesInput,
) (*mcp.CallToolResult, LanguagesOutput, error) {
	return nil, LanguagesOutput{Languages: supportedLanguages()}, nil
}

func supportedLanguages() []LanguageOutput {
	langs := domain.SupportedLanguages()
	out := make([]LanguageOutput, len(langs))
	for i, l := range langs {
		out[i] = LanguageOutput{Code: l.String(), Name: l.Name()}
	}
	return out
}

// handleClear handles the clear tool invocation.
func (s *Server) handleClear(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ClearInput,
) (*mcp.CallToolResult, ClearOutput, error) {
	if s.ports.Ingest == nil {
		return nil, ClearOutput{}, errNoIngest
	}
	if !input.Confirm {
		return nil, ClearOutput{}, errors.New("set confirm to true to delete every document")
	}

	if err := s.ports.Ingest.Clear(ctx); err != nil {
		return nil, ClearOutput{}, err
	}
	return nil, ClearOutput{Cleared: true}, nil
}
