package tui

import (
	"context"

	"github.com/custodia-labs/polyglot/internal/core/domain"
)

type mockRAG struct {
	result domain.Result
}

func (m *mockRAG) Answer(context.Context, domain.Query) domain.Result {
	return m.result
}

type mockIngest struct {
	documents []domain.Document
	err       error
}

func (m *mockIngest) Ingest(context.Context, domain.Upload) (*domain.Document, error) {
	return nil, m.err
}

func (m *mockIngest) IngestFile(context.Context, string) (*domain.Document, error) {
	return nil, m.err
}

func (m *mockIngest) Documents(context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockIngest) Stats(context.Context) (domain.SystemStats, error) {
	return domain.SystemStats{}, m.err
}

func (m *mockIngest) Clear(context.Context) error { return m.err }

type mockSettings struct{}

func (m *mockSettings) Get() (*domain.AppSettings, error) {
	s := domain.DefaultAppSettings()
	return &s, nil
}

func (m *mockSettings) Save(*domain.AppSettings) error { return nil }

func (m *mockSettings) Set(string, string) error { return nil }

func (m *mockSettings) Keys() []string { return nil }

func (m *mockSettings) SetEmbeddingProvider(domain.AIProvider, string, string) error { return nil }

func (m *mockSettings) SetLLMProvider(domain.AIProvider, string, string) error { return nil }

func (m *mockSettings) Validate() error { return nil }

func (m *mockSettings) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettings) ValidateEmbeddingConfig(context.Context) error { return nil }

func (m *mockSettings) ValidateLLMConfig(context.Context) error { return nil }
