package mcp

import (
	"context"

	"github.com/custodia-labs/polyglot/internal/core/domain"
)

// mockRAGService is a mock implementation of driving.RAGService.
type mockRAGService struct {
	result domain.Result
	query  domain.Query
}

func (m *mockRAGService) Answer(_ context.Context, q domain.Query) domain.Result {
	m.query = q
	return m.result
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	documents []domain.Document
	document  *domain.Document
	stats     domain.SystemStats
	path      string
	cleared   bool
	err       error
}

func (m *mockIngestService) Ingest(_ context.Context, _ domain.Upload) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockIngestService) IngestFile(_ context.Context, path string) (*domain.Document, error) {
	m.path = path
	return m.document, m.err
}

func (m *mockIngestService) Documents(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockIngestService) Stats(_ context.Context) (domain.SystemStats, error) {
	return m.stats, m.err
}

func (m *mockIngestService) Clear(_ context.Context) error {
	if m.err == nil {
		m.cleared = true
	}
	return m.err
}
