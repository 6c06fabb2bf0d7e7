package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
	"github.com/custodia-labs/polyglot/internal/core/ports/driving"
	"github.com/custodia-labs/polyglot/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestConfig limits what may be uploaded.
type IngestConfig struct {
	// MaxFileSize is the upload limit in bytes. Zero disables the limit.
	MaxFileSize int64

	// AllowedFormats restricts uploads. Empty allows every format.
	AllowedFormats []domain.FileFormat
}

// IngestService extracts, chunks, tags and indexes uploaded files.
type IngestService struct {
	extractors driven.ExtractorRegistry
	pipeline   driven.PostProcessorPipeline
	detector   driving.LanguageDetector
	index      driving.IndexService
	documents  driven.DocumentStore
	cache      driving.TranslationService
	cfg        IngestConfig
}

// NewIngestService creates an ingest service. cache may be nil.
func NewIngestService(
	extractors driven.ExtractorRegistry,
	pipeline driven.PostProcessorPipeline,
	detector driving.LanguageDetector,
	index driving.IndexService,
	documents driven.DocumentStore,
	cache driving.TranslationService,
	cfg IngestConfig,
) *IngestService {
	return &IngestService{
		extractors: extractors,
		pipeline:   pipeline,
		detector:   detector,
		index:      index,
		documents:  documents,
		cache:      cache,
		cfg:        cfg,
	}
}

// DocumentID derives a stable document ID from a file name, so uploading
// the same name again replaces the earlier version.
func DocumentID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("polyglot:"+name)).String()
}

// Ingest processes one upload. On success the document's chunks are
// searchable and the document record is stored.
func (s *IngestService) Ingest(ctx context.Context, upload domain.Upload) (*domain.Document, error) {
	name := filepath.Base(upload.Name)
	logger.Section(fmt.Sprintf("Ingest %s", name))
	defer logger.Timed("ingest")()

	format, err := s.validate(name, upload.Data)
	if err != nil {
		return nil, err
	}

	text, err := s.extractors.Extract(ctx, format, upload.Data)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", name, err)
	}

	doc := &domain.Document{
		ID:      DocumentID(name),
		Name:    name,
		Format:  format,
		Size:    int64(len(upload.Data)),
		Content: text,
	}

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", name, err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrEmptyInput)
	}
	doc.ChunkCount = len(chunks)
	doc.Language = s.detector.Detect(doc.Content).Language
	logger.Debug("%s: %d chunks, primary language %s", name, len(chunks), doc.Language)

	// Replace the previous version of the same file.
	if err := s.index.DeleteDocument(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("replace %s: %w", name, err)
	}
	if err := s.index.Index(ctx, chunks); err != nil {
		s.discard(ctx, doc.ID)
		return nil, fmt.Errorf("index %s: %w", name, err)
	}

	doc.IngestedAt = time.Now()
	if err := s.documents.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save %s: %w", name, err)
	}
	logger.Info("Ingested %s (%d chunks, %s)", name, doc.ChunkCount, doc.Language.Name())

	doc.Content = ""
	return doc, nil
}

// discard removes a document whose chunks are gone or only partly indexed,
// so no listed document is missing from the index. It runs even when ctx
// is already cancelled.
func (s *IngestService) discard(ctx context.Context, id string) {
	ctx = context.WithoutCancel(ctx)
	if err := s.index.DeleteDocument(ctx, id); err != nil {
		logger.Warn("Removing partial chunks of %s: %v", id, err)
	}
	if err := s.documents.DeleteDocument(ctx, id); err != nil {
		logger.Warn("Removing document record %s: %v", id, err)
	}
}

// IngestFile reads path from disk and ingests it under its base name.
func (s *IngestService) IngestFile(ctx context.Context, path string) (*domain.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", path, domain.ErrInvalidInput)
	}
	if s.cfg.MaxFileSize > 0 && info.Size() > s.cfg.MaxFileSize {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrFileTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.Ingest(ctx, domain.Upload{Name: filepath.Base(path), Data: data})
}

// Documents lists ingested documents by name.
func (s *IngestService) Documents(ctx context.Context) ([]domain.Document, error) {
	return s.documents.ListDocuments(ctx)
}

// Stats aggregates index and cache statistics.
func (s *IngestService) Stats(ctx context.Context) (domain.SystemStats, error) {
	idx, err := s.index.Stats(ctx)
	if err != nil {
		return domain.SystemStats{}, fmt.Errorf("index stats: %w", err)
	}
	stats := domain.SystemStats{
		Index:              idx,
		SupportedLanguages: domain.SupportedLanguages(),
	}
	if s.cache != nil {
		stats.Cache = s.cache.Stats(ctx)
	}
	return stats, nil
}

// Clear removes every chunk, document record and cached translation.
func (s *IngestService) Clear(ctx context.Context) error {
	var errs []error
	if err := s.index.DeleteAll(ctx); err != nil {
		errs = append(errs, fmt.Errorf("clear index: %w", err))
	}
	if err := s.documents.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("clear documents: %w", err))
	}
	if s.cache != nil {
		if err := s.cache.Clear(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		logger.Info("Cleared all documents and cached translations")
	}
	return errors.Join(errs...)
}

func (s *IngestService) validate(name string, data []byte) (domain.FileFormat, error) {
	format, err := domain.FormatFromPath(name)
	if err != nil {
		return "", err
	}
	if len(s.cfg.AllowedFormats) > 0 && !slices.Contains(s.cfg.AllowedFormats, format) {
		return "", fmt.Errorf("%s: format %s not allowed: %w", name, format, domain.ErrUnsupportedFormat)
	}
	if s.cfg.MaxFileSize > 0 && int64(len(data)) > s.cfg.MaxFileSize {
		return "", fmt.Errorf("%s: %d bytes: %w", name, len(data), domain.ErrFileTooLarge)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%s: %w", name, domain.ErrEmptyInput)
	}
	return format, nil
}
