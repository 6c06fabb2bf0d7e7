// Package app assembles the services behind the driving adapters from the
// settings on disk.
package app

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/polyglot/internal/adapters/driven/ai"
	"github.com/custodia-labs/polyglot/internal/adapters/driven/config/file"
	"github.com/custodia-labs/polyglot/internal/adapters/driven/langdetect/lingua"
	"github.com/custodia-labs/polyglot/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/polyglot/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
	"github.com/custodia-labs/polyglot/internal/core/services"
	"github.com/custodia-labs/polyglot/internal/logger"
	"github.com/custodia-labs/polyglot/internal/normalisers"
	"github.com/custodia-labs/polyglot/internal/postprocessors"
)

// Options locates configuration and persistent state.
type Options struct {
	// ConfigDir holds config.toml and prompts/. Empty means ~/.polyglot.
	ConfigDir string

	// DataDir holds the SQLite database. It overrides storage.data_dir.
	DataDir string
}

// App holds the wired services for one process.
type App struct {
	Settings  *services.SettingsService
	Detector  *services.DetectorService
	Index     *services.IndexService
	Cache     *services.TranslationCache
	RAG       *services.RAGService
	Ingest    *services.IngestService
	Prompts   *file.PromptStore
	Providers *ai.Services
	Warnings  []string

	store *sqlite.Store
}

// New builds every service from the settings found under opts.ConfigDir.
// Providers that cannot be built are reported in Warnings; the commands
// that need them fail with the matching unavailable error.
func New(opts Options) (*App, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	promptDir := ""
	if opts.ConfigDir != "" {
		promptDir = filepath.Join(opts.ConfigDir, "prompts")
	}
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		return nil, fmt.Errorf("prompts: %w", err)
	}

	settingsSvc := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	if opts.DataDir != "" {
		settings.Storage.DataDir = opts.DataDir
	}

	store, err := sqlite.NewStore(settings.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	logger.Debug("Database: %s", store.Path())

	providers := ai.Build(settings, prompts)

	detector := services.NewDetectorService(lingua.NewClassifier(), settings.Detection)

	registry := postprocessors.NewRegistry()
	if err := postprocessors.RegisterDefaults(registry, detector); err != nil {
		providers.Close()
		_ = store.Close()
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	pipeline, err := postprocessors.BuildPipeline(registry, domain.PipelineConfigFor(settings.Chunking))
	if err != nil {
		providers.Close()
		_ = store.Close()
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	var translations driven.TranslationStore = memory.NewTranslationStore()
	if settings.Translation.Persist {
		translations = store.TranslationStore()
	}

	index := services.NewIndexService(providers.Embedding, store.VectorStore())
	cache := services.NewTranslationCache(providers.Translator, translations)
	rag := services.NewRAGService(index, detector, providers.LLM, cache, prompts, services.RAGConfigFrom(settings))
	ingest := services.NewIngestService(
		normalisers.NewDefaultRegistry(),
		pipeline,
		detector,
		index,
		store.DocumentStore(),
		cache,
		services.IngestConfig{
			MaxFileSize:    settings.Upload.MaxFileSize,
			AllowedFormats: settings.Upload.AllowedFormats,
		},
	)

	return &App{
		Settings:  settingsSvc,
		Detector:  detector,
		Index:     index,
		Cache:     cache,
		RAG:       rag,
		Ingest:    ingest,
		Prompts:   prompts,
		Providers: providers,
		Warnings:  providers.Warnings,
		store:     store,
	}, nil
}

// DataPath returns the database file path.
func (a *App) DataPath() string {
	return a.store.Path()
}

// Close releases providers and the database.
func (a *App) Close() error {
	var errs []error
	if a.Providers != nil {
		a.Providers.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	return errors.Join(errs...)
}
