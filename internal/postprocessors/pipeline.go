// Package postprocessors turns extracted document text into tagged chunks.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
	"github.com/custodia-labs/polyglot/internal/logger"
)

var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline runs ingestion stages in order. The first stage receives no
// chunks and creates them; later stages refine what they are given.
type Pipeline struct {
	stages []driven.PostProcessor
}

// NewPipeline returns a pipeline running stages in the given order.
func NewPipeline(stages ...driven.PostProcessor) *Pipeline {
	return &Pipeline{stages: stages}
}

// BuildPipeline builds the stages named in cfg from r.
func BuildPipeline(r *Registry, cfg domain.PipelineConfig) (*Pipeline, error) {
	stages := make([]driven.PostProcessor, 0, len(cfg.Processors))
	for _, name := range cfg.Processors {
		stage, err := r.Build(name, cfg.GetProcessorConfig(name))
		if err != nil {
			return nil, fmt.Errorf("build pipeline: %w", err)
		}
		stages = append(stages, stage)
	}
	return NewPipeline(stages...), nil
}

// Process runs doc through every stage. It stops at the first failing
// stage or when ctx is done, so a document is never half processed.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}

	var chunks []domain.Chunk
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		done := logger.Timed(doc.Name + " " + stage.Name())
		out, err := stage.Process(ctx, doc, chunks)
		done()
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", stage.Name(), err)
		}
		if err := checkOwnership(doc, out); err != nil {
			return nil, fmt.Errorf("processor %s: %w", stage.Name(), err)
		}
		chunks = out
	}
	return chunks, nil
}

// checkOwnership rejects chunks attributed to another document.
func checkOwnership(doc *domain.Document, chunks []domain.Chunk) error {
	for i := range chunks {
		if chunks[i].DocumentID != doc.ID {
			return fmt.Errorf("chunk %s belongs to %q, not %q", chunks[i].ID, chunks[i].DocumentID, doc.ID)
		}
	}
	return nil
}

// Stages returns the stage names in run order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}
