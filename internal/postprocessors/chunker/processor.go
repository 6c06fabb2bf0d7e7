// Package chunker splits document text into overlapping, boundary-aware chunks.
package chunker

import (
	"context"
	"fmt"
	"iter"

	"github.com/custodia-labs/polyglot/internal/core/domain"
)

// DefaultChunkSize is the default target number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// DefaultTolerance is the default window around the target size searched
// for a paragraph or sentence break.
const DefaultTolerance = 100

// Processor splits document content into chunks. Sizes are in runes.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
	tolerance int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithTolerance sets how far from the target size a break may be.
func WithTolerance(tolerance int) Option {
	return func(p *Processor) {
		if tolerance >= 0 {
			p.tolerance = tolerance
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		tolerance: DefaultTolerance,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	// Every break must land past the overlap or the next chunk would not advance.
	if limit := p.chunkSize - p.overlap - 1; p.tolerance > limit {
		p.tolerance = max(limit, 0)
	}

	return p
}

// Name is the pipeline stage name.
const Name = "chunker"

// Name returns the stage name.
func (p *Processor) Name() string {
	return Name
}

// Process normalises doc.Content in place, so chunk offsets index into it,
// and splits it. Input chunks are ignored.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	seq, err := p.Split(doc.ID, doc.Content)
	if err != nil {
		return nil, err
	}
	doc.Content = Normalise(doc.Content)

	var chunks []domain.Chunk
	for chunk := range seq {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunk.DocumentName = doc.Name
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// Split normalises text and returns the sequence of its chunks.
// The sequence is lazy and restartable: every range recomputes it from
// the start. Returns domain.ErrEmptyInput if nothing remains after
// normalisation.
func (p *Processor) Split(documentID, text string) (iter.Seq[domain.Chunk], error) {
	normalised := Normalise(text)
	if normalised == "" {
		return nil, fmt.Errorf("chunk %q: %w", documentID, domain.ErrEmptyInput)
	}

	return func(yield func(domain.Chunk) bool) {
		runes := []rune(normalised)
		n := len(runes)

		for seq, start := 0, 0; ; seq++ {
			end := n
			if n-start > p.chunkSize {
				end = p.boundary(runes, start)
			}

			chunk := domain.Chunk{
				ID:         domain.ChunkID(documentID, seq),
				DocumentID: documentID,
				Seq:        seq,
				Content:    string(runes[start:end]),
				Start:      start,
				End:        end,
			}
			if !yield(chunk) || end == n {
				return
			}
			start = end - p.overlap
		}
	}, nil
}

// boundary picks the end of the chunk starting at start. Only called when
// more than chunkSize runes remain, so target < len(runes).
func (p *Processor) boundary(runes []rune, start int) int {
	target := start + p.chunkSize
	lo := max(target-p.tolerance, start+p.overlap+1)
	hi := min(target+p.tolerance, len(runes)-1)

	if end, ok := nearest(runes, lo, hi, target, isParagraphEnd); ok {
		return end
	}
	if end, ok := nearest(runes, lo, hi, target, isSentenceEnd); ok {
		return end
	}
	return target
}

// nearest returns the end position in [lo, hi] closest to target that
// satisfies match, preferring the earlier one on a tie.
func nearest(runes []rune, lo, hi, target int, match func([]rune, int) bool) (int, bool) {
	for d := 0; target-d >= lo || target+d <= hi; d++ {
		if e := target - d; e >= lo && e <= hi && match(runes, e) {
			return e, true
		}
		if e := target + d; d > 0 && e >= lo && e <= hi && match(runes, e) {
			return e, true
		}
	}
	return 0, false
}

// isParagraphEnd reports whether a chunk ending at end closes a paragraph.
func isParagraphEnd(runes []rune, end int) bool {
	return end >= 2 && runes[end-1] == '\n' && runes[end-2] == '\n'
}

// isSentenceEnd reports whether a chunk ending at end closes a sentence.
// Latin terminators need following whitespace; CJK full-width ones do not.
func isSentenceEnd(runes []rune, end int) bool {
	if end < 1 {
		return false
	}
	switch runes[end-1] {
	case '。', '！', '？':
		return true
	case '.', '!', '?':
		return end == len(runes) || runes[end] == ' ' || runes[end] == '\n'
	default:
		return false
	}
}
