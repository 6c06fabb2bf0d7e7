package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/viant/sqlite-vec/vector"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
// Search is brute force over every stored chunk.
type VectorStore struct {
	mu      sync.RWMutex
	entries []domain.Chunk
	byID    map[string]int
	dims    int
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		byID: make(map[string]int),
	}
}

// Upsert stores a chunk. A chunk with an existing ID is replaced in place
// and keeps its insertion position.
func (s *VectorStore) Upsert(_ context.Context, chunk domain.Chunk) error {
	if len(chunk.Embedding) == 0 {
		return fmt.Errorf("upsert %s: %w: missing embedding", chunk.ID, domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dims != 0 && len(chunk.Embedding) != s.dims {
		return fmt.Errorf("upsert %s: %w: got %d, index has %d",
			chunk.ID, domain.ErrDimensionMismatch, len(chunk.Embedding), s.dims)
	}
	s.dims = len(chunk.Embedding)

	chunk.Embedding = slices.Clone(chunk.Embedding)
	if i, ok := s.byID[chunk.ID]; ok {
		s.entries[i] = chunk
		return nil
	}
	s.byID[chunk.ID] = len(s.entries)
	s.entries = append(s.entries, chunk)
	return nil
}

// Search returns the k most similar chunks. Returned chunks carry no embedding.
func (s *VectorStore) Search(_ context.Context, query []float32, k int, filter *domain.Language) ([]domain.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []domain.ScoredChunk{}
	if k <= 0 || len(s.entries) == 0 {
		return results, nil
	}
	if len(query) != s.dims {
		return nil, fmt.Errorf("search: %w: query has %d, index has %d", domain.ErrDimensionMismatch, len(query), s.dims)
	}

	for _, chunk := range s.entries {
		if filter != nil && chunk.Language != *filter {
			continue
		}
		score, err := vector.CosineSimilarity(query, chunk.Embedding)
		if err != nil {
			// Zero-magnitude vectors have no direction to compare.
			continue
		}
		chunk.Embedding = nil
		results = append(results, domain.ScoredChunk{Chunk: chunk, Score: score})
	}

	// Stable sort keeps insertion order among equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// DeleteDocument removes every chunk of a document.
func (s *VectorStore) DeleteDocument(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	for _, chunk := range s.entries {
		if chunk.DocumentID != documentID {
			kept = append(kept, chunk)
		}
	}
	clear(s.entries[len(kept):])
	s.entries = kept
	s.reindex()
	return nil
}

// DeleteAll removes every chunk and forgets the embedding dimension.
func (s *VectorStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.byID = make(map[string]int)
	s.dims = 0
	return nil
}

// Stats reports the stored chunks, documents, languages and files.
func (s *VectorStore) Stats(_ context.Context) (domain.IndexStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make(map[string]struct{})
	langs := make(map[domain.Language]struct{})
	files := make(map[string]struct{})
	for _, chunk := range s.entries {
		docs[chunk.DocumentID] = struct{}{}
		langs[chunk.Language] = struct{}{}
		files[chunk.DocumentName] = struct{}{}
	}

	stats := domain.IndexStats{
		Chunks:    len(s.entries),
		Documents: len(docs),
		Languages: make([]domain.Language, 0, len(langs)),
		Files:     make([]string, 0, len(files)),
	}
	for l := range langs {
		stats.Languages = append(stats.Languages, l)
	}
	for f := range files {
		stats.Files = append(stats.Files, f)
	}
	slices.Sort(stats.Languages)
	slices.Sort(stats.Files)
	stats.LanguageCount = len(stats.Languages)
	return stats, nil
}

// Close is a no-op for the in-memory store.
func (s *VectorStore) Close() error {
	return nil
}

func (s *VectorStore) reindex() {
	s.byID = make(map[string]int, len(s.entries))
	for i, chunk := range s.entries {
		s.byID[chunk.ID] = i
	}
}
