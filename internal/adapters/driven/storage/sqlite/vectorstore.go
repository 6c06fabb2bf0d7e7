package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/viant/sqlite-vec/vector"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
)

// ==================== Vector Store ====================

// vectorStore implements driven.VectorStore over the chunks table.
// Similarity is computed in Go over the decoded embedding BLOBs.
type vectorStore struct {
	store *Store
}

var _ driven.VectorStore = (*vectorStore)(nil)

// Upsert stores a chunk, keeping the original insertion order of a replaced ID.
func (s *vectorStore) Upsert(ctx context.Context, chunk domain.Chunk) error {
	if len(chunk.Embedding) == 0 {
		return fmt.Errorf("upsert %s: %w: missing embedding", chunk.ID, domain.ErrInvalidInput)
	}
	blob, err := vector.EncodeEmbedding(chunk.Embedding)
	if err != nil {
		return fmt.Errorf("encoding embedding: %w", err)
	}
	metadata, err := marshalMetadata(chunk.Metadata)
	if err != nil {
		return err
	}

	return s.store.withTx(ctx, func(tx *sql.Tx) error {
		dims, ok, err := indexDimensions(ctx, tx)
		if err != nil {
			return err
		}
		if ok && dims != len(chunk.Embedding) {
			return fmt.Errorf("upsert %s: %w: got %d, index has %d",
				chunk.ID, domain.ErrDimensionMismatch, len(chunk.Embedding), dims)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO chunks (id, document_id, document_name, position, content,
				start_offset, end_offset, language, confidence, dims, embedding, metadata)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				document_id = excluded.document_id,
				document_name = excluded.document_name,
				position = excluded.position,
				content = excluded.content,
				start_offset = excluded.start_offset,
				end_offset = excluded.end_offset,
				language = excluded.language,
				confidence = excluded.confidence,
				dims = excluded.dims,
				embedding = excluded.embedding,
				metadata = excluded.metadata
		`, chunk.ID, chunk.DocumentID, chunk.DocumentName, chunk.Seq, chunk.Content,
			chunk.Start, chunk.End, string(chunk.Language), chunk.Confidence,
			len(chunk.Embedding), blob, metadata)
		if err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
		return nil
	})
}

// Search returns the k chunks most similar to query, ties broken by
// insertion order. Returned chunks carry no embedding.
func (s *vectorStore) Search(ctx context.Context, query []float32, k int, filter *domain.Language) ([]domain.ScoredChunk, error) {
	results := []domain.ScoredChunk{}
	if k <= 0 {
		return results, nil
	}

	dims, ok, err := indexDimensions(ctx, s.store.db)
	if err != nil {
		return nil, err
	}
	if !ok {
		return results, nil
	}
	if dims != len(query) {
		return nil, fmt.Errorf("search: %w: query has %d, index has %d", domain.ErrDimensionMismatch, len(query), dims)
	}

	q := `SELECT id, document_id, document_name, position, content, start_offset,
		end_offset, language, confidence, embedding, metadata FROM chunks`
	var args []any
	if filter != nil {
		q += " WHERE language = ?"
		args = append(args, string(*filter))
	}
	q += " ORDER BY seq"

	rows, err := s.store.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		chunk, embedding, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		score, err := vector.CosineSimilarity(query, embedding)
		if err != nil {
			// Zero-magnitude vectors have no direction to compare.
			continue
		}
		results = append(results, domain.ScoredChunk{Chunk: *chunk, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	// Rows arrive in seq order; a stable sort keeps it among equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// DeleteDocument removes every chunk of a document.
func (s *vectorStore) DeleteDocument(ctx context.Context, documentID string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// DeleteAll removes every chunk.
func (s *vectorStore) DeleteAll(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// Stats reports the stored chunks, documents, languages and files.
func (s *vectorStore) Stats(ctx context.Context) (domain.IndexStats, error) {
	var stats domain.IndexStats
	row := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*), COUNT(DISTINCT document_id) FROM chunks")
	if err := row.Scan(&stats.Chunks, &stats.Documents); err != nil {
		return stats, fmt.Errorf("counting chunks: %w", err)
	}

	langs, err := distinctStrings(ctx, s.store.db, "SELECT DISTINCT language FROM chunks ORDER BY language")
	if err != nil {
		return stats, err
	}
	stats.Languages = make([]domain.Language, len(langs))
	for i, l := range langs {
		stats.Languages[i] = domain.Language(l)
	}
	stats.LanguageCount = len(stats.Languages)

	stats.Files, err = distinctStrings(ctx, s.store.db, "SELECT DISTINCT document_name FROM chunks ORDER BY document_name")
	if err != nil {
		return stats, err
	}
	return stats, nil
}

// Close is a no-op; the owning Store closes the database.
func (s *vectorStore) Close() error {
	return nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// indexDimensions returns the embedding size of the stored chunks.
// ok is false when the index is empty.
func indexDimensions(ctx context.Context, q querier) (dims int, ok bool, err error) {
	err = q.QueryRowContext(ctx, "SELECT dims FROM chunks LIMIT 1").Scan(&dims)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading index dimensions: %w", err)
	}
	return dims, true, nil
}

func distinctStrings(ctx context.Context, db *sql.DB, query string) ([]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying distinct values: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating values: %w", err)
	}
	return values, nil
}

func scanChunk(rows *sql.Rows) (*domain.Chunk, []float32, error) {
	var (
		chunk    domain.Chunk
		language string
		blob     []byte
		metadata sql.NullString
	)
	err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.DocumentName, &chunk.Seq,
		&chunk.Content, &chunk.Start, &chunk.End, &language, &chunk.Confidence, &blob, &metadata)
	if err != nil {
		return nil, nil, fmt.Errorf("scanning chunk: %w", err)
	}
	chunk.Language = domain.Language(language)

	embedding, err := vector.DecodeEmbedding(blob)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding embedding for %s: %w", chunk.ID, err)
	}
	if chunk.Metadata, err = unmarshalMetadata(metadata); err != nil {
		return nil, nil, err
	}
	return &chunk, embedding, nil
}
