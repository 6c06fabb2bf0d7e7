package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
)

// ==================== Translation Store ====================

// translationStore implements driven.TranslationStore so cached
// translations survive restarts.
type translationStore struct {
	store *Store
}

var _ driven.TranslationStore = (*translationStore)(nil)

// Get returns the entry for key.
func (s *translationStore) Get(ctx context.Context, key domain.TranslationKey) (domain.TranslationEntry, bool, error) {
	entry := domain.TranslationEntry{Key: key}
	row := s.store.db.QueryRowContext(ctx, `
		SELECT text, created_at FROM translations
		WHERE text_hash = ? AND source = ? AND target = ? AND cultural = ?
	`, hashColumn(key.TextHash), string(key.Source), string(key.Target), key.Cultural)

	err := row.Scan(&entry.Text, &entry.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TranslationEntry{}, false, nil
	}
	if err != nil {
		return domain.TranslationEntry{}, false, fmt.Errorf("reading translation: %w", err)
	}
	return entry, true, nil
}

// Put stores an entry, replacing any previous value for its key.
func (s *translationStore) Put(ctx context.Context, entry domain.TranslationEntry) error {
	k := entry.Key
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO translations (text_hash, source, target, cultural, text, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(text_hash, source, target, cultural) DO UPDATE SET
			text = excluded.text,
			created_at = excluded.created_at
	`, hashColumn(k.TextHash), string(k.Source), string(k.Target), k.Cultural, entry.Text, entry.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving translation: %w", err)
	}
	return nil
}

// Clear removes every entry.
func (s *translationStore) Clear(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM translations"); err != nil {
		return fmt.Errorf("clearing translations: %w", err)
	}
	return nil
}

// Len returns the number of entries.
func (s *translationStore) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM translations").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting translations: %w", err)
	}
	return n, nil
}

// hashColumn stores the unsigned hash in SQLite's signed INTEGER.
func hashColumn(h uint64) int64 {
	return int64(h) //nolint:gosec // bit pattern preserved
}
