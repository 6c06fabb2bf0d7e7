package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
)

// Ensure TranslationStore implements the interface.
var _ driven.TranslationStore = (*TranslationStore)(nil)

// TranslationStore is an in-memory implementation of driven.TranslationStore.
// It is unbounded; entries live until Clear.
type TranslationStore struct {
	mu      sync.RWMutex
	entries map[domain.TranslationKey]domain.TranslationEntry
}

// NewTranslationStore creates a new in-memory translation store.
func NewTranslationStore() *TranslationStore {
	return &TranslationStore{
		entries: make(map[domain.TranslationKey]domain.TranslationEntry),
	}
}

// Get returns the entry for key.
func (s *TranslationStore) Get(_ context.Context, key domain.TranslationKey) (domain.TranslationEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	return entry, ok, nil
}

// Put stores an entry, replacing any previous value for its key.
func (s *TranslationStore) Put(_ context.Context, entry domain.TranslationEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Key] = entry
	return nil
}

// Clear removes every entry.
func (s *TranslationStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.entries)
	return nil
}

// Len returns the number of entries.
func (s *TranslationStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}
