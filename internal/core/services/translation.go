package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/minio/highwayhash"
	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
	"github.com/custodia-labs/polyglot/internal/core/ports/driving"
	"github.com/custodia-labs/polyglot/internal/logger"
)

// Ensure TranslationCache implements the interface.
var _ driving.TranslationService = (*TranslationCache)(nil)

// flightTimeout bounds a shared translator call once it no longer follows
// the context of the caller that started it.
const flightTimeout = 3 * time.Minute

// hashKey is the fixed HighwayHash key. Changing it invalidates persisted entries.
var hashKey = []byte("polyglot-translation-cache-key-1")

// TranslationCache memoises an external translator. Identical requests
// reach the translator at most once per cache lifetime; concurrent misses
// on one key share a single call.
type TranslationCache struct {
	translator driven.Translator
	store      driven.TranslationStore
	group      singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
}

// NewTranslationCache creates a cache over store. translator may be nil,
// in which case every miss fails with ErrTranslationUnavailable.
func NewTranslationCache(translator driven.Translator, store driven.TranslationStore) *TranslationCache {
	return &TranslationCache{
		translator: translator,
		store:      store,
	}
}

// TranslationKeyFor builds the cache key for a request.
func TranslationKeyFor(text string, source, target domain.Language, cultural bool) domain.TranslationKey {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		// Only possible with a key that is not 32 bytes.
		panic(err)
	}
	h.Write([]byte(text))
	return domain.TranslationKey{
		TextHash: h.Sum64(),
		Source:   source,
		Target:   target,
		Cultural: cultural,
	}
}

// Translate returns text in target. When source equals target the text is
// returned unchanged without touching the cache or its counters.
func (c *TranslationCache) Translate(ctx context.Context, text string, source, target domain.Language, cultural bool) (string, error) {
	if source == target {
		return text, nil
	}
	if !source.IsValid() || !target.IsValid() {
		return "", fmt.Errorf("translate %s->%s: %w", source, target, domain.ErrUnsupportedLanguage)
	}

	key := TranslationKeyFor(text, source, target, cultural)
	entry, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%w: cache lookup: %w", domain.ErrTranslationUnavailable, err)
	}
	if ok {
		c.hits.Add(1)
		logger.Debug("Translation cache hit %s->%s", source, target)
		return entry.Text, nil
	}
	c.misses.Add(1)

	if c.translator == nil {
		return "", fmt.Errorf("translate %s->%s: %w", source, target, domain.ErrTranslationUnavailable)
	}

	// The shared call outlives any single caller: one caller going away
	// must not fail the others waiting on the same key.
	flight := c.group.DoChan(flightKey(key), func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()
		return c.translate(fctx, key, text)
	})

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("translate %s->%s: %w", source, target, ctx.Err())
	case res := <-flight:
		if res.Err != nil {
			return "", fmt.Errorf("translate %s->%s: %w: %w", source, target, domain.ErrTranslationUnavailable, res.Err)
		}
		if res.Shared {
			logger.Debug("Translation %s->%s shared with a concurrent request", source, target)
		}
		return res.Val.(string), nil
	}
}

// translate calls the translator once for key and stores the result.
func (c *TranslationCache) translate(ctx context.Context, key domain.TranslationKey, text string) (string, error) {
	// A call that finished just before this one may already have stored it.
	if entry, ok, err := c.store.Get(ctx, key); err == nil && ok {
		return entry.Text, nil
	}

	out, err := c.translator.Translate(ctx, domain.TranslationRequest{
		Text:     text,
		Source:   key.Source,
		Target:   key.Target,
		Cultural: key.Cultural,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", domain.NewInvalidResponseError("translator", "translate", "empty translation")
	}

	if err := c.store.Put(ctx, domain.TranslationEntry{Key: key, Text: out, CreatedAt: time.Now()}); err != nil {
		logger.Warn("Translation not cached: %v", err)
	}
	return out, nil
}

// Clear removes every entry and resets the hit and miss counters.
func (c *TranslationCache) Clear(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear translation cache: %w", err)
	}
	c.hits.Store(0)
	c.misses.Store(0)
	return nil
}

// Size returns the number of cached translations.
func (c *TranslationCache) Size(ctx context.Context) (int, error) {
	return c.store.Len(ctx)
}

// Stats reports hits and misses since the last Clear and the current size.
func (c *TranslationCache) Stats(ctx context.Context) domain.CacheStats {
	size, err := c.store.Len(ctx)
	if err != nil {
		logger.Warn("Translation cache size unavailable: %v", err)
	}
	return domain.CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   size,
	}
}

func flightKey(k domain.TranslationKey) string {
	return fmt.Sprintf("%016x|%s|%s|%t", k.TextHash, k.Source, k.Target, k.Cultural)
}
