package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
	"github.com/custodia-labs/polyglot/internal/core/ports/driving"
	"github.com/custodia-labs/polyglot/internal/postprocessors/chunker"
	"github.com/custodia-labs/polyglot/internal/postprocessors/langtag"
)

// RegisterDefaults registers the chunker and the language tagger. The
// tagger shares the detector used for queries so chunks and questions are
// classified the same way.
func RegisterDefaults(r *Registry, detector driving.LanguageDetector) error {
	if err := r.Register(chunker.Name, buildChunker); err != nil {
		return err
	}
	return r.Register(langtag.Name, func(map[string]any) (driven.PostProcessor, error) {
		return langtag.New(detector), nil
	})
}

// buildChunker reads chunk_size, overlap and tolerance, all in runes.
// Missing keys keep the chunker defaults.
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	setters := []struct {
		key string
		opt func(int) chunker.Option
	}{
		{"chunk_size", chunker.WithChunkSize},
		{"overlap", chunker.WithOverlap},
		{"tolerance", chunker.WithTolerance},
	}

	var opts []chunker.Option
	for _, s := range setters {
		n, ok, err := intSetting(cfg, s.key)
		if err != nil {
			return nil, err
		}
		if ok {
			opts = append(opts, s.opt(n))
		}
	}
	return chunker.New(opts...), nil
}

// intSetting reads a non-negative integer. TOML decodes integers as int64
// and JSON as float64.
func intSetting(cfg map[string]any, key string) (int, bool, error) {
	raw, ok := cfg[key]
	if !ok {
		return 0, false, nil
	}

	var n int
	switch v := raw.(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		if v != float64(int(v)) {
			return 0, false, fmt.Errorf("%s: %v is not a whole number", key, v)
		}
		n = int(v)
	default:
		return 0, false, fmt.Errorf("%s: expected a number, got %T", key, raw)
	}
	if n < 0 {
		return 0, false, fmt.Errorf("%s: %d is negative", key, n)
	}
	return n, true, nil
}
