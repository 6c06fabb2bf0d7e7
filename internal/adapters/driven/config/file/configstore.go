package file

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// configFile is the settings file name inside the config directory.
const configFile = "config.toml"

// ConfigStore keeps settings in config.toml. In memory every value sits
// under its dotted key; on disk the first segments become tables, so
// "llm.provider" is written as provider under [llm].
type ConfigStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
}

// NewConfigStore opens dir/config.toml, creating dir (~/.polyglot when
// empty) if needed. A missing file is an empty configuration.
func NewConfigStore(dir string) (*ConfigStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".polyglot")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	s := &ConfigStore{path: filepath.Join(dir, configFile)}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the file the store reads and writes.
func (s *ConfigStore) Path() string {
	return s.path
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value and rewrites the file.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.write()
}

func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write()
}

// Load replaces the in-memory values with the file's.
func (s *ConfigStore) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.mu.Lock()
		s.values = make(map[string]any)
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	var tables map[string]any
	if err := toml.Unmarshal(data, &tables); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}

	values := make(map[string]any)
	flatten(tables, "", values)

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

// write saves the file with owner-only permissions; it may hold API keys.
// The caller holds mu.
func (s *ConfigStore) write() error {
	data, err := toml.Marshal(nest(s.values))
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// nest turns {"a.b": 1} into {"a": {"b": 1}}. A key that is also a prefix
// of other keys stays under its full dotted name.
func nest(flat map[string]any) map[string]any {
	root := make(map[string]any)
	// Sorted so a bare key is placed before the keys it prefixes.
	for _, key := range slices.Sorted(maps.Keys(flat)) {
		segments := strings.Split(key, ".")
		table, ok := tableFor(root, segments[:len(segments)-1])
		if !ok {
			root[key] = flat[key]
			continue
		}
		table[segments[len(segments)-1]] = flat[key]
	}
	return root
}

// tableFor walks or creates the tables named by path. It reports false
// when a segment already holds a plain value.
func tableFor(root map[string]any, path []string) (map[string]any, bool) {
	table := root
	for _, name := range path {
		switch child := table[name].(type) {
		case nil:
			next := make(map[string]any)
			table[name] = next
			table = next
		case map[string]any:
			table = child
		default:
			return nil, false
		}
	}
	return table, true
}

// flatten writes every leaf of tables into out under its dotted key.
func flatten(tables map[string]any, prefix string, out map[string]any) {
	for name, v := range tables {
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		if sub, ok := v.(map[string]any); ok {
			flatten(sub, key, out)
			continue
		}
		out[key] = v
	}
}
