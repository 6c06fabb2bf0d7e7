package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
	"github.com/custodia-labs/polyglot/internal/logger"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// template is a built-in prompt and the number of %s verbs it is
// formatted with.
type template struct {
	text string
	args int
}

//nolint:lll // prompt text reads better unwrapped
var builtinPrompts = map[string]template{
	driven.PromptAnswerSystem: {args: 0, text: `You are a multilingual AI assistant. Answer the user's question using only the numbered context passages you are given.

Guidelines:
- Provide accurate and comprehensive answers based on the context
- Maintain cultural sensitivity and appropriate language style
- If the context doesn't contain enough information, say so clearly
- Cite sources by their file name when possible
- Be concise but thorough`},

	driven.PromptAnswerUser: {args: 3, text: `Context:
%s

Question: %s

%s`},

	driven.PromptTranslate: {args: 4, text: `Translate the following text from %s to %s.
%s
Preserve meaning, formatting, numbers and proper nouns. Return ONLY the translation, nothing else.

Text:
%s`},
}

const promptsReadme = `# Polyglot prompts

answer_system.txt  system prompt for grounded answers (no placeholders)
answer_user.txt    context, question, language directive (3 x %s)
translate.txt      source, target, directive, text (4 x %s)

Edit a file to change how answers and translations are written. A file
whose %s count is wrong is ignored and the built-in prompt is used.
Delete a file to restore the built-in prompt.
`

// DefaultPrompt returns the built-in template for name.
func DefaultPrompt(name string) (string, bool) {
	t, ok := builtinPrompts[name]
	return t.text, ok
}

// PromptStore serves prompt templates from ~/.polyglot/prompts. The
// directory and the built-in files are written on first use, never by the
// constructor.
type PromptStore struct {
	dir string

	seed    sync.Once
	seedErr error

	mu     sync.RWMutex
	loaded map[string]string
}

// NewPromptStore returns a store over dir, ~/.polyglot/prompts when empty.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".polyglot", "prompts")
	}
	return &PromptStore{dir: dir, loaded: make(map[string]string)}, nil
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the template for name. An unreadable or malformed user
// file falls back to the built-in template.
func (s *PromptStore) Load(name string) (string, error) {
	builtin, known := builtinPrompts[name]
	if !known {
		return "", fmt.Errorf("unknown prompt %q", name)
	}

	s.seed.Do(s.writeDefaults)
	if s.seedErr != nil {
		logger.Warn("prompts: %v", s.seedErr)
		return builtin.text, nil
	}

	s.mu.RLock()
	cached, ok := s.loaded[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	text := s.read(name, builtin)

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.loaded[name]; ok {
		return cached, nil
	}
	s.loaded[name] = text
	return text, nil
}

// read returns the user's file for name when it is usable.
func (s *PromptStore) read(name string, builtin template) string {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("prompt %s: %v", name, err)
		}
		return builtin.text
	}

	text := strings.TrimSpace(string(data))
	if n := strings.Count(text, "%s"); n != builtin.args {
		logger.Warn("prompt %s: has %d placeholders, want %d; using built-in", name, n, builtin.args)
		return builtin.text
	}
	return text
}

// Reload drops cached templates so edited files are read again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	clear(s.loaded)
	s.mu.Unlock()
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

// writeDefaults creates the directory and any missing built-in files.
// Existing files are never overwritten.
func (s *PromptStore) writeDefaults() {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		s.seedErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	files := map[string]string{"README.md": promptsReadme}
	for name, t := range builtinPrompts {
		files[name+".txt"] = t.text
	}
	for file, content := range files {
		path := filepath.Join(s.dir, file)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			s.seedErr = fmt.Errorf("write %s: %w", file, err)
			return
		}
	}
}
