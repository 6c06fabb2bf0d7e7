package markdown

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.TextExtractor = (*Normaliser)(nil)

var (
	codeFence    = regexp.MustCompile("(?m)^[ \t]*(```|~~~).*$")
	inlineCode   = regexp.MustCompile("`([^`]+)`")
	images       = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	links        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings     = regexp.MustCompile(`(?m)^#{1,6}[ \t]+`)
	blockquote   = regexp.MustCompile(`(?m)^>[ \t]?`)
	tableRules   = regexp.MustCompile(`(?m)^[ \t]*\|?[ \t]*:?-{3,}:?[ \t]*(\|[ \t]*:?-{3,}:?[ \t]*)*\|?[ \t]*$`)
	rules        = regexp.MustCompile(`(?m)^[ \t]*([-*_][ \t]*){3,}$`)
	listMarkers  = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)
	numberedList = regexp.MustCompile(`(?m)^[ \t]*\d+[.)][ \t]+`)
	starEmphasis = regexp.MustCompile(`(\*\*|\*)(\S(?:[^*]*?\S)?)(\*\*|\*)`)

	// Underscores only delimit emphasis at word edges, so snake_case survives.
	underscoreEmphasis = regexp.MustCompile(`(?m)(^|\s)(__|_)(\S(?:[^_]*?\S)?)(__|_)([\s.,;:!?)]|$)`)
)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Formats returns the formats this normaliser handles.
func (n *Normaliser) Formats() []domain.FileFormat {
	return []domain.FileFormat{domain.FormatMarkdown}
}

// Extract strips Markdown syntax and keeps the prose. Code inside fenced
// blocks is kept; only the fences go.
func (n *Normaliser) Extract(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: markdown is not valid UTF-8", domain.ErrCorruptFile)
	}
	return stripMarkdown(string(data)), nil
}

// stripMarkdown removes common Markdown formatting.
func stripMarkdown(content string) string {
	content = codeFence.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = images.ReplaceAllString(content, "$1")
	content = links.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = blockquote.ReplaceAllString(content, "")
	content = tableRules.ReplaceAllString(content, "")
	content = rules.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "")
	content = numberedList.ReplaceAllString(content, "")

	content = starEmphasis.ReplaceAllStringFunc(content, func(m string) string {
		sub := starEmphasis.FindStringSubmatch(m)
		if sub[1] != sub[3] {
			return m
		}
		return sub[2]
	})
	content = underscoreEmphasis.ReplaceAllStringFunc(content, func(m string) string {
		sub := underscoreEmphasis.FindStringSubmatch(m)
		if sub[2] != sub[4] {
			return m
		}
		return sub[1] + sub[3] + sub[5]
	})
	return strings.TrimSpace(content)
}
