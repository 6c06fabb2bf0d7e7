// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/polyglot/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/polyglot/internal/core/domain"
)

// SourceList displays the documents an answer was drawn from.
type SourceList struct {
	sources  []domain.Source
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewSourceList creates an empty source list.
func NewSourceList(s *styles.Styles) *SourceList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &SourceList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Update handles navigation keys.
func (l *SourceList) Update(msg tea.Msg) (*SourceList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the sources with their language and similarity.
func (l *SourceList) View() string {
	if len(l.sources) == 0 {
		return l.styles.Muted.Render("No sources")
	}

	lines := make([]string, 0, len(l.sources)+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("Sources (%d)", len(l.sources))), "")

	start, end := l.visibleRange()
	nameWidth := max(l.width-20, 10)
	for i := start; i < end; i++ {
		src := l.sources[i]
		name := src.FileName
		if len(name) > nameWidth {
			name = name[:nameWidth-3] + "..."
		}

		line := fmt.Sprintf("%d. %-*s %3.0f%%", i+1, nameWidth, name, src.Similarity*100)
		if i == l.selected {
			line = l.styles.Selected.Render("> " + line)
		} else {
			line = "  " + l.styles.Normal.Render(line)
		}
		lines = append(lines, line+" "+l.styles.Language(src.Language.String()))
	}

	if end-start < len(l.sources) {
		lines = append(lines, l.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]", start+1, end, len(l.sources))))
	}
	return strings.Join(lines, "\n")
}

// visibleRange keeps the selection on screen.
func (l *SourceList) visibleRange() (int, int) {
	visible := max(l.height-3, 1)
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	return start, min(start+visible, len(l.sources))
}

// SetSources replaces the list contents and resets the selection.
func (l *SourceList) SetSources(sources []domain.Source) {
	l.sources = sources
	l.selected = 0
}

func (l *SourceList) Sources() []domain.Source { return l.sources }

func (l *SourceList) Selected() int { return l.selected }

// SelectedSource returns the highlighted source, or nil when empty.
func (l *SourceList) SelectedSource() *domain.Source {
	if l.selected < 0 || l.selected >= len(l.sources) {
		return nil
	}
	return &l.sources[l.selected]
}

func (l *SourceList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

func (l *SourceList) MoveDown() {
	if l.selected < len(l.sources)-1 {
		l.selected++
	}
}

// SetDimensions sets the rendering area.
func (l *SourceList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}
