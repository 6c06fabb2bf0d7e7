// Package documents provides the uploaded documents view for the TUI.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/polyglot/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/polyglot/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driving"
)

// ErrNoIngestService indicates that documents cannot be listed.
var ErrNoIngestService = errors.New("ingest service not available")

// View lists uploaded documents with index and cache statistics.
type View struct {
	styles *styles.Styles
	ingest driving.IngestService
	ctx    context.Context

	documents    []domain.Document
	stats        domain.SystemStats
	selected     int
	scrollOffset int
	loading      bool
	err          error

	width  int
	height int
	ready  bool
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, ingest driving.IngestService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		ingest: ingest,
		ctx:    context.Background(),
		width:  80,
		height: 24,
	}
}

// WithContext sets the context used for loading.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads documents and statistics.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.load()
}

func (v *View) load() tea.Cmd {
	return func() tea.Msg {
		if v.ingest == nil {
			return messages.DocumentsLoaded{Err: ErrNoIngestService}
		}
		docs, err := v.ingest.Documents(v.ctx)
		if err != nil {
			return messages.DocumentsLoaded{Err: err}
		}
		stats, err := v.ingest.Stats(v.ctx)
		return messages.DocumentsLoaded{Documents: docs, Stats: stats, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.DocumentsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.documents = msg.Documents
			v.stats = msg.Stats
			v.selected = min(v.selected, max(len(v.documents)-1, 0))
			v.adjustScroll()
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.documents)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "r":
		return v, v.Init()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	return v, nil
}

func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

// visibleItemCount leaves room for the title, header, stats and help.
func (v *View) visibleItemCount() int {
	return max(v.height-11, 1)
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", len(v.documents))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("No documents uploaded. Use 'polyglot upload' to add some."))
	default:
		b.WriteString(v.renderTable())
		b.WriteString("\n\n")
		b.WriteString(v.renderStats())
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [r] reload  [esc] back"))
	return b.String()
}

func (v *View) nameWidth() int {
	return max(v.width-40, 12)
}

func (v *View) renderTable() string {
	var b strings.Builder
	nameWidth := v.nameWidth()

	header := fmt.Sprintf("  %-*s %-6s %-4s %6s %9s", nameWidth, "NAME", "FORMAT", "LANG", "CHUNKS", "SIZE")
	b.WriteString(v.styles.Subtitle.Render(header))
	b.WriteString("\n")

	visible := v.visibleItemCount()
	end := min(v.scrollOffset+visible, len(v.documents))
	for i := v.scrollOffset; i < end; i++ {
		b.WriteString(v.renderDocument(i, &v.documents[i]))
		b.WriteString("\n")
	}

	if len(v.documents) > visible {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]", v.scrollOffset+1, end, len(v.documents))))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v *View) renderDocument(index int, doc *domain.Document) string {
	nameWidth := v.nameWidth()
	name := doc.Name
	if len(name) > nameWidth {
		name = name[:nameWidth-3] + "..."
	}

	line := fmt.Sprintf("%-*s %-6s %-4s %6d %9s",
		nameWidth, name, doc.Format, doc.Language, doc.ChunkCount, humanSize(doc.Size))
	if index == v.selected {
		return v.styles.Selected.Render("> " + line)
	}
	return "  " + v.styles.Normal.Render(line)
}

func (v *View) renderStats() string {
	idx := v.stats.Index
	langs := make([]string, len(idx.Languages))
	for i, l := range idx.Languages {
		langs[i] = l.String()
	}
	langList := "none"
	if len(langs) > 0 {
		langList = strings.Join(langs, ", ")
	}

	cache := v.stats.Cache
	lines := []string{
		fmt.Sprintf("Chunks: %d  Languages: %s", idx.Chunks, langList),
		fmt.Sprintf("Translation cache: %d entries, %d hits, %d misses", cache.Size, cache.Hits, cache.Misses),
	}
	return v.styles.Muted.Render(strings.Join(lines, "\n"))
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

func (v *View) Documents() []domain.Document { return v.documents }

func (v *View) Stats() domain.SystemStats { return v.stats }

func (v *View) SelectedIndex() int { return v.selected }

// SelectedDocument returns the highlighted document, or nil.
func (v *View) SelectedDocument() *domain.Document {
	if v.selected < len(v.documents) {
		return &v.documents[v.selected]
	}
	return nil
}

func (v *View) Loading() bool { return v.loading }

func (v *View) Err() error { return v.err }
