// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/polyglot/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/polyglot/internal/adapters/driving/tui/styles"
)

// Item represents a single menu option.
type Item struct {
	Label       string
	Description string
	View        messages.ViewType
	Quit        bool
}

// View represents the main menu view.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates a new menu view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		items: []Item{
			{Label: "Ask", Description: "question your documents in any language", View: messages.ViewAsk},
			{Label: "Documents", Description: "uploaded files and index statistics", View: messages.ViewDocuments},
			{Label: "Settings", Description: "providers and answer language handling", View: messages.ViewSettings},
			{Label: "Help", View: messages.ViewHelp},
			{Label: "Quit", Quit: true},
		},
		width:  80,
		height: 24,
	}
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// narrowWidth hides item descriptions below this terminal width.
const narrowWidth = 60

// Update moves the cursor with arrows or j/k and opens an entry with enter
// or its number.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "up", "k":
			v.selected = max(v.selected-1, 0)
		case "down", "j":
			v.selected = min(v.selected+1, len(v.items)-1)
		case "home", "g":
			v.selected = 0
		case "end", "G":
			v.selected = len(v.items) - 1
		case "enter":
			return v, v.choose(v.selected)
		case "q":
			return v, tea.Quit
		default:
			if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < len(v.items) {
				v.selected = int(key[0] - '1')
				return v, v.choose(v.selected)
			}
		}
	}
	return v, nil
}

func (v *View) choose(i int) tea.Cmd {
	item := v.items[i]
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg { return messages.ViewChanged{View: item.View} }
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n%s\n\n",
		v.styles.Title.Render("Polyglot"),
		v.styles.Muted.Render("Multilingual Document Q&A"))

	for i, item := range v.items {
		label := fmt.Sprintf("%d %s", i+1, item.Label)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + label))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(label))
		}
		if item.Description != "" && v.width >= narrowWidth {
			b.WriteString(v.styles.Muted.Render("  " + item.Description))
		}
		b.WriteByte('\n')
	}

	b.WriteString("\n" + v.styles.Help.Render("[j/k] move  [1-9] open  [enter] select  [q] quit"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Items returns the menu entries.
func (v *View) Items() []Item {
	return v.items
}
