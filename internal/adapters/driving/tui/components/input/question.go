// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/polyglot/internal/adapters/driving/tui/styles"
)

// questionLimit caps the question length in runes.
const questionLimit = 1000

// QuestionInput wraps a bubbles textinput for typing questions.
type QuestionInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewQuestionInput creates a focused question input.
func NewQuestionInput(s *styles.Styles) *QuestionInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask a question in any language..."
	ti.Focus()
	ti.CharLimit = questionLimit
	ti.Width = 60

	return &QuestionInput{
		textinput: ti,
		styles:    s,
		width:     60,
	}
}

// Init starts the cursor blinking.
func (q *QuestionInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (q *QuestionInput) Update(msg tea.Msg) (*QuestionInput, tea.Cmd) {
	var cmd tea.Cmd
	q.textinput, cmd = q.textinput.Update(msg)
	return q, cmd
}

// View renders the input with its label.
func (q *QuestionInput) View() string {
	label := q.styles.Title.Render("Ask: ")
	field := q.styles.InputField.Render(q.textinput.View())
	//nolint:misspell // lipgloss.Center is the library constant
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

func (q *QuestionInput) Value() string { return q.textinput.Value() }

func (q *QuestionInput) SetValue(value string) { q.textinput.SetValue(value) }

func (q *QuestionInput) Focus() tea.Cmd { return q.textinput.Focus() }

func (q *QuestionInput) Blur() { q.textinput.Blur() }

func (q *QuestionInput) Focused() bool { return q.textinput.Focused() }

// SetWidth sets the total width, leaving room for the label and border.
func (q *QuestionInput) SetWidth(width int) {
	q.width = width
	q.textinput.Width = max(width-12, 20)
}

func (q *QuestionInput) Width() int { return q.width }

// Reset clears the input.
func (q *QuestionInput) Reset() {
	q.textinput.Reset()
}
