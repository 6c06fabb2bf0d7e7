// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/polyglot/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/polyglot/internal/adapters/driving/tui/styles"
)

// State represents what the ask view is doing.
type State string

const (
	StateReady     State = "ready"
	StateAnswering State = "answering"
	StateAnswered  State = "answered"
	StateDegraded  State = "degraded"
	StateError     State = "error"
)

// Bar shows the current state, the selected languages and key hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	target  string
	scope   string
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := max(b.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (b *Bar) renderLeft() string {
	langs := ""
	if b.target != "" || b.scope != "" {
		langs = b.styles.Muted.Render(fmt.Sprintf("target %s  scope %s  ", b.target, b.scope))
	}

	switch b.state {
	case StateAnswering:
		return langs + b.styles.Muted.Render("Answering...")
	case StateError:
		if b.message != "" {
			return langs + b.styles.Error.Render("Error: "+b.message)
		}
		return langs + b.styles.Error.Render("Error")
	case StateDegraded:
		return langs + b.styles.Warning.Render(b.messageOr("Answered with warnings"))
	case StateAnswered:
		return langs + b.styles.Success.Render(b.messageOr("Answered"))
	default:
		return langs + b.styles.Muted.Render(b.messageOr("Ready"))
	}
}

func (b *Bar) messageOr(fallback string) string {
	if b.message != "" {
		return b.message
	}
	return fallback
}

func (b *Bar) renderRight() string {
	var bindings []key.Binding
	switch b.state {
	case StateAnswered, StateDegraded:
		bindings = b.keymap.AnswerHelp()
	default:
		bindings = b.keymap.InputHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		h := binding.Help()
		hints = append(hints, h.Key+": "+h.Desc)
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

func (b *Bar) SetState(state State) { b.state = state }

func (b *Bar) State() State { return b.state }

func (b *Bar) SetMessage(message string) { b.message = message }

func (b *Bar) Message() string { return b.message }

// SetLanguages shows the answer language and retrieval scope.
func (b *Bar) SetLanguages(target, scope string) {
	b.target = target
	b.scope = scope
}

func (b *Bar) SetWidth(width int) { b.width = width }

func (b *Bar) Width() int { return b.width }

// Clear resets the state and message. Languages are kept.
func (b *Bar) Clear() {
	b.state = StateReady
	b.message = ""
}
