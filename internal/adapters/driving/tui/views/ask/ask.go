// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/polyglot/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/polyglot/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/polyglot/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/polyglot/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/polyglot/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/polyglot/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driving"
)

// View asks questions and renders answers with their sources.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	sources   *list.SourceList
	statusbar *status.Bar
	spinner   spinner.Model

	rag driving.RAGService
	ctx context.Context

	targets []domain.Language
	scopes  []domain.SearchScope
	target  int
	scope   int

	question   string
	result     *domain.Result
	answering  bool
	focusInput bool

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates an ask view. The answer language starts at English and
// the scope at all languages.
func NewView(s *styles.Styles, km *keymap.KeyMap, rag driving.RAGService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	targets := domain.SupportedLanguages()
	scopes := make([]domain.SearchScope, 0, len(targets)+1)
	scopes = append(scopes, domain.ScopeAll)
	for _, l := range targets {
		scopes = append(scopes, domain.SearchScope(l))
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	v := &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		sources:    list.NewSourceList(s),
		statusbar:  status.NewBar(s, km),
		spinner:    sp,
		rag:        rag,
		ctx:        context.Background(),
		targets:    targets,
		scopes:     scopes,
		focusInput: true,
		width:      80,
		height:     24,
	}
	v.syncLanguages()
	return v
}

// WithContext sets the context passed to the answer service.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the input cursor.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AskCompleted:
		v.handleAskCompleted(msg.Result)
		return v, nil

	case messages.ErrorOccurred:
		v.answering = false
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil

	case spinner.TickMsg:
		if !v.answering {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	if v.answering {
		return v, nil
	}

	if v.focusInput {
		switch {
		case msg.Type == tea.KeyEnter:
			return v, v.submit()
		case keymap.Matches(msg.String(), v.keymap.Target):
			v.target = (v.target + 1) % len(v.targets)
			v.syncLanguages()
			return v, nil
		case keymap.Matches(msg.String(), v.keymap.Scope):
			v.scope = (v.scope + 1) % len(v.scopes)
			v.syncLanguages()
			return v, nil
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	if keymap.Matches(msg.String(), v.keymap.NewQuestion) {
		v.focusInput = true
		v.input.SetValue("")
		v.statusbar.Clear()
		return v, v.input.Focus()
	}
	v.sources, _ = v.sources.Update(msg)
	return v, nil
}

// submit starts answering the current input.
func (v *View) submit() tea.Cmd {
	question := strings.TrimSpace(v.input.Value())
	if question == "" {
		return nil
	}

	v.question = question
	v.answering = true
	v.focusInput = false
	v.err = nil
	v.result = nil
	v.input.Blur()
	v.sources.SetSources(nil)
	v.statusbar.SetState(status.StateAnswering)
	v.statusbar.SetMessage("")

	return tea.Batch(v.spinner.Tick, v.ask(v.Query()))
}

func (v *View) ask(q domain.Query) tea.Cmd {
	return func() tea.Msg {
		if v.rag == nil {
			return messages.ErrorOccurred{Err: ErrNoRAGService}
		}
		return messages.AskCompleted{Result: v.rag.Answer(v.ctx, q)}
	}
}

func (v *View) handleAskCompleted(result domain.Result) {
	v.answering = false
	v.result = &result

	switch result.Outcome {
	case domain.OutcomeFailed:
		v.err = fmt.Errorf("%s: %w", result.Kind, result.Err)
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(v.err.Error())
		// Let the user edit and retry.
		v.focusInput = true
		v.input.Focus()
		return
	case domain.OutcomeNoResults:
		v.statusbar.SetState(status.StateAnswered)
		v.statusbar.SetMessage("No results")
	case domain.OutcomeDegraded:
		v.statusbar.SetState(status.StateDegraded)
		if len(result.Warnings) > 0 {
			v.statusbar.SetMessage(result.Warnings[0].Message)
		}
	default:
		v.statusbar.SetState(status.StateAnswered)
		v.statusbar.SetMessage("")
	}

	if result.Answer != nil {
		v.sources.SetSources(result.Answer.Sources)
	}
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("Polyglot"),
		"",
		v.input.View(),
		v.renderLanguages(),
		"",
	}

	if v.answering {
		sections = append(sections, v.spinner.View()+" "+v.styles.Muted.Render("Answering \""+v.question+"\""), "")
	}
	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}
	if v.result != nil {
		sections = append(sections, v.renderResult()...)
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderLanguages() string {
	return v.styles.Muted.Render("answer in ") + v.styles.Language(v.Target().String()) +
		v.styles.Muted.Render("  search ") + v.styles.Language(string(v.Scope()))
}

func (v *View) renderResult() []string {
	r := v.result
	switch r.Outcome {
	case domain.OutcomeFailed:
		return nil
	case domain.OutcomeNoResults:
		return []string{v.styles.Muted.Render(r.Message)}
	}
	if r.Answer == nil {
		return nil
	}

	a := r.Answer
	out := []string{
		v.styles.Answer.Width(max(v.width-4, 20)).Render(a.Text),
		"",
	}

	langs := fmt.Sprintf("Question: %s  Answer: %s", a.QueryLanguage.Name(), a.AnswerLanguage.Name())
	if a.AnswerLanguage != a.TargetLanguage {
		langs += fmt.Sprintf(" (requested %s)", a.TargetLanguage.Name())
	}
	out = append(out, v.styles.Muted.Render(langs))

	for _, w := range r.Warnings {
		out = append(out, v.styles.Warning.Render("Warning: "+w.Message))
	}
	return append(out, "", v.sources.View())
}

func (v *View) syncLanguages() {
	v.statusbar.SetLanguages(v.Target().String(), string(v.Scope()))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.sources.SetDimensions(width, max(height-16, 3))
	v.statusbar.SetWidth(width)
}

// Query returns the query the view would submit now.
func (v *View) Query() domain.Query {
	return domain.Query{
		Text:   strings.TrimSpace(v.input.Value()),
		Target: v.Target(),
		Scope:  v.Scope(),
	}
}

// Target returns the selected answer language.
func (v *View) Target() domain.Language { return v.targets[v.target] }

// Scope returns the selected retrieval scope.
func (v *View) Scope() domain.SearchScope { return v.scopes[v.scope] }

// Result returns the last result, or nil.
func (v *View) Result() *domain.Result { return v.result }

func (v *View) Err() error { return v.err }

func (v *View) Answering() bool { return v.answering }

func (v *View) InputFocused() bool { return v.focusInput }

func (v *View) Ready() bool { return v.ready }

// SetQuestion sets the input text.
func (v *View) SetQuestion(q string) { v.input.SetValue(q) }

// Reset returns the view to an empty input. Language choices are kept.
func (v *View) Reset() {
	v.focusInput = true
	v.answering = false
	v.input.Focus()
	v.input.SetValue("")
	v.sources.SetSources(nil)
	v.result = nil
	v.question = ""
	v.err = nil
	v.statusbar.Clear()
}
