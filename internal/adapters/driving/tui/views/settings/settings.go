// Package settings provides the provider and answer settings view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/polyglot/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/polyglot/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driving"
)

// ErrNoSettingsService indicates that settings cannot be read or written.
var ErrNoSettingsService = errors.New("settings service not available")

// Section tracks which settings page is active.
type Section int

const (
	SectionOverview Section = iota
	SectionEmbedding
	SectionLLM
	SectionMismatch
)

// Setting keys changed from the overview.
const (
	keyMismatchPolicy  = "answer.mismatch_policy"
	keyCulturalContext = "answer.cultural_context"
)

// overview rows in display order.
const (
	rowEmbedding = iota
	rowLLM
	rowMismatch
	rowCultural
	rowCount
)

// providerPage is the shared state of the embedding and LLM pages.
type providerPage struct {
	providers []domain.AIProvider
	defaults  map[domain.AIProvider]string
	apiKey    textinput.Model
	save      func(provider domain.AIProvider, model, apiKey string) error
}

func newProviderPage(providers []domain.AIProvider, defaults map[domain.AIProvider]string) *providerPage {
	ti := textinput.New()
	ti.Placeholder = "Enter API key (blank uses the environment)"
	ti.EchoMode = textinput.EchoPassword
	ti.CharLimit = 256
	return &providerPage{providers: providers, defaults: defaults, apiKey: ti}
}

// View is the settings view.
type View struct {
	styles   *styles.Styles
	settings driving.SettingsService

	current *domain.AppSettings
	err     error
	notice  string

	section  Section
	selected int
	editing  bool

	embedding *providerPage
	llm       *providerPage

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settings driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	v := &View{
		styles:    s,
		settings:  settings,
		embedding: newProviderPage(domain.AllEmbeddingProviders(), domain.DefaultEmbeddingModels()),
		llm:       newProviderPage(domain.AllLLMProviders(), domain.DefaultLLMModels()),
	}
	if settings != nil {
		v.embedding.save = settings.SetEmbeddingProvider
		v.llm.save = settings.SetLLMProvider
	}
	return v
}

// Init loads the current settings.
func (v *View) Init() tea.Cmd {
	return v.load()
}

func (v *View) load() tea.Cmd {
	return func() tea.Msg {
		if v.settings == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		current, err := v.settings.Get()
		return messages.SettingsLoaded{Settings: current, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		v.err = msg.Err
		if msg.Err == nil {
			v.current = msg.Settings
		}
		return v, nil

	case messages.SettingsSaved:
		v.err = msg.Err
		if msg.Err != nil {
			v.notice = ""
			return v, nil
		}
		v.backToOverview()
		v.notice = "Saved. Restart polyglot to apply provider changes."
		return v, v.load()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.backToOverview()
		return v, nil
	}

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionEmbedding:
		return v.handleProviderKeys(v.embedding, msg)
	case SectionLLM:
		return v.handleProviderKeys(v.llm, msg)
	case SectionMismatch:
		return v.handleMismatchKeys(msg)
	}
	return v, nil
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		v.selected = max(v.selected-1, 0)
	case "down", "j":
		v.selected = min(v.selected+1, rowCount-1)
	case "enter":
		if v.current == nil {
			return v, nil
		}
		v.notice = ""
		switch v.selected {
		case rowEmbedding:
			v.section = SectionEmbedding
			v.selected = indexOf(v.embedding.providers, v.current.Embedding.Provider)
		case rowLLM:
			v.section = SectionLLM
			v.selected = indexOf(v.llm.providers, v.current.LLM.Provider)
		case rowMismatch:
			v.section = SectionMismatch
			v.selected = indexOf(mismatchPolicies(), v.current.Answer.MismatchPolicy)
		case rowCultural:
			return v, v.set(keyCulturalContext, strconv.FormatBool(!v.current.Answer.CulturalContext))
		}
	}
	return v, nil
}

func (v *View) handleProviderKeys(page *providerPage, msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.editing {
		switch msg.String() {
		case "tab", "shift+tab":
			v.editing = false
			page.apiKey.Blur()
			return v, nil
		case "enter":
			return v, v.saveProvider(page, v.selected, page.apiKey.Value())
		}
		var cmd tea.Cmd
		page.apiKey, cmd = page.apiKey.Update(msg)
		return v, cmd
	}

	switch msg.String() {
	case "up", "k":
		v.selected = max(v.selected-1, 0)
	case "down", "j":
		v.selected = min(v.selected+1, len(page.providers)-1)
	case "tab":
		if page.providers[v.selected].RequiresAPIKey() {
			v.editing = true
			return v, page.apiKey.Focus()
		}
	case "enter":
		return v, v.saveProvider(page, v.selected, "")
	}
	return v, nil
}

func (v *View) handleMismatchKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	policies := mismatchPolicies()
	switch msg.String() {
	case "up", "k":
		v.selected = max(v.selected-1, 0)
	case "down", "j":
		v.selected = min(v.selected+1, len(policies)-1)
	case "enter":
		return v, v.set(keyMismatchPolicy, string(policies[v.selected]))
	}
	return v, nil
}

// saveProvider stores a provider choice with its default model. A blank
// key falls back to the provider's environment variable.
func (v *View) saveProvider(page *providerPage, index int, apiKey string) tea.Cmd {
	provider := page.providers[index]
	return func() tea.Msg {
		if page.save == nil {
			return messages.SettingsSaved{Err: ErrNoSettingsService}
		}
		return messages.SettingsSaved{Err: page.save(provider, page.defaults[provider], apiKey)}
	}
}

func (v *View) set(key, value string) tea.Cmd {
	return func() tea.Msg {
		if v.settings == nil {
			return messages.SettingsSaved{Err: ErrNoSettingsService}
		}
		return messages.SettingsSaved{Err: v.settings.Set(key, value)}
	}
}

func (v *View) backToOverview() {
	v.section = SectionOverview
	v.selected = 0
	v.editing = false
	for _, page := range []*providerPage{v.embedding, v.llm} {
		page.apiKey.SetValue("")
		page.apiKey.Blur()
	}
}

func mismatchPolicies() []domain.MismatchPolicy {
	return []domain.MismatchPolicy{domain.MismatchTranslate, domain.MismatchAccept}
}

func indexOf[T comparable](items []T, item T) int {
	for i, it := range items {
		if it == item {
			return i
		}
	}
	return 0
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}
	if v.current == nil {
		if v.err == nil {
			b.WriteString(v.styles.Muted.Render("Loading settings..."))
		}
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionEmbedding:
		b.WriteString(v.renderProviders("Select Embedding Provider", v.embedding, v.current.Embedding.Provider))
	case SectionLLM:
		b.WriteString(v.renderProviders("Select LLM Provider", v.llm, v.current.LLM.Provider))
	case SectionMismatch:
		b.WriteString(v.renderMismatch())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder
	s := v.current

	rows := []struct {
		label, value, status string
	}{
		{"Embedding Provider", providerValue(s.Embedding.Provider, s.Embedding.Model), v.configured(s.Embedding.IsConfigured())},
		{"LLM Provider", providerValue(s.LLM.Provider, s.LLM.Model), v.configured(s.LLM.IsConfigured())},
		{"Language Mismatch", string(s.Answer.MismatchPolicy), ""},
		{"Cultural Context", onOff(s.Answer.CulturalContext), ""},
	}

	for i, row := range rows {
		line := fmt.Sprintf("%s: %s", row.label, row.value)
		if row.status != "" {
			line += " " + row.status
		}
		b.WriteString(v.renderRow(i, line))
	}

	b.WriteString("\n")
	if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}
	if v.settings != nil {
		if err := v.settings.Validate(); err != nil {
			b.WriteString(v.styles.Warning.Render("Warning: " + err.Error()))
		} else {
			b.WriteString(v.styles.Success.Render("Configuration is valid"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderProviders(title string, page *providerPage, current domain.AIProvider) string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render(title))
	b.WriteString("\n\n")

	for i, provider := range page.providers {
		line := provider.Description()
		if provider == current {
			line += " (current)"
		}
		if v.editing {
			b.WriteString("  " + v.styles.Normal.Render(line) + "\n")
		} else {
			b.WriteString(v.renderRow(i, line))
		}
		if model := page.defaults[provider]; model != "" {
			b.WriteString(v.styles.Muted.Render("    Model: " + model))
			b.WriteString("\n")
		}
	}

	if selected := page.providers[v.selected]; selected.RequiresAPIKey() {
		b.WriteString("\n")
		b.WriteString(v.styles.Normal.Render(fmt.Sprintf("API Key (%s):", selected.APIKeyEnv())))
		b.WriteString("\n")
		b.WriteString(page.apiKey.View())
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderMismatch() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("When the answer is in the wrong language"))
	b.WriteString("\n\n")

	descriptions := map[domain.MismatchPolicy]string{
		domain.MismatchTranslate: "translate it into the requested language",
		domain.MismatchAccept:    "keep it and add a warning",
	}
	for i, p := range mismatchPolicies() {
		line := fmt.Sprintf("%s: %s", p, descriptions[p])
		if p == v.current.Answer.MismatchPolicy {
			line += " (current)"
		}
		b.WriteString(v.renderRow(i, line))
	}
	return b.String()
}

func (v *View) renderRow(i int, line string) string {
	if i == v.selected {
		return v.styles.Selected.Render("> "+line) + "\n"
	}
	return "  " + v.styles.Normal.Render(line) + "\n"
}

func (v *View) configured(ok bool) string {
	if ok {
		return v.styles.Success.Render("[configured]")
	}
	return v.styles.Warning.Render("[needs API key]")
}

func (v *View) renderHelp() string {
	switch {
	case v.section == SectionOverview:
		return v.styles.Help.Render("[j/k] navigate  [enter] edit  [esc] back")
	case v.editing:
		return v.styles.Help.Render("[tab] back to list  [enter] save  [esc] cancel")
	case v.section == SectionMismatch:
		return v.styles.Help.Render("[j/k] navigate  [enter] select  [esc] cancel")
	default:
		return v.styles.Help.Render("[j/k] navigate  [tab] API key  [enter] select  [esc] cancel")
	}
}

func providerValue(p domain.AIProvider, model string) string {
	if p == "" {
		return "Not Set"
	}
	return fmt.Sprintf("%s (%s)", p.Description(), model)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

func (v *View) Section() Section { return v.section }

func (v *View) Selected() int { return v.selected }

func (v *View) Editing() bool { return v.editing }

func (v *View) Err() error { return v.err }

func (v *View) Current() *domain.AppSettings { return v.current }

// Reset returns to the overview and clears any typed keys.
func (v *View) Reset() {
	v.backToOverview()
	v.err = nil
	v.notice = ""
}
