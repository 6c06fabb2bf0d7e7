// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/polyglot/internal/core/domain"
)

// AskRequested is a command to answer a question.
type AskRequested struct {
	Query domain.Query
}

// AskCompleted carries the orchestrator result back to the model.
type AskCompleted struct {
	Result domain.Result
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies a screen of the TUI.
type ViewType int

const (
	ViewMenu ViewType = iota
	ViewAsk
	ViewDocuments
	ViewSettings
	ViewHelp
)

var viewNames = [...]string{
	ViewMenu:      "menu",
	ViewAsk:       "ask",
	ViewDocuments: "documents",
	ViewSettings:  "settings",
	ViewHelp:      "help",
}

func (v ViewType) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "unknown"
	}
	return viewNames[v]
}

// DocumentsLoaded carries the document list and statistics.
type DocumentsLoaded struct {
	Documents []domain.Document
	Stats     domain.SystemStats
	Err       error
}

// SettingsLoaded is sent when settings are loaded.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved is sent after a settings change is persisted.
type SettingsSaved struct {
	Err error
}

// ErrorOccurred reports a failure that has no result to carry it.
type ErrorOccurred struct {
	Err error
}

// Quit asks the root model to exit.
type Quit struct{}
