package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/polyglot/internal/adapters/driving/tui"
)

// runProgram runs a bubbletea model to completion. Replaced in tests.
var runProgram = func(m tea.Model, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

Ask questions, pick the answer language and search scope, browse uploaded
documents and change providers without leaving the terminal.

Controls:
  ↑/k, ↓/j   Navigate
  Enter      Ask / Select
  Tab        Cycle answer language
  Shift+Tab  Cycle search scope
  Esc        Back
  ?          Help (from the menu)
  Ctrl+C     Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\nStack trace:\n%s\n", r, debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if !stdinIsTerminal() {
		return errors.New("the TUI needs an interactive terminal; use 'polyglot ask' in scripts")
	}

	app, err := tui.NewApp(&tui.Ports{
		RAG:      ragService,
		Ingest:   ingestService,
		Settings: settingsService,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := runProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context())); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
