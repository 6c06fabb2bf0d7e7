package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var clearYes bool

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every document, chunk and cached translation",
	Long: `Delete every uploaded document, its chunks and all cached translations.

Asks for confirmation unless --yes is given. When stdin is not a terminal
--yes is required.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errNotConfigured("ingest")
	}

	if !clearYes {
		if !stdinIsTerminal() {
			return errors.New("refusing to clear without --yes when stdin is not a terminal")
		}
		cmd.Print("Delete all documents and cached translations? [y/N]: ")
		answer := strings.ToLower(readLine(bufio.NewReader(cmd.InOrStdin())))
		if answer != "y" && answer != "yes" {
			cmd.Println("Cancelled.")
			return nil
		}
	}

	if err := ingestService.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear: %w", err)
	}
	cmd.Println("Cleared all documents and cached translations.")
	return nil
}
