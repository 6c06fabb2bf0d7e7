package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/polyglot/internal/core/domain"
)

var (
	askTarget string
	askScope  string
	askTopK   int
	askJSON   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the uploaded documents",
	Long: `Ask a question in any supported language.

The question's language is detected, the most similar chunks are retrieved
across every uploaded document (or only those in --scope), and the answer
is written in --target. Sources are listed with their similarity.

Examples:
  polyglot ask "What is the vacation policy?" --target es
  polyglot ask "Quelle est la politique de congés ?" --scope en --top-k 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askTarget, "target", "t", string(domain.DefaultLanguage), "answer language code")
	askCmd.Flags().StringVarP(&askScope, "scope", "s", string(domain.ScopeAll), "search only documents in this language, or all")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (0 = configured default)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if ragService == nil {
		return errNotConfigured("answer")
	}

	target, err := domain.ParseLanguage(askTarget)
	if err != nil {
		return fmt.Errorf("--target: %w", err)
	}
	scope, err := domain.ParseScope(askScope)
	if err != nil {
		return fmt.Errorf("--scope: %w", err)
	}
	if askTopK < 0 {
		return fmt.Errorf("--top-k must not be negative: %w", domain.ErrInvalidInput)
	}

	result := ragService.Answer(cmd.Context(), domain.Query{
		Text:   strings.Join(args, " "),
		Target: target,
		Scope:  scope,
		TopK:   askTopK,
	})

	if askJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
	} else {
		printResult(cmd, result)
	}

	if result.Outcome == domain.OutcomeFailed {
		return fmt.Errorf("%s: %w", result.Kind, result.Err)
	}
	return nil
}

func printResult(cmd *cobra.Command, result domain.Result) {
	switch result.Outcome {
	case domain.OutcomeNoResults:
		cmd.Println(result.Message)
		return
	case domain.OutcomeFailed:
		return
	}

	answer := result.Answer
	cmd.Println(answer.Text)
	cmd.Println()
	cmd.Printf("Question: %s  Answer: %s", answer.QueryLanguage.Name(), answer.AnswerLanguage.Name())
	if answer.AnswerLanguage != answer.TargetLanguage {
		cmd.Printf(" (requested %s)", answer.TargetLanguage.Name())
	}
	cmd.Println()

	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, src := range answer.Sources {
			cmd.Printf("  %d. %s [%s] %.0f%%\n", i+1, src.FileName, src.Language, src.Similarity*100)
		}
	}

	for _, w := range result.Warnings {
		cmd.PrintErrf("Warning: %s\n", w.Message)
	}
}
