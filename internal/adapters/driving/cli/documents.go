package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/polyglot/internal/core/domain"
)

var (
	documentsJSON bool
	statsJSON     bool
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List uploaded documents",
	RunE:  runDocuments,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index and translation cache statistics",
	RunE:  runStats,
}

var languagesCmd = &cobra.Command{
	Use:         "languages",
	Short:       "List supported languages",
	Annotations: map[string]string{skipServices: "true"},
	Run:         runLanguages,
}

func init() {
	documentsCmd.Flags().BoolVar(&documentsJSON, "json", false, "output documents as JSON")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(documentsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(languagesCmd)
}

// documentJSON is the JSON shape of a listed document.
type documentJSON struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Format     string `json:"format"`
	Language   string `json:"language"`
	Size       int64  `json:"size"`
	Chunks     int    `json:"chunks"`
	IngestedAt string `json:"ingested_at"`
}

func runDocuments(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errNotConfigured("ingest")
	}

	docs, err := ingestService.Documents(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if documentsJSON {
		out := make([]documentJSON, len(docs))
		for i, d := range docs {
			out[i] = documentJSON{
				ID:         d.ID,
				Name:       d.Name,
				Format:     d.Format.String(),
				Language:   d.Language.String(),
				Size:       d.Size,
				Chunks:     d.ChunkCount,
				IngestedAt: d.IngestedAt.Format(time.RFC3339),
			}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(docs) == 0 {
		cmd.Println("No documents uploaded. Run 'polyglot upload <files>' to add some.")
		return nil
	}

	cmd.Printf("%-32s %-6s %-10s %7s %10s  %s\n", "NAME", "FORMAT", "LANGUAGE", "CHUNKS", "SIZE", "UPLOADED")
	for _, d := range docs {
		cmd.Printf("%-32s %-6s %-10s %7d %10s  %s\n",
			truncate(d.Name, 32), d.Format, d.Language.Name(), d.ChunkCount,
			formatSize(d.Size), d.IngestedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errNotConfigured("ingest")
	}

	stats, err := ingestService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("[Index]")
	cmd.Printf("  Documents: %d\n", stats.Index.Documents)
	cmd.Printf("  Chunks: %d\n", stats.Index.Chunks)
	cmd.Printf("  Languages: %s\n", languageList(stats.Index.Languages))
	cmd.Println()
	cmd.Println("[Translation Cache]")
	cmd.Printf("  Entries: %d\n", stats.Cache.Size)
	cmd.Printf("  Hits: %d\n", stats.Cache.Hits)
	cmd.Printf("  Misses: %d\n", stats.Cache.Misses)
	if total := stats.Cache.Hits + stats.Cache.Misses; total > 0 {
		cmd.Printf("  Hit rate: %.0f%%\n", float64(stats.Cache.Hits)/float64(total)*100)
	}
	return nil
}

func runLanguages(cmd *cobra.Command, _ []string) {
	for _, lang := range domain.SupportedLanguages() {
		cmd.Printf("%-3s %s\n", lang, lang.Name())
	}
}

func languageList(langs []domain.Language) string {
	if len(langs) == 0 {
		return "none"
	}
	out := ""
	for i, l := range langs {
		if i > 0 {
			out += ", "
		}
		out += l.Name()
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}
