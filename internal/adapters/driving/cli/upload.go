package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/logger"
)

// watchSettle is how long a watched file must stay unchanged before it is
// ingested, so a file being copied is read once, complete.
var watchSettle = 500 * time.Millisecond

var uploadWatch string

var uploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Upload documents for question answering",
	Long: `Extract, chunk, language-tag and index documents.

Supported formats: txt, md, pdf, docx, xlsx, csv. Uploading a file with
the same name replaces the earlier version. A failing file does not stop
the others.

With --watch, files created or modified in the directory are uploaded as
they appear until interrupted.`,
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadWatch, "watch", "w", "", "watch a directory and upload new or changed files")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errNotConfigured("ingest")
	}
	if len(args) == 0 && uploadWatch == "" {
		return errors.New("no files given: pass one or more paths or --watch DIR")
	}

	failed := 0
	for _, path := range args {
		if !uploadFile(cmd, path) {
			failed++
		}
	}

	if uploadWatch != "" {
		return watchDirectory(cmd, uploadWatch)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to upload", failed, len(args))
	}
	return nil
}

// uploadFile ingests one file and reports the outcome. It reports false
// on failure.
func uploadFile(cmd *cobra.Command, path string) bool {
	doc, err := ingestService.IngestFile(cmd.Context(), path)
	if err != nil {
		cmd.PrintErrf("%s: %v\n", filepath.Base(path), err)
		return false
	}
	cmd.Printf("%s: %d chunks, %s\n", doc.Name, doc.ChunkCount, doc.Language.Name())
	return true
}

func watchDirectory(cmd *cobra.Command, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch: %s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(watchSettle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if _, err := domain.FormatFromPath(event.Name); err != nil {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)

		case now := <-ticker.C:
			for path, changed := range pending {
				if now.Sub(changed) < watchSettle {
					continue
				}
				delete(pending, path)
				uploadFile(cmd, path)
			}
		}
	}
}
