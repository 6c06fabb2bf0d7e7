// Package cli implements the polyglot command line on cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/polyglot/internal/core/ports/driving"
	"github.com/custodia-labs/polyglot/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// skipServices marks commands that run without the core services.
const skipServices = "skip-services"

// Services are the core services the commands drive.
type Services struct {
	RAG      driving.RAGService
	Ingest   driving.IngestService
	Detector driving.LanguageDetector
	Settings driving.SettingsService
}

// Options carries the global flags a Bootstrap needs.
type Options struct {
	ConfigDir string
	DataDir   string
}

// Bootstrap builds the services once flags are parsed. The returned
// function releases them.
type Bootstrap func(opts Options) (Services, func() error, error)

var (
	ragService      driving.RAGService
	ingestService   driving.IngestService
	detectorService driving.LanguageDetector
	settingsService driving.SettingsService
)

var (
	verbose   bool
	configDir string
	dataDir   string

	bootstrap Bootstrap
	shutdown  func() error
)

var rootCmd = &cobra.Command{
	Use:   "polyglot",
	Short: "Ask questions about your documents in any language",
	Long: `Polyglot answers questions about uploaded documents across languages.

Upload PDF, Word, Excel, CSV, Markdown or text files, then ask in any of
twenty languages and get an answer in the language you choose, with the
source documents it was grounded in.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline stages to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.polyglot)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "database directory (default ~/.polyglot/data)")
}

// SetServices injects the services used by every command.
func SetServices(s Services) {
	ragService = s.RAG
	ingestService = s.Ingest
	detectorService = s.Detector
	settingsService = s.Settings
}

// Execute runs the root command. The bootstrap is invoked lazily so that
// commands such as version never open the database.
func Execute(ctx context.Context, b Bootstrap) error {
	// A missing .env is the common case.
	_ = godotenv.Load()

	bootstrap = b
	defer closeServices()

	// cobra prints to stderr unless an output is set.
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || cmd.Annotations[skipServices] != "" {
		return nil
	}

	svc, closeFn, err := bootstrap(Options{ConfigDir: configDir, DataDir: dataDir})
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(svc)
	shutdown = closeFn
	return nil
}

func closeServices() {
	if shutdown == nil {
		return
	}
	if err := shutdown(); err != nil {
		logger.Error("shutdown: %v", err)
	}
	shutdown = nil
}

// errNotConfigured reports a service that was never injected.
func errNotConfigured(name string) error {
	return errors.New(name + " service not configured")
}
