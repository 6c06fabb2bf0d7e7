// Command polyglot answers questions about uploaded documents in any
// supported language.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/polyglot/internal/adapters/driving/cli"
	"github.com/custodia-labs/polyglot/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, bootstrap); err != nil {
		stop()
		os.Exit(1)
	}
}

func bootstrap(opts cli.Options) (cli.Services, func() error, error) {
	a, err := app.New(app.Options{ConfigDir: opts.ConfigDir, DataDir: opts.DataDir})
	if err != nil {
		return cli.Services{}, nil, err
	}
	return cli.Services{
		RAG:      a.RAG,
		Ingest:   a.Ingest,
		Detector: a.Detector,
		Settings: a.Settings,
	}, a.Close, nil
}
