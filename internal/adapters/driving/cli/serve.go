package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/docsage-labs/docsage/internal/adapters/driving/httpapi"
	"github.com/docsage-labs/docsage/internal/adapters/driving/watcher"
	"github.com/docsage-labs/docsage/internal/logger"
)

var (
	serveAddr  string
	serveWatch string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Starts the HTTP API for uploading PDFs and asking questions.

With --watch, a directory is monitored and any PDF dropped into it is
ingested automatically.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveWatch, "watch", "", "directory to watch for new PDFs")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := app.cfg.Server.ListenAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	watchDir := app.cfg.Watch.Dir
	if serveWatch != "" {
		watchDir = serveWatch
	}
	if watchDir != "" {
		w := watcher.New(app.ingestor, watchDir)
		go func() {
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("watcher stopped: %v", err)
			}
		}()
	}

	server := httpapi.NewServer(app.ingestor, app.answerer, app.history)
	if err := server.ListenAndServe(ctx, addr); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
