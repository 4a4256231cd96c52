package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pengelbrecht/keypad/internal/watch"
	"github.com/pengelbrecht/keypad/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the keypad to browsers",
	Long: `Serve the keypad calculator over HTTP. Each browser tab gets its own
calculator over a websocket connection.

Examples:
  kp serve                  # listen on the configured address
  kp serve --listen :9000   # override the listen address
  kp serve --watch          # reload title and theme when the config file changes`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveListen string
	serveWatch  bool
)

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (overrides config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload the config file when it changes")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}
	if serveListen != "" {
		cfg.Listen = serveListen
	}

	logger := slog.Default()
	server := web.NewServer(cfg, web.WithLogger(logger))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serveWatch {
		w := watch.NewConfigWatcher(path)
		if err := w.Start(); err != nil {
			return fmt.Errorf("failed to watch config: %w", err)
		}
		defer w.Stop()
		go applyConfigEvents(ctx, w.Events(), server, cfg.Listen, logger)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Serving keypad on http://%s\n", cfg.Listen)
	return server.ListenAndServe(ctx)
}

// applyConfigEvents feeds reloaded configs to the server, keeping the
// listen address the server started with.
func applyConfigEvents(ctx context.Context, events <-chan watch.Event, server *web.Server, listen string, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Type == watch.Invalid {
				logger.Warn("ignoring invalid config", "error", ev.Err)
				continue
			}
			ev.Config.Listen = listen
			server.SetConfig(ev.Config)
		}
	}
}
