package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/artpar/windowkit/bootstrap"
	"github.com/artpar/windowkit/config"
	"github.com/artpar/windowkit/core/events"
)

var hotReload bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the headless host and inspector server",
	Long: `Start the windowkit reference host.

The server will:
  - Load configuration from windowkit.yaml (or --config)
  - Or load configuration from WINDOWKIT_* environment variables
  - Register built-in and manifest-defined modules
  - Register window definitions from the windows directory
  - Serve the JSON inspector and simulation endpoints

Environment variables (for container deployments):
  WINDOWKIT_SERVER_PORT  - Inspector port (default: 8080)
  WINDOWKIT_STORE_DRIVER - State store: memory or sqlite
  WINDOWKIT_STORE_DSN    - SQLite database path
  WINDOWKIT_MODULES_DIR  - Template module manifest directory
  WINDOWKIT_WINDOWS_DIR  - Window definition directory
  WINDOWKIT_LOG_LEVEL    - Log level: debug, info, warn, error

Examples:
  windowkit serve
  windowkit serve --config /etc/windowkit/config.yaml
  windowkit serve --hot-reload=false`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "enable hot reload of configuration")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a, err := bootstrap.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer a.Close()

	// Log lifecycle events at debug for host integrators.
	a.Events.Subscribe("*", func(ctx context.Context, ev events.Event) error {
		a.Logger.Debug().
			Str("event", ev.Name).
			Str("namespace", ev.Namespace).
			Str("user", string(ev.User)).
			Msg("lifecycle event")
		return nil
	})

	// Hot reload needs a config file on disk.
	if hotReload {
		if _, statErr := os.Stat(cfgFile); statErr == nil {
			holder, herr := config.NewHolder(cfgFile, a.Logger)
			if herr != nil {
				return fmt.Errorf("config holder: %w", herr)
			}
			defer holder.Stop()

			holder.OnChange(func(c *config.Config) {
				if level, perr := zerolog.ParseLevel(c.Logging.Level); perr == nil {
					zerolog.SetGlobalLevel(level)
				}
			})
			if werr := holder.WatchFile(); werr != nil {
				a.Logger.Warn().Err(werr).Msg("config file watch unavailable")
			}
			holder.WatchSignals()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.Serve(ctx)
}
