// Package bootstrap wires all dependencies and starts the composition
// runtime: state store, module registry, headless host, window service and
// the inspector HTTP server.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/artpar/windowkit/adapters/clock"
	"github.com/artpar/windowkit/adapters/headless"
	"github.com/artpar/windowkit/adapters/idgen"
	"github.com/artpar/windowkit/adapters/memory"
	"github.com/artpar/windowkit/adapters/metrics"
	"github.com/artpar/windowkit/adapters/sqlite"
	"github.com/artpar/windowkit/app"
	"github.com/artpar/windowkit/config"
	"github.com/artpar/windowkit/core/events"
	"github.com/artpar/windowkit/core/registry"
	"github.com/artpar/windowkit/ports"
	"github.com/artpar/windowkit/web"
)

// App represents the running composition runtime.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	DB       *sqlite.DB
	Store    ports.StateStore
	Host     *headless.Host
	Registry *registry.Registry
	Events   *events.Bus
	Metrics  *metrics.Collector
	Windows  *app.WindowService

	HTTPServer *http.Server
}

// New creates and initializes the runtime from configuration.
func New(cfg *config.Config) (*App, error) {
	logger := setupLogger(cfg)

	logger.Info().Msg("initializing windowkit")

	a := &App{
		Config: cfg,
		Logger: logger,
		Events: events.NewBus(logger),
	}

	if err := a.initStore(); err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
		logger.Info().Msg("prometheus metrics enabled")
	}

	a.Host = headless.New(idgen.UUID{}, logger)
	a.Registry = registry.New()

	a.Windows = app.NewWindowService(
		a.Registry,
		a.Host,
		a.Host,
		a.Store,
		clock.Real{},
		a.Events,
		a.Metrics,
		logger,
	)

	if err := a.initModules(); err != nil {
		return nil, fmt.Errorf("init modules: %w", err)
	}

	if err := a.initWindows(); err != nil {
		return nil, fmt.Errorf("init windows: %w", err)
	}

	a.initHTTPServer()

	return a, nil
}

// initStore selects and opens the configured state store.
func (a *App) initStore() error {
	switch a.Config.Store.Driver {
	case "sqlite":
		db, err := sqlite.Open(a.Config.Store.DSN)
		if err != nil {
			return fmt.Errorf("open sqlite store: %w", err)
		}
		a.DB = db
		a.Store = sqlite.NewStateStore(db)
		a.Logger.Info().Str("dsn", a.Config.Store.DSN).Msg("sqlite state store ready")
	default:
		a.Store = memory.NewStateStore()
		a.Logger.Info().Msg("in-memory state store ready")
	}
	return nil
}

// initModules registers the built-in modules and loads template modules
// from the manifest directory, then freezes the registry.
func (a *App) initModules() error {
	for _, def := range a.Windows.Builtins() {
		if err := a.Registry.Register(def); err != nil {
			return fmt.Errorf("register builtin module: %w", err)
		}
	}

	if dir := a.Config.Modules.Dir; dir != "" {
		n, err := a.Registry.LoadDir(dir)
		if err != nil {
			return fmt.Errorf("load module manifests: %w", err)
		}
		a.Logger.Info().Int("modules", n).Str("dir", dir).Msg("template modules loaded")
	}

	a.Registry.Freeze()
	return nil
}

// initWindows loads and registers window definitions from the configured
// directory.
func (a *App) initWindows() error {
	dir := a.Config.Windows.Dir
	if dir == "" {
		return nil
	}

	defs, err := LoadDefinitions(dir)
	if err != nil {
		return fmt.Errorf("load window definitions: %w", err)
	}

	ctx := context.Background()
	for _, def := range defs {
		if err := a.Windows.Register(ctx, def, nil, app.HandlerOptions{}); err != nil {
			return fmt.Errorf("register namespace %q: %w", def.Namespace, err)
		}
	}

	a.Logger.Info().Int("namespaces", len(defs)).Str("dir", dir).Msg("window definitions registered")
	return nil
}

// initHTTPServer builds the inspector server. Start it with Serve.
func (a *App) initHTTPServer() {
	handler := web.New(web.Deps{
		Windows:     a.Windows,
		Catalog:     a.Registry,
		Host:        a.Host,
		Metrics:     a.Metrics,
		MetricsPath: a.Config.Metrics.Path,
		Logger:      a.Logger,
	})

	addr := fmt.Sprintf("%s:%d", a.Config.Server.Host, a.Config.Server.Port)
	a.HTTPServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}
}

// Serve runs the inspector HTTP server until the context is cancelled.
func (a *App) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", a.HTTPServer.Addr).Msg("inspector listening")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("inspector server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("inspector shutdown: %w", err)
	}

	a.Logger.Info().Msg("inspector stopped")
	return nil
}

// Close releases held resources.
func (a *App) Close() error {
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}
	return nil
}

// setupLogger builds the process logger from configuration.
func setupLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Logging.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(level).With().Timestamp().Logger()
}
