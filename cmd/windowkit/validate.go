package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/artpar/windowkit/adapters/clock"
	"github.com/artpar/windowkit/adapters/headless"
	"github.com/artpar/windowkit/adapters/idgen"
	"github.com/artpar/windowkit/adapters/memory"
	"github.com/artpar/windowkit/app"
	"github.com/artpar/windowkit/bootstrap"
	"github.com/artpar/windowkit/config"
	"github.com/artpar/windowkit/core/events"
	"github.com/artpar/windowkit/core/registry"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration, module manifests and window definitions",
	Long: `Validate the full configuration without serving.

Checks performed:
  - The config file parses and validates
  - Every module manifest in the modules directory is well formed
  - Every window definition parses, expands and resolves against a
    dry registration on a headless toolkit

Exit status is non-zero when any check fails.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	fmt.Println("config: ok")

	// Dry registration against a headless toolkit and an in-memory store.
	logger := zerolog.Nop()
	reg := registry.New()
	host := headless.New(idgen.UUID{}, logger)
	svc := app.NewWindowService(
		reg, host, host,
		memory.NewStateStore(),
		clock.Real{},
		events.NewBus(logger),
		nil,
		logger,
	)

	for _, def := range svc.Builtins() {
		if err := reg.Register(def); err != nil {
			return fmt.Errorf("builtin modules: %w", err)
		}
	}

	if dir := cfg.Modules.Dir; dir != "" {
		n, err := reg.LoadDir(dir)
		if err != nil {
			return fmt.Errorf("module manifests: %w", err)
		}
		fmt.Printf("modules: ok (%d manifests)\n", n)
	} else {
		fmt.Println("modules: no directory configured, builtins only")
	}
	reg.Freeze()

	if dir := cfg.Windows.Dir; dir != "" {
		defs, err := bootstrap.LoadDefinitions(dir)
		if err != nil {
			return fmt.Errorf("window definitions: %w", err)
		}

		ctx := context.Background()
		for _, def := range defs {
			if err := svc.Register(ctx, def, nil, app.HandlerOptions{}); err != nil {
				return fmt.Errorf("window definition %q: %w", def.Namespace, err)
			}
			fmt.Printf("windows: %s ok\n", def.Namespace)
		}
		fmt.Printf("windows: ok (%d definitions)\n", len(defs))
	} else {
		fmt.Println("windows: no directory configured")
	}

	fmt.Println("all checks passed")
	return nil
}
