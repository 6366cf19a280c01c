package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/artpar/windowkit/adapters/clock"
	"github.com/artpar/windowkit/adapters/headless"
	"github.com/artpar/windowkit/adapters/idgen"
	"github.com/artpar/windowkit/adapters/memory"
	"github.com/artpar/windowkit/app"
	"github.com/artpar/windowkit/config"
	"github.com/artpar/windowkit/core/events"
	"github.com/artpar/windowkit/core/registry"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "Print the module catalog",
	Long: `Print every registered module: built-ins plus template modules
from the configured manifest directory.`,
	RunE: runModules,
}

func init() {
	rootCmd.AddCommand(modulesCmd)
}

func runModules(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

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
		if _, err := reg.LoadDir(dir); err != nil {
			return fmt.Errorf("module manifests: %w", err)
		}
	}

	for _, d := range reg.Descriptors() {
		fmt.Printf("%s (%s)\n", d.Module, d.Kind)
		if d.Description != "" {
			fmt.Printf("  %s\n", d.Description)
		}
		for name, p := range d.Params {
			req := "optional"
			if p.Required {
				req = "required"
			}
			types := make([]string, len(p.Types))
			for i, t := range p.Types {
				types[i] = string(t)
			}
			fmt.Printf("  param %s: %s, %s\n", name, strings.Join(types, " or "), req)
		}
		if len(d.Handlers) > 0 {
			fmt.Printf("  handlers: %s\n", strings.Join(d.Handlers, ", "))
		}
	}
	return nil
}
