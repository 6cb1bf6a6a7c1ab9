package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/mytunes/internal/shared"
	"github.com/desertthunder/mytunes/internal/ui"
)

// Setup writes a config file from the template if none exists, then opens the library, which
// migrates the primary (when reachable) and the local mirror. With --rollback the primary's
// latest migration is reverted afterwards.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.logger.Info("config file created", "path", configPath)
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	lib, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("rollback") {
		if err := lib.RollbackPrimary(ctx); err != nil {
			return fmt.Errorf("failed to roll back primary: %w", err)
		}
		r.logger.Warn("primary schema rolled back", "driver", config.Primary.Driver)
	}

	r.logger.Info("setup complete", "fallback", config.Fallback.Path, "primary", config.Primary.Enabled())
	return r.writePlainln("%s", ui.HealthLine(lib.Health(), lib.Backend()))
}

// Health prints the primary status, optionally rechecking or resetting it first.
func (r *Runner) Health(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}

	switch {
	case cmd.Bool("recheck"):
		if err := lib.RecheckPrimary(ctx); err != nil {
			r.logger.Warn("primary still unreachable", "error", err)
		}
	case cmd.Bool("reset"):
		lib.ResetPrimary()
	}

	return r.writePlainln("%s", ui.HealthLine(lib.Health(), lib.Backend()))
}
