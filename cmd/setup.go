package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/playlist-creator/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = defaultConfigPath
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Config written to %s\n\n", path)
	return r.writePlain("%s", shared.SetupInstructions())
}

// SetupCache creates the link cache database and runs migrations.
func (r *Runner) SetupCache(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing link cache", "path", r.config.Cache.Path)

	db, err := shared.OpenCache(r.config.Cache.Path)
	if err != nil {
		return fmt.Errorf("failed to create link cache: %w", err)
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", r.config.Cache.Path)
	return r.writePlain("✓ Link cache ready at %s\n", r.config.Cache.Path)
}
