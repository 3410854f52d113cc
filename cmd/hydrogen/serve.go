package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atlanticdynamic/hydrogen/internal/config"
	"github.com/atlanticdynamic/hydrogen/internal/coordinator"
	"github.com/atlanticdynamic/hydrogen/internal/logging"
	"github.com/atlanticdynamic/hydrogen/internal/logging/writers"
	"github.com/urfave/cli/v3"
)

var serveCmd = &cli.Command{
	Name:      "serve",
	Usage:     "Start the hydrogen server",
	ArgsUsage: "[config file path]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (trace, debug, info, warn, error)",
			Aliases: []string{"l"},
			Value:   "info",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Emit JSON logs",
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		configPath := cmd.Args().Get(0)
		if configPath == "" {
			configPath = config.DefaultPath
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return cli.Exit(fmt.Errorf("failed to load config: %w", err), 1)
		}
		if err := cfg.Validate(); err != nil {
			return cli.Exit(fmt.Errorf("invalid config: %w", err), 1)
		}

		if err := setupLogging(cfg, cmd.String("log-level"), cmd.Bool("json")); err != nil {
			return cli.Exit(err, 1)
		}

		for path, name := range cfg.EnvSources() {
			slog.Debug("Interpolated configuration value",
				"path", path, "variable", name, "value", cfg.EnvValueMasked(path))
		}

		coord := coordinator.New(cfg,
			coordinator.WithLogger(slog.Default().With("component", "coordinator")),
		)
		if err := coord.Run(ctx); err != nil {
			return cli.Exit(fmt.Errorf("coordinator failed: %w", err), 1)
		}

		slog.Info("Server shutdown complete")
		return nil
	},
}

// setupLogging installs the default logger, honoring the configured file
// sink when one is enabled.
func setupLogging(cfg *config.AppConfig, level string, jsonOut bool) error {
	output := ""
	if cfg.Logging.File.Enabled && cfg.Logging.File.Path != "" {
		output = cfg.Logging.File.Path
	}

	writer, err := writers.ForOutput(output)
	if err != nil {
		return fmt.Errorf("failed to open log output: %w", err)
	}

	handler := logging.SetupHandlerText(level, writer)
	if jsonOut {
		handler = logging.SetupHandlerJSON(level, writer)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
