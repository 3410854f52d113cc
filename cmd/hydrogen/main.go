package main

import (
	"context"
	"fmt"
	"os"

	"github.com/atlanticdynamic/hydrogen/internal/config"
	"github.com/atlanticdynamic/hydrogen/internal/fancy"
	"github.com/urfave/cli/v3"
)

// Version is set during build using ldflags
var Version = "dev"

func main() {
	app := &cli.Command{
		Name:    "hydrogen",
		Version: Version,
		Usage:   "Embedded multi-subsystem server",
		Commands: []*cli.Command{
			serveCmd,
			{
				Name:  "version",
				Usage: "Print the version information",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Printf("hydrogen version %s\n", cmd.Root().Version)
					return nil
				},
			},
			{
				Name:  "validate",
				Usage: "Validate a configuration file",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					configPath := cmd.Args().Get(0)
					if configPath == "" {
						configPath = config.DefaultPath
					}

					cfg, err := config.Load(configPath)
					if err != nil {
						return fmt.Errorf("failed to load config: %w", err)
					}
					if err := cfg.Validate(); err != nil {
						return fmt.Errorf("validation failed: %w", err)
					}

					fmt.Println(fancy.Banner("CONFIGURATION"))
					fmt.Printf("Configuration file %s is valid\n", configPath)
					if cfg.ServerName != "" {
						fmt.Printf("Server name: %s\n", cfg.ServerName)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
