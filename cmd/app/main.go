// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/SmartGenzAI1/securevibe/cmd/app/commands"
)

var version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "securevibe",
		Usage:   "Security core service: layered encryption and threat detection",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "generate-secret",
				Usage: "Generate a service secret for master key derivation",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "bytes",
						Aliases: []string{"b"},
						Value:   32,
						Usage:   "Secret length in bytes (minimum 16)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunGenerateSecret(int(cmd.Int("bytes")))
				},
			},
			{
				Name:  "generate-client",
				Usage: "Generate an API client entry for the API_CLIENTS variable",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Aliases:  []string{"i"},
						Required: true,
						Usage:    "Client identifier",
					},
					&cli.StringFlag{
						Name:    "tier",
						Aliases: []string{"t"},
						Value:   "base",
						Usage:   "Client tier: 'base' or 'elevated'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunGenerateClient(cmd.String("id"), cmd.String("tier"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
