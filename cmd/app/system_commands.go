package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/edgegate/edgegate/cmd/app/commands"
	"github.com/edgegate/edgegate/internal/app"
	"github.com/edgegate/edgegate/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "sweep-uploads",
			Usage: "Abort multipart upload sessions left idle past their TTL",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tracker, err := container.UploadTracker()
				if err != nil {
					return err
				}

				return commands.RunSweepUploads(
					ctx,
					tracker,
					container.Logger(),
					commands.DefaultIO().Writer,
				)
			},
		},
	}
}
