package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/edgegate/edgegate/cmd/app/commands"
	"github.com/edgegate/edgegate/internal/app"
	"github.com/edgegate/edgegate/internal/config"
)

func getPresignCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "presign",
			Usage: "Issue a pre-signed URL for one method on one object",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "scope",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Bucket the object lives in",
				},
				&cli.StringFlag{
					Name:     "key",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Object key",
				},
				&cli.StringFlag{
					Name:    "method",
					Aliases: []string{"m"},
					Value:   "GET",
					Usage:   "HTTP method the URL allows (GET or PUT)",
				},
				&cli.DurationFlag{
					Name:    "ttl",
					Aliases: []string{"t"},
					Value:   15 * time.Minute,
					Usage:   "Lifetime of the URL (clamped to PRESIGN_MAX_TTL)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				signer, err := container.CapabilitySigner()
				if err != nil {
					return err
				}

				return commands.RunPresign(
					container.Logger(),
					commands.DefaultIO().Writer,
					signer,
					cmd.String("scope"),
					cmd.String("key"),
					cmd.String("method"),
					cmd.Duration("ttl"),
					cmd.String("format"),
				)
			},
		},
	}
}
