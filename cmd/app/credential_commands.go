package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/edgegate/edgegate/cmd/app/commands"
	"github.com/edgegate/edgegate/internal/app"
	"github.com/edgegate/edgegate/internal/config"
)

func getCredentialCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-credential",
			Usage: "Create a new API credential with permission grants",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable credential name",
				},
				&cli.BoolFlag{
					Name:    "active",
					Aliases: []string{"a"},
					Value:   true,
					Usage:   "Whether the credential can authenticate immediately",
				},
				&cli.StringFlag{
					Name:    "grants",
					Aliases: []string{"g"},
					Usage:   "JSON array of permission grants (omit for interactive mode)",
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

				credentialUseCase, err := container.CredentialUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateCredential(
					ctx,
					credentialUseCase,
					container.Logger(),
					cmd.String("name"),
					cmd.Bool("active"),
					cmd.String("grants"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "rotate-credential",
			Usage: "Replace a credential with a fresh secret, revoking the old one",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Credential ID (UUID)",
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

				credentialUseCase, err := container.CredentialUseCase()
				if err != nil {
					return err
				}

				return commands.RunRotateCredential(
					ctx,
					credentialUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "revoke-credential",
			Usage: "Permanently disable a credential",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Credential ID (UUID)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				credentialUseCase, err := container.CredentialUseCase()
				if err != nil {
					return err
				}

				return commands.RunRevokeCredential(
					ctx,
					credentialUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
				)
			},
		},
	}
}
