package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/adrianliechti/wingman-soap/app"
	"github.com/adrianliechti/wingman-soap/app/bridge"
	"github.com/adrianliechti/wingman-soap/app/call"
	"github.com/adrianliechti/wingman-soap/app/describe"
	"github.com/adrianliechti/wingman-soap/app/openapi"
	"github.com/adrianliechti/wingman-soap/pkg/cli"
	"github.com/adrianliechti/wingman-soap/pkg/log"
)

var version string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cmd := initApp()

	if err := cmd.Run(ctx, os.Args); err != nil {
		cli.Fatal(err)
	}
}

func initApp() *cli.Command {
	if version == "" {
		version = "0.0.0-dev"
	}

	return &cli.Command{
		Usage: "SOAP client for overloaded WSDL operations",

		Suggest: true,
		Version: version,

		HideHelpCommand: true,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Config file (default: .soap.json, .soap.yaml, soap.json or soap.yaml)",
				Sources: cli.EnvVars("SOAP_CONFIG"),
			},

			&cli.StringFlag{
				Name:    "name",
				Usage:   "Service entry of the config file",
				Sources: cli.EnvVars("SOAP_NAME"),
			},

			&cli.StringFlag{
				Name:    "wsdl",
				Usage:   "WSDL path or URL",
				Sources: cli.EnvVars("SOAP_WSDL"),
			},

			&cli.StringFlag{
				Name:    "url",
				Usage:   "Endpoint address (overrides the port location)",
				Sources: cli.EnvVars("SOAP_URL"),
			},

			&cli.StringFlag{
				Name:  "service",
				Usage: "WSDL service (default: first)",
			},

			&cli.StringFlag{
				Name:  "port",
				Usage: "WSDL port (default: first)",
			},

			&cli.StringFlag{
				Name:    "token",
				Usage:   "Bearer token",
				Sources: cli.EnvVars("SOAP_TOKEN"),
			},

			&cli.StringFlag{
				Name:    "username",
				Usage:   "Basic auth username",
				Sources: cli.EnvVars("SOAP_USERNAME"),
			},

			&cli.StringFlag{
				Name:    "password",
				Usage:   "Basic auth password",
				Sources: cli.EnvVars("SOAP_PASSWORD"),
			},

			&cli.StringSliceFlag{
				Name:  "option",
				Usage: "Client option as key=value (prettyxml, retxml, timeout, location, cache, faults)",
			},

			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Do not cache downloaded WSDL documents",
			},

			&cli.StringFlag{
				Name:  "loglevel",
				Usage: "Log level (" + strings.Join(log.Levels, ", ") + ")",
				Value: "warn",
			},

			&cli.StringFlag{
				Name:  "logformat",
				Usage: "Log format (" + strings.Join(log.Formats, ", ") + ")",
				Value: "text",
			},
		},

		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logger, err := log.New(os.Stderr, cmd.String("loglevel"), cmd.String("logformat"))

			if err != nil {
				return ctx, err
			}

			slog.SetDefault(logger)
			return ctx, nil
		},

		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},

		Commands: []*cli.Command{
			{
				Name:  "describe",
				Usage: "Show operations, overloads and parts",

				Action: func(ctx context.Context, cmd *cli.Command) error {
					c, err := app.Connect(ctx, target(cmd))

					if err != nil {
						return err
					}

					return describe.Run(ctx, c)
				},
			},

			{
				Name:      "call",
				Usage:     "Call an operation",
				ArgsUsage: "<operation> [value...] [part=value...]",

				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "index",
						Usage: "Pick the overload member by index",
						Value: -1,
					},

					&cli.StringFlag{
						Name:  "accepting-message",
						Usage: "Pick the overload member by request message",
					},

					&cli.StringFlag{
						Name:  "returning-message",
						Usage: "Pick the overload member by response message",
					},

					&cli.StringSliceFlag{
						Name:  "accepting",
						Usage: "Keep overload members accepting this part",
					},

					&cli.BoolFlag{
						Name:  "interactive",
						Usage: "Prompt for the overload member and missing parts",
					},

					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Print the request envelope without sending it",
					},

					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Send without confirmation",
					},
				},

				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() == 0 {
						return cli.ShowCommandHelp(cmd)
					}

					t := target(cmd)

					if !cmd.Bool("yes") && !cmd.Bool("dry-run") {
						t.Confirm = call.Confirm
					}

					c, err := app.Connect(ctx, t)

					if err != nil {
						return err
					}

					args := cmd.Args().Slice()

					return call.Run(ctx, c, args[0], args[1:], call.Options{
						Selection: call.Selection{
							Index: int(cmd.Int("index")),

							AcceptingMessage: cmd.String("accepting-message"),
							ReturningMessage: cmd.String("returning-message"),

							Accepting: cmd.StringSlice("accepting"),
						},

						Interactive: cmd.Bool("interactive"),
						DryRun:      cmd.Bool("dry-run"),
					})
				},
			},

			{
				Name:  "bridge",
				Usage: "Serve the operations as MCP tools",

				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "SSE listen address",
						Value: "localhost:4200",
					},

					&cli.BoolFlag{
						Name:  "stdio",
						Usage: "Serve over stdin and stdout instead of SSE",
					},
				},

				Action: func(ctx context.Context, cmd *cli.Command) error {
					c, err := app.Connect(ctx, target(cmd))

					if err != nil {
						return err
					}

					addr := cmd.String("addr")

					if cmd.Bool("stdio") {
						addr = ""
					}

					return bridge.Run(ctx, c, version, addr)
				},
			},

			{
				Name:  "openapi",
				Usage: "Export the operations as an OpenAPI document",

				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "Document title (default: port name)",
					},

					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format (json, yaml)",
						Value: "yaml",
					},

					&cli.StringFlag{
						Name:  "output",
						Usage: "Output file (default: stdout)",
					},
				},

				Action: func(ctx context.Context, cmd *cli.Command) error {
					c, err := app.Connect(ctx, target(cmd))

					if err != nil {
						return err
					}

					return openapi.Run(ctx, c, cmd.String("title"), cmd.String("format"), cmd.String("output"))
				},
			},

			{
				Name:  "cache",
				Usage: "Manage the WSDL cache",

				Commands: []*cli.Command{
					{
						Name:  "purge",
						Usage: "Remove expired documents",

						Action: func(ctx context.Context, cmd *cli.Command) error {
							c, err := app.OpenCache(target(cmd))

							if err != nil {
								return err
							}

							return c.Purge(ctx)
						},
					},

					{
						Name:  "clear",
						Usage: "Remove all documents",

						Action: func(ctx context.Context, cmd *cli.Command) error {
							c, err := app.OpenCache(target(cmd))

							if err != nil {
								return err
							}

							return c.Clear(ctx)
						},
					},
				},
			},
		},
	}
}

func target(cmd *cli.Command) app.Target {
	return app.Target{
		Config: cmd.String("config"),
		Name:   cmd.String("name"),

		WSDL: cmd.String("wsdl"),
		URL:  cmd.String("url"),

		Service: cmd.String("service"),
		Port:    cmd.String("port"),

		Token:    cmd.String("token"),
		Username: cmd.String("username"),
		Password: cmd.String("password"),

		Options: cmd.StringSlice("option"),
		NoCache: cmd.Bool("no-cache"),
	}
}
