// Package main is the entry point for the compliment CLI application.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	clicmd "github.com/timsgardner/compliment/internal/cli"
	"github.com/timsgardner/compliment/internal/trace"
	"github.com/timsgardner/compliment/pkg/version"
)

func main() {
	// A .env in the working directory may set COMPLIMENT_* variables.
	_ = godotenv.Load()

	stop := trace.Init()
	defer stop()

	common := func(cmd *cli.Command) clicmd.CommonParams {
		return clicmd.CommonParams{
			ConfigPath: cmd.String("config"),
			LogLevel:   cmd.String("log-level"),
		}
	}

	app := &cli.Command{
		Name:                  "compliment",
		Usage:                 "Context-aware symbol completion for editors",
		Version:               version.Version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file (defaults to $COMPLIMENT_CONFIG or the XDG config dir)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error); overrides the config file",
				Sources: cli.EnvVars("COMPLIMENT_LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "complete",
				Usage:     "Print completions for a prefix",
				ArgsUsage: "<prefix>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "ns",
						Aliases: []string{"n"},
						Usage:   "Enclosing namespace",
					},
					&cli.StringFlag{
						Name:  "context",
						Usage: "Enclosing form with __prefix__ in place of the symbol",
					},
					&cli.StringFlag{
						Name:  "fuzziness",
						Usage: "Matching policy: skip or boundary",
					},
					&cli.StringSliceFlag{
						Name:  "extra",
						Usage: "Metadata to include: doc, arity, type",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Usage:   "Maximum number of candidates",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Completion deadline",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Go template applied to each candidate, e.g. '{{.Text}}\\t{{.Origin}}'",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print candidates as JSON",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() == 0 {
						return fmt.Errorf("prefix required")
					}
					return clicmd.Complete(ctx, clicmd.CompleteParams{
						CommonParams: common(cmd),
						Prefix:       cmd.Args().Get(0),
						Scope:        cmd.String("ns"),
						Context:      cmd.String("context"),
						Fuzziness:    cmd.String("fuzziness"),
						Extra:        cmd.StringSlice("extra"),
						Limit:        cmd.Int("limit"),
						Timeout:      cmd.Duration("timeout"),
						Format:       cmd.String("format"),
						JSON:         cmd.Bool("json"),
					})
				},
			},
			{
				Name:      "doc",
				Usage:     "Show documentation for a symbol",
				ArgsUsage: "<symbol>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "ns",
						Aliases: []string{"n"},
						Usage:   "Namespace used to resolve the symbol",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() == 0 {
						return fmt.Errorf("symbol required")
					}
					return clicmd.Doc(clicmd.DocParams{
						CommonParams: common(cmd),
						Symbol:       cmd.Args().Get(0),
						Scope:        cmd.String("ns"),
					})
				},
			},
			{
				Name:      "index",
				Usage:     "Dump a view of the search path",
				ArgsUsage: "[files|classes|modules|resources|stats]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: text, json or yaml",
					},
					&cli.BoolFlag{
						Name:  "no-archives",
						Usage: "Do not list archive contents",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					return clicmd.Index(clicmd.IndexParams{
						CommonParams: common(cmd),
						View:         cmd.Args().Get(0),
						Format:       cmd.String("format"),
						NoArchives:   cmd.Bool("no-archives"),
					})
				},
			},
			{
				Name:  "status",
				Usage: "Show the search path, loaded namespaces and caches",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return clicmd.Status(common(cmd))
				},
			},
			{
				Name:  "serve",
				Usage: "Answer completion requests on stdin/stdout",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "transport",
						Aliases: []string{"t"},
						Value:   clicmd.TransportMCP,
						Usage:   "Protocol: mcp or msgpack",
					},
					&cli.BoolFlag{
						Name:    "watch",
						Aliases: []string{"w"},
						Usage:   "Flush caches when files under the search path change",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return clicmd.Serve(ctx, clicmd.ServeParams{
						CommonParams: common(cmd),
						Transport:    cmd.String("transport"),
						Watch:        cmd.Bool("watch"),
					})
				},
			},
			{
				Name:      "validate",
				Usage:     "Validate a compliment configuration file",
				ArgsUsage: "[config-file]",
				Action: func(_ context.Context, cmd *cli.Command) error {
					params := common(cmd)
					if cmd.Args().Len() > 0 {
						params.ConfigPath = cmd.Args().Get(0)
					}
					return clicmd.Validate(params)
				},
			},
			{
				Name:      "schema",
				Usage:     "Display or export the JSON Schema for compliment configuration files",
				ArgsUsage: "[output-file]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (prints to stdout if not specified)",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					outputPath := cmd.String("output")
					if outputPath == "" && cmd.Args().Len() > 0 {
						outputPath = cmd.Args().Get(0)
					}
					return clicmd.Schema(common(cmd), outputPath)
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
