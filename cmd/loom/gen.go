package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/draughtworks/loom/internal/backend"
	"github.com/draughtworks/loom/internal/backend/outline"
	"github.com/draughtworks/loom/internal/backend/stencil"
	"github.com/draughtworks/loom/internal/config"
	"github.com/draughtworks/loom/internal/orchestrator"
	"github.com/urfave/cli/v3"
)

var genCmd = &cli.Command{
	Name:  "gen",
	Usage: "Generate source code from declared models",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "modules",
			Aliases: []string{"m"},
			Usage:   "Comma-separated module names to generate; omit to generate every declared module",
		},
		&cli.StringFlag{
			Name:  "compiler",
			Usage: "Override the backend for this run only (stencil or outline); needs --modules",
		},
		&cli.BoolFlag{
			Name:  "meta",
			Usage: "Stencil: enable meta-domain output (affects cross-domain imports)",
		},
		&cli.BoolFlag{
			Name:  "doc-tests",
			Usage: "Stencil: emit documentation tests for generated code",
		},
		&cli.BoolFlag{
			Name:  "constructors",
			Usage: "Stencil: emit constructor functions",
		},
		&cli.BoolFlag{
			Name:  "literal",
			Usage: "Outline: dump the normalized model verbatim",
		},
		&cli.BoolFlag{
			Name:  "check-only",
			Usage: "Outline: walk the model without emitting anything",
		},
	},
	Action: genAction,
}

func genAction(ctx context.Context, cmd *cli.Command) error {
	root, configPath, dryRun := setup(cmd)
	logger := slog.Default()

	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return cli.Exit(err.Error(), ExitGenericFailure)
	}

	var requested []string
	if cmd.IsSet("modules") {
		requested = strings.Split(cmd.String("modules"), ",")
	}

	override, err := overrideSelection(cmd)
	if err != nil {
		return cli.Exit(err.Error(), ExitGenericFailure)
	}

	orch := orchestrator.New(cfg,
		orchestrator.WithLogger(logger),
		orchestrator.WithRoot(root),
		orchestrator.WithConfigPath(configPath),
		orchestrator.WithRegistry(newRegistry(logger)),
		orchestrator.WithDryRun(dryRun),
	)

	results, err := orch.Generate(ctx, requested, override)
	if len(results) > 0 {
		fmt.Println(orchestrator.ReportTree(results))
	}
	if err != nil {
		return genExit(err, configPath)
	}
	return nil
}

// genExit maps generate failures onto the distinguished exit statuses.
func genExit(err error, configPath string) error {
	switch {
	case errors.Is(err, config.ErrNothingToDo):
		return cli.Exit(
			fmt.Sprintf("Nothing to do. Maybe declare a module in %s?", configPath),
			ExitNothingToDo,
		)
	case errors.Is(err, orchestrator.ErrModelsDirMissing):
		return cli.Exit(err.Error(), ExitModelsDirMissing)
	default:
		return cli.Exit(err.Error(), ExitGenericFailure)
	}
}

// newRegistry wires every built-in backend. The same registry serves the
// persisted-config path and the --compiler override path.
func newRegistry(logger *slog.Logger) *backend.Registry {
	r := backend.NewRegistry(logger)
	r.Register(stencil.New(logger))
	r.Register(outline.New(logger))
	return r
}

// overrideSelection builds the one-run backend override from the command
// line. Only flags the user actually set become explicit values, so the
// persisted per-module options still apply underneath.
func overrideSelection(cmd *cli.Command) (config.Selection, error) {
	if !cmd.IsSet("compiler") {
		return config.Selection{}, nil
	}

	boolFlag := func(name string) *bool {
		if !cmd.IsSet(name) {
			return nil
		}
		v := cmd.Bool(name)
		return &v
	}

	kind := cmd.String("compiler")
	switch kind {
	case config.KindStencil:
		return config.Selection{Stencil: &config.StencilOptions{
			Meta:         boolFlag("meta"),
			DocTests:     boolFlag("doc-tests"),
			Constructors: boolFlag("constructors"),
		}}, nil
	case config.KindOutline:
		return config.Selection{Outline: &config.OutlineOptions{
			Literal:   boolFlag("literal"),
			CheckOnly: boolFlag("check-only"),
		}}, nil
	default:
		return config.Selection{}, fmt.Errorf("%w: %s", config.ErrUnknownCompiler, kind)
	}
}
