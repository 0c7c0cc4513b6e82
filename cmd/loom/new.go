package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/draughtworks/loom/internal/config"
	"github.com/draughtworks/loom/internal/orchestrator"
	"github.com/urfave/cli/v3"
)

var newCmd = &cli.Command{
	Name:      "new",
	Usage:     "Scaffold a new module with a blank model",
	ArgsUsage: "<name>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Generated-source root for the new module (defaults to src)",
		},
	},
	Action: newAction,
}

func newAction(ctx context.Context, cmd *cli.Command) error {
	root, configPath, dryRun := setup(cmd)
	logger := slog.Default()

	if cmd.Args().Len() < 1 {
		return cli.Exit("module name required", ExitGenericFailure)
	}
	name := config.SnakeCase(cmd.Args().Get(0))

	// A missing config file is fine for `new`: the first module creates it.
	var cfg *config.Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		logger.Debug("no config file yet, starting a fresh one", "path", configPath)
		cfg = &config.Config{Version: config.VersionLatest}
	} else {
		var err error
		cfg, err = config.NewConfig(configPath)
		if err != nil {
			return cli.Exit(err.Error(), ExitGenericFailure)
		}
	}

	orch := orchestrator.New(cfg,
		orchestrator.WithLogger(logger),
		orchestrator.WithRoot(root),
		orchestrator.WithConfigPath(configPath),
		orchestrator.WithDryRun(dryRun),
	)

	spec, err := orch.NewModule(name, cmd.String("output"))
	if err != nil {
		if errors.Is(err, config.ErrModuleExists) {
			return cli.Exit(err.Error(), ExitModuleExists)
		}
		return cli.Exit(err.Error(), ExitGenericFailure)
	}

	fmt.Printf("Created module '%s' with model %s\n", spec.Name, spec.Model)
	return nil
}
