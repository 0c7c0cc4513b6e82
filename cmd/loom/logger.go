package main

import (
	"fmt"
	"path/filepath"

	"github.com/draughtworks/loom/internal/logging"
	"github.com/urfave/cli/v3"
)

// setup reads the global flags shared by every subcommand, installs the
// default logger, and announces dry-run mode. It returns the project root
// and the effective config file path.
func setup(cmd *cli.Command) (root, configPath string, dryRun bool) {
	logging.SetupLogger(cmd.String("log-level"), cmd.String("log-format"))

	root = cmd.String("root")
	if root == "" {
		root = "."
	}

	configPath = cmd.String("config")
	if configPath == "" {
		configPath = filepath.Join(root, "loom.toml")
	}

	dryRun = cmd.Bool("dry-run")
	if dryRun {
		fmt.Println("Running in dry-run mode: no files will be written.")
	}
	return root, configPath, dryRun
}
