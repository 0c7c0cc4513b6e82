package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/draughtworks/loom/internal/config"
	"github.com/draughtworks/loom/internal/orchestrator"
)

// freshGenFlags mirrors genCmd's flag set with new instances, so each test
// case starts from unset flags.
func freshGenFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "modules", Aliases: []string{"m"}},
		&cli.StringFlag{Name: "compiler"},
		&cli.BoolFlag{Name: "meta"},
		&cli.BoolFlag{Name: "doc-tests"},
		&cli.BoolFlag{Name: "constructors"},
		&cli.BoolFlag{Name: "literal"},
		&cli.BoolFlag{Name: "check-only"},
	}
}

// runOverrideSelection parses args through a throwaway command and captures
// what overrideSelection produces.
func runOverrideSelection(t *testing.T, args ...string) (config.Selection, error) {
	t.Helper()

	var sel config.Selection
	var selErr error
	cmd := &cli.Command{
		Name:  "gen",
		Flags: freshGenFlags(),
		Action: func(_ context.Context, c *cli.Command) error {
			sel, selErr = overrideSelection(c)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"gen"}, args...)))
	return sel, selErr
}

func TestOverrideSelection_NoCompilerFlag(t *testing.T) {
	sel, err := runOverrideSelection(t)
	require.NoError(t, err)
	assert.True(t, sel.IsZero(), "without --compiler there is no override")

	// Option flags alone do not create an override either.
	sel, err = runOverrideSelection(t, "--doc-tests")
	require.NoError(t, err)
	assert.True(t, sel.IsZero())
}

func TestOverrideSelection_StencilOnlySetFlagsBecomeExplicit(t *testing.T) {
	sel, err := runOverrideSelection(t, "--compiler", "stencil", "--doc-tests")
	require.NoError(t, err)

	require.NotNil(t, sel.Stencil)
	assert.Nil(t, sel.Outline)
	require.NotNil(t, sel.Stencil.DocTests)
	assert.True(t, *sel.Stencil.DocTests)
	assert.Nil(t, sel.Stencil.Meta, "unset flags stay nil so persisted options apply")
	assert.Nil(t, sel.Stencil.Constructors)
}

func TestOverrideSelection_ExplicitFalseIsNotUnset(t *testing.T) {
	sel, err := runOverrideSelection(t, "--compiler", "stencil", "--constructors=false")
	require.NoError(t, err)

	require.NotNil(t, sel.Stencil)
	require.NotNil(t, sel.Stencil.Constructors)
	assert.False(t, *sel.Stencil.Constructors)
}

func TestOverrideSelection_Outline(t *testing.T) {
	sel, err := runOverrideSelection(t, "--compiler", "outline", "--check-only")
	require.NoError(t, err)

	require.NotNil(t, sel.Outline)
	assert.Nil(t, sel.Stencil)
	require.NotNil(t, sel.Outline.CheckOnly)
	assert.True(t, *sel.Outline.CheckOnly)
	assert.Nil(t, sel.Outline.Literal)
}

func TestOverrideSelection_UnknownCompiler(t *testing.T) {
	_, err := runOverrideSelection(t, "--compiler", "bogus")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrUnknownCompiler)
	assert.Contains(t, err.Error(), "bogus")
}

func TestGenExit_ExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "nothing_to_do",
			err:      fmt.Errorf("wrapped: %w", config.ErrNothingToDo),
			wantCode: ExitNothingToDo,
		},
		{
			name:     "models_dir_missing",
			err:      fmt.Errorf("wrapped: %w", orchestrator.ErrModelsDirMissing),
			wantCode: ExitModelsDirMissing,
		},
		{
			name:     "anything_else",
			err:      errors.New("generator exploded"),
			wantCode: ExitGenericFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := genExit(tt.err, "proj/loom.toml")

			var exitErr cli.ExitCoder
			require.True(t, errors.As(result, &exitErr), "expected cli.ExitCoder, got %T", result)
			assert.Equal(t, tt.wantCode, exitErr.ExitCode())
		})
	}
}

func TestGenExit_NothingToDoNamesConfigFile(t *testing.T) {
	result := genExit(config.ErrNothingToDo, "proj/loom.toml")

	var exitErr cli.ExitCoder
	require.True(t, errors.As(result, &exitErr))
	assert.Equal(t, ExitNothingToDo, exitErr.ExitCode())
	assert.Contains(t, exitErr.Error(), "proj/loom.toml")
}

// TestGenAction_EndToEnd drives the action directly against a real project
// directory, the way a user would from the shell.
func TestGenAction_EndToEnd(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "models"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "models", "alpha.json"),
		[]byte(`{"domain": "alpha", "objects": [{"name": "thing"}]}`), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "loom.toml"),
		[]byte("version = \"v1\"\n\n[[modules]]\nname = \"alpha\"\nmodel = \"models/alpha.json\"\n"), 0o644))

	cmd := &cli.Command{
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "config"},
			&cli.StringFlag{Name: "root", Value: root},
			&cli.BoolFlag{Name: "dry-run"},
			&cli.StringFlag{Name: "log-level", Value: "error"},
			&cli.StringFlag{Name: "log-format", Value: "text"},
		}, freshGenFlags()...),
	}

	require.NoError(t, genAction(context.Background(), cmd))
	assert.FileExists(t, filepath.Join(root, "src", "alpha", "types.go"))
	assert.DirExists(t, filepath.Join(root, "models", "alpha.v2.json"))
}

func TestGenAction_MissingConfigFile(t *testing.T) {
	cmd := &cli.Command{
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "config"},
			&cli.StringFlag{Name: "root", Value: t.TempDir()},
			&cli.BoolFlag{Name: "dry-run"},
			&cli.StringFlag{Name: "log-level", Value: "error"},
			&cli.StringFlag{Name: "log-format", Value: "text"},
		}, freshGenFlags()...),
	}

	result := genAction(context.Background(), cmd)

	var exitErr cli.ExitCoder
	require.True(t, errors.As(result, &exitErr), "expected cli.ExitCoder, got %T", result)
	assert.Equal(t, ExitGenericFailure, exitErr.ExitCode())
}
