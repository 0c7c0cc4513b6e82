package modelcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draughtworks/loom/internal/model"
)

const sourceModel = `{"domain": "paper", "objects": [{"name": "widget"}]}`

// project lays out a temp root with a models directory holding one source
// model, and returns (sourcePath, derivedRoot).
func project(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	modelDir := filepath.Join(root, "models")
	require.NoError(t, os.MkdirAll(modelDir, 0o755))

	sourcePath := filepath.Join(modelDir, "paper.json")
	require.NoError(t, os.WriteFile(sourcePath, []byte(sourceModel), 0o644))
	return sourcePath, modelDir
}

// touchForward bumps the source mtime strictly past the recorded build time.
func touchForward(t *testing.T, path string) {
	t.Helper()
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))
}

func TestDerivedPath(t *testing.T) {
	got := DerivedPath(filepath.Join("root", "models"), filepath.Join("elsewhere", "paper.json"))
	assert.Equal(t, filepath.Join("root", "models", "paper.v2.json"), got)
}

func TestEnsureFresh_FirstBuild(t *testing.T) {
	sourcePath, derivedRoot := project(t)
	cache := New(nil, nil)

	m, rebuilt, err := cache.EnsureFresh(sourcePath, derivedRoot, false)
	require.NoError(t, err)
	assert.True(t, rebuilt)
	assert.Equal(t, "paper", m.Domain)

	derived := DerivedPath(derivedRoot, sourcePath)
	assert.FileExists(t, filepath.Join(derived, model.DerivedFileName))
	assert.FileExists(t, filepath.Join(derived, MetadataFileName))
}

func TestEnsureFresh_SecondRunIsCacheHit(t *testing.T) {
	sourcePath, derivedRoot := project(t)
	cache := New(nil, nil)

	_, rebuilt, err := cache.EnsureFresh(sourcePath, derivedRoot, false)
	require.NoError(t, err)
	require.True(t, rebuilt)

	derivedModel := filepath.Join(DerivedPath(derivedRoot, sourcePath), model.DerivedFileName)
	firstBytes, err := os.ReadFile(derivedModel)
	require.NoError(t, err)

	m, rebuilt, err := cache.EnsureFresh(sourcePath, derivedRoot, false)
	require.NoError(t, err)
	assert.False(t, rebuilt, "unchanged source must not rebuild")
	assert.Equal(t, "paper", m.Domain)

	secondBytes, err := os.ReadFile(derivedModel)
	require.NoError(t, err)
	assert.Equal(t, firstBytes, secondBytes, "cache hit must leave the artifact untouched")
}

func TestEnsureFresh_StaleSourceRebuilds(t *testing.T) {
	sourcePath, derivedRoot := project(t)
	cache := New(nil, nil)

	_, _, err := cache.EnsureFresh(sourcePath, derivedRoot, false)
	require.NoError(t, err)

	touchForward(t, sourcePath)

	_, rebuilt, err := cache.EnsureFresh(sourcePath, derivedRoot, false)
	require.NoError(t, err)
	assert.True(t, rebuilt, "newer source mtime must trigger a rebuild")

	// And the rebuild refreshed the metadata, so the next run is a hit again.
	_, rebuilt, err = cache.EnsureFresh(sourcePath, derivedRoot, false)
	require.NoError(t, err)
	assert.False(t, rebuilt)
}

func TestEnsureFresh_SourceMissing(t *testing.T) {
	_, derivedRoot := project(t)
	cache := New(nil, nil)

	_, _, err := cache.EnsureFresh(filepath.Join(derivedRoot, "absent.json"), derivedRoot, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestEnsureFresh_SourceIsDirectory(t *testing.T) {
	_, derivedRoot := project(t)
	dirAsModel := filepath.Join(derivedRoot, "dir.json")
	require.NoError(t, os.MkdirAll(dirAsModel, 0o755))
	cache := New(nil, nil)

	_, _, err := cache.EnsureFresh(dirAsModel, derivedRoot, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestEnsureFresh_UnsupportedExtension(t *testing.T) {
	_, derivedRoot := project(t)
	yamlModel := filepath.Join(derivedRoot, "paper.yaml")
	require.NoError(t, os.WriteFile(yamlModel, []byte("domain: paper"), 0o644))
	cache := New(nil, nil)

	_, _, err := cache.EnsureFresh(yamlModel, derivedRoot, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEnsureFresh_MissingMetadata(t *testing.T) {
	sourcePath, derivedRoot := project(t)
	cache := New(nil, nil)

	_, _, err := cache.EnsureFresh(sourcePath, derivedRoot, false)
	require.NoError(t, err)

	derived := DerivedPath(derivedRoot, sourcePath)
	require.NoError(t, os.Remove(filepath.Join(derived, MetadataFileName)))

	_, _, err = cache.EnsureFresh(sourcePath, derivedRoot, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMetadataRead)
}

func TestEnsureFresh_CorruptMetadata(t *testing.T) {
	sourcePath, derivedRoot := project(t)
	cache := New(nil, nil)

	_, _, err := cache.EnsureFresh(sourcePath, derivedRoot, false)
	require.NoError(t, err)

	derived := DerivedPath(derivedRoot, sourcePath)
	require.NoError(t, os.WriteFile(filepath.Join(derived, MetadataFileName), []byte("{"), 0o644))

	_, _, err = cache.EnsureFresh(sourcePath, derivedRoot, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMetadataRead)
}

func TestEnsureFresh_DryRunWritesNothing(t *testing.T) {
	sourcePath, derivedRoot := project(t)
	cache := New(nil, nil)

	m, rebuilt, err := cache.EnsureFresh(sourcePath, derivedRoot, true)
	require.NoError(t, err)
	assert.True(t, rebuilt, "dry-run still reports what a real run would do")
	assert.Equal(t, "paper", m.Domain)

	assert.NoDirExists(t, DerivedPath(derivedRoot, sourcePath))
}
