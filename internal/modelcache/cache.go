// Package modelcache decides whether the derived form of a source model is
// stale and owns the on-disk derived artifact lifecycle.
//
// Staleness is a strict modification-time comparison: the derived artifact
// is rebuilt only when the source model's mtime is newer than the mtime
// recorded at build time. This avoids re-running the expensive model
// build/normalization on every invocation while staying correct whenever
// the source changes. Clock skew, or filesystem timestamp granularity
// coarser than the interval between edits, can defeat the comparison; that
// is an accepted limitation of the design rather than something this
// package tries to mask.
package modelcache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/draughtworks/loom/internal/config"
	"github.com/draughtworks/loom/internal/model"
)

// MetadataFileName is the fixed name of the rebuild-metadata sidecar inside
// a derived artifact directory.
const MetadataFileName = "metadata.json"

// derivedSuffix versions the derived artifact layout. Bumping it orphans
// old artifacts instead of misreading them.
const derivedSuffix = ".v2"

// Metadata records what the cache needs to answer the staleness question on
// the next run.
type Metadata struct {
	// SourceMTime is the source model's modification time observed when the
	// derived artifact was built.
	SourceMTime time.Time `json:"source_mtime"`
	// BuiltAt is when the build happened, kept for humans reading the
	// sidecar.
	BuiltAt time.Time `json:"built_at"`
}

// Loader is the slice of the model-loader boundary the cache depends on.
type Loader interface {
	// Load builds the normalized model from the human-authored source file.
	Load(path string) (*model.Model, error)
	// LoadDerived reads a previously persisted derived artifact directory.
	LoadDerived(dir string) (*model.Model, error)
	// Persist writes the model into the derived artifact directory.
	Persist(m *model.Model, dir string) error
}

// FileLoader adapts the model package to the Loader interface.
type FileLoader struct{}

func (FileLoader) Load(path string) (*model.Model, error)       { return model.Load(path) }
func (FileLoader) LoadDerived(dir string) (*model.Model, error) { return model.LoadDerived(dir) }
func (FileLoader) Persist(m *model.Model, dir string) error     { return m.Persist(dir) }

// Cache answers "is the derived model fresh?" and rebuilds it when not.
type Cache struct {
	loader Loader
	logger *slog.Logger
}

// New creates a Cache. A nil loader uses the real model package; a nil
// logger uses the default.
func New(loader Loader, logger *slog.Logger) *Cache {
	if loader == nil {
		loader = FileLoader{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{loader: loader, logger: logger}
}

// DerivedPath computes where the derived artifact for a source model lives.
// It is a pure function of the inputs: <derivedRoot>/<stem>.v2.json.
func DerivedPath(derivedRoot, sourcePath string) string {
	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(derivedRoot, stem+derivedSuffix+config.ModelExt)
}

// EnsureFresh returns the up-to-date model for sourcePath, rebuilding the
// derived artifact under derivedRoot when the source is newer than the
// recorded build. The returned bool reports whether a rebuild happened.
// Under dry-run the source is still loaded and validated, but nothing is
// written.
func (c *Cache) EnsureFresh(sourcePath, derivedRoot string, dryRun bool) (*model.Model, bool, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s", ErrModelNotFound, sourcePath)
	}
	if !info.Mode().IsRegular() {
		return nil, false, fmt.Errorf("%w: %s is not a regular file", ErrModelNotFound, sourcePath)
	}
	if ext := filepath.Ext(sourcePath); ext != config.ModelExt {
		return nil, false, fmt.Errorf("%w: %s (want %s)", ErrUnsupportedFormat, sourcePath, config.ModelExt)
	}

	derived := DerivedPath(derivedRoot, sourcePath)

	if _, err := os.Stat(derived); os.IsNotExist(err) {
		c.logger.Debug("no derived artifact, building", "source", sourcePath, "derived", derived)
		m, err := c.rebuild(sourcePath, derived, info.ModTime(), dryRun)
		return m, err == nil, err
	}

	meta, err := c.readMetadata(derived)
	if err != nil {
		return nil, false, err
	}

	if info.ModTime().After(meta.SourceMTime) {
		c.logger.Debug("source model newer than derived artifact, rebuilding",
			"source", sourcePath,
			"source_mtime", info.ModTime(),
			"built_from", meta.SourceMTime)
		m, err := c.rebuild(sourcePath, derived, info.ModTime(), dryRun)
		return m, err == nil, err
	}

	c.logger.Debug("derived artifact is fresh", "derived", derived)
	m, err := c.loader.LoadDerived(derived)
	if err != nil {
		return nil, false, err
	}
	return m, false, nil
}

// rebuild loads the source model fresh and, unless dry-run, overwrites the
// derived artifact and its metadata sidecar.
func (c *Cache) rebuild(sourcePath, derived string, sourceMTime time.Time, dryRun bool) (*model.Model, error) {
	m, err := c.loader.Load(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to build model from '%s': %w", sourcePath, err)
	}

	if dryRun {
		c.logger.Info("dry-run: would persist derived artifact", "derived", derived)
		return m, nil
	}

	if err := c.loader.Persist(m, derived); err != nil {
		return nil, err
	}
	if err := c.writeMetadata(derived, Metadata{
		SourceMTime: sourceMTime,
		BuiltAt:     time.Now().UTC(),
	}); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *Cache) readMetadata(derived string) (Metadata, error) {
	path := filepath.Join(derived, MetadataFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %s", ErrMetadataRead, path)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, fmt.Errorf("%w: %s: %v", ErrMetadataRead, path, err)
	}
	return meta, nil
}

func (c *Cache) writeMetadata(derived string, meta Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	path := filepath.Join(derived, MetadataFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata '%s': %w", path, err)
	}
	return nil
}
