// Package model is the boundary to the model loader: it parses the
// human-authored JSON model into its normalized in-memory form and persists
// or reloads the derived representation. Model semantics are opaque to the
// rest of the orchestrator.
package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/uuid/v5"
)

// DerivedFileName is the persisted model file inside a derived artifact
// directory.
const DerivedFileName = "model.json"

// Model is the normalized in-memory form of a source model.
type Model struct {
	Domain      string   `json:"domain"`
	ID          string   `json:"id"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	Objects     []Object `json:"objects,omitempty"`
}

// Object is one modeled entity.
type Object struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Attributes  []Attribute `json:"attributes,omitempty"`
}

// Attribute is a named, typed field of an object.
type Attribute struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Load reads and normalizes a human-authored model file. This is the
// expensive "build" step the cache exists to avoid repeating.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file '%s': %w", path, err)
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model file '%s': %w", path, err)
	}

	m.normalize()
	return &m, nil
}

// LoadDerived reads a previously persisted derived artifact.
func LoadDerived(dir string) (*Model, error) {
	path := filepath.Join(dir, DerivedFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read derived model '%s': %w", path, err)
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse derived model '%s': %w", path, err)
	}
	return &m, nil
}

// Persist writes the normalized model into the derived artifact directory,
// overwriting any previous build.
func (m *Model) Persist(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create derived artifact directory '%s': %w", dir, err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}

	path := filepath.Join(dir, DerivedFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write derived model '%s': %w", path, err)
	}
	return nil
}

// normalize fills derivable fields and puts the object list into a stable
// order so persisted artifacts are byte-reproducible.
func (m *Model) normalize() {
	m.Domain = strings.TrimSpace(m.Domain)
	if m.ID == "" {
		m.ID = NamespaceID(m.Domain).String()
	}
	if m.Version == "" {
		m.Version = "0.1.0"
	}
	sort.Slice(m.Objects, func(i, j int) bool {
		return m.Objects[i].Name < m.Objects[j].Name
	})
}

// NamespaceID derives the deterministic v5 UUID for a domain name.
func NamespaceID(domain string) uuid.UUID {
	return uuid.NewV5(uuid.NamespaceOID, domain)
}
