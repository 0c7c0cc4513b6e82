package stencil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draughtworks/loom/internal/backend"
	"github.com/draughtworks/loom/internal/config"
	"github.com/draughtworks/loom/internal/model"
)

func boolPtr(v bool) *bool { return &v }

func testModel() *model.Model {
	return &model.Model{
		Domain:  "paper",
		ID:      "00000000-0000-0000-0000-000000000001",
		Version: "1.0.0",
		Objects: []model.Object{
			{
				Name: "widget",
				Attributes: []model.Attribute{
					{Name: "id", Type: "uuid"},
					{Name: "count", Type: "int"},
				},
			},
		},
	}
}

func compile(t *testing.T, root string, sel config.Selection, dryRun bool) error {
	t.Helper()
	b := New(nil)
	return b.Compile(context.Background(), testModel(),
		backend.PackageContext{Name: "proj", Root: root}, "paper", "src", sel, dryRun)
}

func TestCompile_WritesPackage(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, compile(t, root, config.Selection{}, false))

	dir := filepath.Join(root, "src", "paper")
	assert.FileExists(t, filepath.Join(dir, "doc.go"))
	assert.FileExists(t, filepath.Join(dir, "types.go"))
	assert.NoFileExists(t, filepath.Join(dir, "types_test.go"), "doc tests default off")

	doc, err := os.ReadFile(filepath.Join(dir, "doc.go"))
	require.NoError(t, err)
	assert.Contains(t, string(doc), "package paper")
	assert.Contains(t, string(doc), "00000000-0000-0000-0000-000000000001")

	types, err := os.ReadFile(filepath.Join(dir, "types.go"))
	require.NoError(t, err)
	assert.Contains(t, string(types), "type Widget struct")
	assert.Contains(t, string(types), "Count int64")
	assert.Contains(t, string(types), "func NewWidget(", "constructors default on")
}

func TestCompile_Options(t *testing.T) {
	root := t.TempDir()
	sel := config.Selection{Stencil: &config.StencilOptions{
		Meta:         boolPtr(true),
		DocTests:     boolPtr(true),
		Constructors: boolPtr(false),
	}}
	require.NoError(t, compile(t, root, sel, false))

	dir := filepath.Join(root, "src", "paper")
	assert.FileExists(t, filepath.Join(dir, "types_test.go"))

	doc, err := os.ReadFile(filepath.Join(dir, "doc.go"))
	require.NoError(t, err)
	assert.Contains(t, string(doc), "MetaDomain")

	types, err := os.ReadFile(filepath.Join(dir, "types.go"))
	require.NoError(t, err)
	assert.NotContains(t, string(types), "func NewWidget(")
}

func TestCompile_Idempotent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, compile(t, root, config.Selection{}, false))

	typesPath := filepath.Join(root, "src", "paper", "types.go")
	first, err := os.ReadFile(typesPath)
	require.NoError(t, err)

	require.NoError(t, compile(t, root, config.Selection{}, false))
	second, err := os.ReadFile(typesPath)
	require.NoError(t, err)

	assert.Equal(t, first, second, "unchanged model must generate byte-identical output")
}

func TestCompile_ModuleNamedTypes(t *testing.T) {
	root := t.TempDir()
	b := New(nil)
	require.NoError(t, b.Compile(context.Background(), testModel(),
		backend.PackageContext{Name: "proj", Root: root}, "types", "src", config.Selection{}, false))

	dir := filepath.Join(root, "src", "types")
	doc, err := os.ReadFile(filepath.Join(dir, "doc.go"))
	require.NoError(t, err)
	assert.Contains(t, string(doc), "package types")
	assert.Contains(t, string(doc), "DomainID")

	types, err := os.ReadFile(filepath.Join(dir, "types.go"))
	require.NoError(t, err)
	assert.Contains(t, string(types), "type Widget struct")
	assert.NotContains(t, string(types), "DomainID", "doc content must not clobber the types file")
}

func TestCompile_DryRunWritesNothing(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, compile(t, root, config.Selection{}, true))
	assert.NoDirExists(t, filepath.Join(root, "src"))
}

func TestCompile_NilModel(t *testing.T) {
	b := New(nil)
	err := b.Compile(context.Background(), nil,
		backend.PackageContext{Root: t.TempDir()}, "paper", "src", config.Selection{}, false)
	require.Error(t, err)
}

func TestResolveOptions_Defaults(t *testing.T) {
	opts := ResolveOptions(nil)
	assert.False(t, opts.Meta)
	assert.False(t, opts.DocTests)
	assert.True(t, opts.Constructors)
}

func TestGoTypeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"widget", "Widget"},
		{"drawing_editor", "DrawingEditor"},
		{"drawing editor", "DrawingEditor"},
		{"x-point", "XPoint"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, goTypeName(tc.in), "goTypeName(%q)", tc.in)
	}
}

func TestParamName(t *testing.T) {
	assert.Equal(t, "count", paramName("count"))
	assert.Equal(t, "type_", paramName("type"), "keywords get a suffix")
	assert.Equal(t, "v", paramName(""))
}
