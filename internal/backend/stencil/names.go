package stencil

import (
	"strings"
	"unicode"
)

// goTypeName converts a modeled object or attribute name into an exported
// Go identifier: "drawing editor" and "drawing_editor" both become
// "DrawingEditor".
func goTypeName(name string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range name {
		switch {
		case unicode.IsSpace(r), r == '-', r == '_':
			upperNext = true
		case upperNext:
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// paramName converts a modeled attribute name into an unexported parameter
// identifier, avoiding collisions with Go keywords.
func paramName(name string) string {
	exported := goTypeName(name)
	if exported == "" {
		return "v"
	}
	runes := []rune(exported)
	runes[0] = unicode.ToLower(runes[0])
	param := string(runes)
	switch param {
	case "type", "func", "map", "range", "var", "const", "package", "import":
		return param + "_"
	}
	return param
}

// goType maps modeled attribute types onto Go types. Unknown types pass
// through as strings so a sloppy model still yields compilable output.
func goType(modelType string) string {
	switch strings.ToLower(modelType) {
	case "int", "integer":
		return "int64"
	case "float", "number":
		return "float64"
	case "bool", "boolean":
		return "bool"
	case "uuid", "id":
		return "string"
	default:
		return "string"
	}
}
