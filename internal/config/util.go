package config

import (
	"strings"
	"unicode"
)

// SnakeCase lowers a module or domain name into the snake_case form used for
// deterministic model file names: "Drawing Editor" and "drawingEditor" both
// become "drawing_editor".
func SnakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)

	prevLower := false
	pendingSep := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r), r == '-', r == '_', r == '.':
			if b.Len() > 0 {
				pendingSep = true
			}
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower || pendingSep {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			pendingSep = false
			prevLower = false
		default:
			if pendingSep {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			pendingSep = false
			prevLower = unicode.IsLower(r)
		}
	}
	return b.String()
}

// TitleCase renders a name for human-facing generated headers:
// "drawing_editor" becomes "Drawing Editor".
func TitleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_'
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
