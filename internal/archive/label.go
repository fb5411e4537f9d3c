package archive

import (
	"strings"

	"golang.org/x/text/width"
)

// labelMaxLen bounds a sanitized label to keep archive paths short.
const labelMaxLen = 20

// Label builds a path-safe directory label from oracle-provided text.
// Full-width compatibility forms fold to ASCII first, then only ASCII
// letters, digits, spaces and underscores survive; spaces become
// underscores and the result is capped at labelMaxLen runes. An empty
// result yields fallback (the section kind). Same input, same output:
// no locale or external state is consulted.
func Label(rawTitle, fallback string) string {
	folded := width.Fold.String(rawTitle)

	var b strings.Builder
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}

	label := strings.Trim(b.String(), "_")
	if len(label) > labelMaxLen {
		label = label[:labelMaxLen]
	}
	if label == "" {
		return fallback
	}
	return label
}
