// Package metrics derives size features for telemetry without retaining text.
package metrics

import (
	"strings"
	"unicode/utf8"

	"github.com/petasbytes/persona-engine/memory"
)

// Features holds basic local text features derived from an input string.
type Features struct {
	Bytes int
	Runes int
	Words int
	Lines int
}

// CountFeatures computes and returns byte, rune, word, and line counts for the input string.
func CountFeatures(s string) Features {
	return Features{
		Bytes: len(s),
		Runes: utf8.RuneCountInString(s),
		Words: countWords(s),
		Lines: countLines(s),
	}
}

// Fields renders f as a telemetry field map.
func (f Features) Fields() map[string]any {
	return map[string]any{
		"bytes": f.Bytes,
		"runes": f.Runes,
		"words": f.Words,
		"lines": f.Lines,
	}
}

// ProfileCounts returns the number of items per profile section, keyed by JSON name.
func ProfileCounts(p memory.UserProfile) map[string]any {
	return map[string]any{
		"facts":              len(p.Facts),
		"preferences":        len(p.Preferences),
		"emotional_patterns": len(p.EmotionalPatterns),
	}
}

// countWords counts words split on Unicode whitespace.
func countWords(s string) int {
	return len(strings.Fields(s))
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of '\n' runes.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}
