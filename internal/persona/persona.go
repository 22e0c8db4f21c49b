// Package persona lists the preset personas offered by the CLI and HTTP adapter.
// Any non-empty free-text persona is also accepted.
package persona

import (
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/petasbytes/persona-engine/internal/apperr"
)

var presets = []string{
	"friendly and encouraging",
	"professional and formal",
	"casual and humorous",
	"empathetic and supportive",
	"enthusiastic and energetic",
	"calm and patient",
	"mentor-like and wise",
}

// Default is the persona used when the caller has not picked one.
var Default = presets[0]

// Presets returns a copy of the preset list in menu order.
func Presets() []string {
	return slices.Clone(presets)
}

// Resolve maps a menu choice to a persona label. choice may be a 1-based
// preset number, a preset label in any case, or free text.
func Resolve(choice string) (string, error) {
	choice = strings.TrimSpace(choice)
	if choice == "" {
		return "", apperr.Newf(apperr.Validation, "persona must not be empty")
	}
	if n, err := strconv.Atoi(choice); err == nil {
		if n < 1 || n > len(presets) {
			return "", apperr.Newf(apperr.Validation, "persona number %d out of range 1-%d", n, len(presets))
		}
		return presets[n-1], nil
	}
	if p, ok := lo.Find(presets, func(p string) bool { return strings.EqualFold(p, choice) }); ok {
		return p, nil
	}
	return choice, nil
}
