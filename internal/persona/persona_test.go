package persona_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/persona-engine/internal/apperr"
	"github.com/petasbytes/persona-engine/internal/persona"
)

func TestPresets_CopyAndOrder(t *testing.T) {
	p := persona.Presets()
	require.Len(t, p, 7)
	assert.Equal(t, "friendly and encouraging", p[0])
	assert.Equal(t, "mentor-like and wise", p[6])

	p[0] = "mutated"
	assert.Equal(t, "friendly and encouraging", persona.Presets()[0])
	assert.Equal(t, "friendly and encouraging", persona.Default)
}

func TestResolve(t *testing.T) {
	cases := map[string]string{
		"5":                          "enthusiastic and energetic",
		" 1 ":                        "friendly and encouraging",
		"CALM AND PATIENT":           "calm and patient",
		"  like a pirate captain  ":  "like a pirate captain",
	}
	for in, want := range cases {
		got, err := persona.Resolve(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestResolve_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "0", "8", "-1"} {
		_, err := persona.Resolve(in)
		assert.True(t, apperr.IsKind(err, apperr.Validation), "input %q: %v", in, err)
	}
}
