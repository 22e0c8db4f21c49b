package logging_test

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"

	"github.com/petasbytes/persona-engine/internal/logging"
)

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(&buf, "debug")
	assert.Equal(t, log.DebugLevel, l.GetLevel())

	l = logging.New(&buf, "nonsense")
	assert.Equal(t, log.InfoLevel, l.GetLevel())
}

func TestForComponent_Prefix(t *testing.T) {
	var buf bytes.Buffer
	base := logging.New(&buf, "info")
	logging.ForComponent(base, "session").Info("profile replaced", "facts", 2)

	out := buf.String()
	assert.Contains(t, out, "session")
	assert.Contains(t, out, "profile replaced")
	assert.Contains(t, out, "facts=2")
}
