package telemetry

import (
	"os"
)

const defaultEventsDir = ".persona"

// ObserveEnabled reports whether JSONL emission is on (PERSONA_OBSERVE_JSON=1).
func ObserveEnabled() bool {
	return os.Getenv("PERSONA_OBSERVE_JSON") == "1"
}

// EventsDir returns the directory events.jsonl is written to.
func EventsDir() string {
	if d := os.Getenv("PERSONA_EVENTS_DIR"); d != "" {
		return d
	}
	return defaultEventsDir
}
