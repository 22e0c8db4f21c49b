// Package extractor turns a conversation transcript into a memory.UserProfile
// with one schema-constrained model call.
package extractor

import (
	"context"
	"strings"

	"github.com/petasbytes/persona-engine/internal/apperr"
	"github.com/petasbytes/persona-engine/internal/metrics"
	"github.com/petasbytes/persona-engine/internal/provider"
	"github.com/petasbytes/persona-engine/internal/runner"
	"github.com/petasbytes/persona-engine/internal/telemetry"
	"github.com/petasbytes/persona-engine/memory"
	"github.com/petasbytes/persona-engine/tools"
)

const instruction = `You are a memory extraction assistant. Read the conversation between a user and an AI assistant and build a profile of the user.

Extract three kinds of information:
1. Preferences: things the user likes, dislikes or chooses.
2. Emotional patterns: emotional, behavioral and communication-style patterns the user shows.
3. Facts: concrete facts about the user such as name, location, occupation and relationships.

Guidelines:
- Be thorough but precise.
- Only include information that is clearly stated or strongly implied by the user.
- Do not attribute the assistant's statements to the user.
- Write each item as a short standalone statement.
- Use an empty list for any category with nothing to report.

Record the result by calling the record_user_profile tool.`

type Extractor struct {
	runner *runner.Runner
}

// New validates credential and builds the model client.
func New(credential string, opts ...runner.Option) (*Extractor, error) {
	c, err := provider.ValidateCredential(credential)
	if err != nil {
		return nil, err
	}
	r, err := runner.Build(c, opts...)
	if err != nil {
		return nil, err
	}
	return &Extractor{runner: r}, nil
}

// Extract validates both inputs before building a client, then extracts.
// No network I/O happens when either input is blank.
func Extract(ctx context.Context, transcript, credential string, opts ...runner.Option) (memory.UserProfile, error) {
	if _, err := provider.ValidateCredential(credential); err != nil {
		return memory.UserProfile{}, err
	}
	if err := validateTranscript(transcript); err != nil {
		return memory.UserProfile{}, err
	}
	e, err := New(credential, opts...)
	if err != nil {
		return memory.UserProfile{}, err
	}
	return e.Extract(ctx, transcript)
}

// Extract returns the profile found in transcript. Every section is non-nil.
func (e *Extractor) Extract(ctx context.Context, transcript string) (memory.UserProfile, error) {
	if err := validateTranscript(transcript); err != nil {
		return memory.UserProfile{}, err
	}
	transcript = strings.TrimSpace(transcript)
	ctx, callID := telemetry.EnsureCallID(ctx)

	msg, err := e.runner.Call(ctx, runner.Request{
		Operation:   "extract",
		System:      instruction,
		Payload:     "Conversation to analyze:\n\n" + transcript,
		Temperature: provider.ExtractionTemperature,
		Tool:        &tools.RecordProfileDefinition,
	})
	if err != nil {
		return memory.UserProfile{}, apperr.Wrap(apperr.Extraction, err, "model call failed")
	}

	raw, ok := runner.ToolInput(msg, tools.RecordProfileDefinition.Name)
	if !ok {
		return memory.UserProfile{}, apperr.Newf(apperr.Extraction, "model did not return a structured profile (stop_reason=%s)", msg.StopReason)
	}
	profile, err := tools.DecodeProfileInput(raw)
	if err != nil {
		return memory.UserProfile{}, apperr.Wrap(apperr.Extraction, err, "model output does not match the profile schema")
	}

	telemetry.Emit("profile_extracted", map[string]any{
		"call_id":    callID,
		"transcript": metrics.CountFeatures(transcript).Fields(),
		"counts":     metrics.ProfileCounts(profile),
	})
	return profile, nil
}

func validateTranscript(transcript string) error {
	if strings.TrimSpace(transcript) == "" {
		return apperr.Newf(apperr.Validation, "transcript must not be empty")
	}
	return nil
}
