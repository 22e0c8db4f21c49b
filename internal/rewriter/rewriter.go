// Package rewriter restyles a generic reply for a persona, weaving in an
// extracted profile, with one free-text model call.
package rewriter

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/petasbytes/persona-engine/internal/apperr"
	"github.com/petasbytes/persona-engine/internal/metrics"
	"github.com/petasbytes/persona-engine/internal/provider"
	"github.com/petasbytes/persona-engine/internal/runner"
	"github.com/petasbytes/persona-engine/internal/telemetry"
	"github.com/petasbytes/persona-engine/memory"
)

// Rewriter holds a profile for the life of the instance. Calls on one
// instance are serialized; the override window never overlaps another call.
type Rewriter struct {
	runner *runner.Runner

	mu      sync.Mutex
	profile memory.UserProfile
}

// New validates credential, builds the model client and stores a copy of profile.
func New(profile memory.UserProfile, credential string, opts ...runner.Option) (*Rewriter, error) {
	c, err := provider.ValidateCredential(credential)
	if err != nil {
		return nil, err
	}
	r, err := runner.Build(c, opts...)
	if err != nil {
		return nil, err
	}
	return &Rewriter{runner: r, profile: profile.Clone()}, nil
}

// Profile returns a copy of the stored profile.
func (r *Rewriter) Profile() memory.UserProfile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profile.Clone()
}

// Rewrite restyles originalText for persona using the stored profile.
func (r *Rewriter) Rewrite(ctx context.Context, originalText, persona string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rewrite(ctx, originalText, persona)
}

// RewriteWithProfile is Rewrite with override standing in for the stored
// profile during this call only. The stored profile is restored on every exit path.
func (r *Rewriter) RewriteWithProfile(ctx context.Context, originalText, persona string, override memory.UserProfile) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.withProfile(override, func() (string, error) {
		return r.rewrite(ctx, originalText, persona)
	})
}

// withProfile installs p for the duration of fn. Caller holds r.mu.
func (r *Rewriter) withProfile(p memory.UserProfile, fn func() (string, error)) (string, error) {
	saved := r.profile
	r.profile = p.Clone()
	defer func() { r.profile = saved }()
	return fn()
}

// rewrite does the work. Caller holds r.mu.
func (r *Rewriter) rewrite(ctx context.Context, originalText, persona string) (string, error) {
	originalText = strings.TrimSpace(originalText)
	persona = strings.TrimSpace(persona)
	if originalText == "" {
		return "", apperr.Newf(apperr.Validation, "original text must not be empty")
	}
	if persona == "" {
		return "", apperr.Newf(apperr.Validation, "persona must not be empty")
	}
	ctx, callID := telemetry.EnsureCallID(ctx)

	msg, err := r.runner.Call(ctx, runner.Request{
		Operation:   "rewrite",
		System:      SystemPrompt(persona, r.profile),
		Payload:     payload(originalText),
		Temperature: provider.RewriteTemperature,
	})
	if err != nil {
		return "", apperr.Wrap(apperr.Rewrite, err, "model call failed")
	}

	out := cleanReply(runner.TextOf(msg))
	if out == "" {
		return "", apperr.Newf(apperr.Rewrite, "model returned an empty reply (stop_reason=%s)", msg.StopReason)
	}

	telemetry.Emit("reply_rewritten", map[string]any{
		"call_id":       callID,
		"persona_runes": metrics.CountFeatures(persona).Runes,
		"input":         metrics.CountFeatures(originalText).Fields(),
		"output":        metrics.CountFeatures(out).Fields(),
		"profile":       metrics.ProfileCounts(r.profile),
	})
	return out, nil
}

var fenceTag = regexp.MustCompile(`^[A-Za-z0-9_+.-]{1,20}$`)

// cleanReply trims s and strips one enclosing code fence or pair of quotes.
func cleanReply(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") && strings.HasSuffix(s, "```") && len(s) >= 6 {
		inner := strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
		// The opening line is dropped only when it is bare or a language tag.
		if i := strings.IndexByte(inner, '\n'); i >= 0 {
			if first := strings.TrimSpace(inner[:i]); first == "" || fenceTag.MatchString(first) {
				inner = inner[i+1:]
			}
		}
		s = strings.TrimSpace(inner)
	}
	for _, q := range [][2]string{{`"`, `"`}, {"“", "”"}} {
		if len(s) >= len(q[0])+len(q[1]) && strings.HasPrefix(s, q[0]) && strings.HasSuffix(s, q[1]) {
			inner := s[len(q[0]) : len(s)-len(q[1])]
			if !strings.Contains(inner, q[0]) && !strings.Contains(inner, q[1]) {
				s = strings.TrimSpace(inner)
			}
			break
		}
	}
	return s
}
