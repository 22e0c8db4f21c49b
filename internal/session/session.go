// Package session keeps the profile of one interactive session and composes
// the extractor and rewriter the way the presentation layer does.
//
// A failed re-extraction leaves the previously stored profile in place.
package session

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/petasbytes/persona-engine/internal/apperr"
	"github.com/petasbytes/persona-engine/internal/extractor"
	"github.com/petasbytes/persona-engine/internal/rewriter"
	"github.com/petasbytes/persona-engine/internal/runner"
	"github.com/petasbytes/persona-engine/memory"
)

type Session struct {
	ID string

	logger *log.Logger
	opts   []runner.Option

	mu      sync.RWMutex
	profile *memory.UserProfile
}

func New(logger *log.Logger, opts ...runner.Option) *Session {
	id := uuid.NewString()
	return &Session{
		ID:     id,
		logger: logger.With("session", id),
		opts:   opts,
	}
}

// Profile returns a copy of the current profile and whether one is set.
func (s *Session) Profile() (memory.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return memory.UserProfile{}, false
	}
	return s.profile.Clone(), true
}

// SetProfile replaces the current profile with an externally supplied one.
func (s *Session) SetProfile(p memory.UserProfile) {
	c := p.Clone()
	s.mu.Lock()
	s.profile = &c
	s.mu.Unlock()
}

// Analyze extracts a profile from transcript and makes it current.
// On failure the current profile is left untouched.
func (s *Session) Analyze(ctx context.Context, credential, transcript string) (memory.UserProfile, error) {
	p, err := extractor.Extract(ctx, transcript, credential, s.opts...)
	if err != nil {
		_, had := s.Profile()
		s.logger.Warn("extraction failed", "kind", apperr.KindOf(err), "kept_previous_profile", had)
		return memory.UserProfile{}, err
	}
	s.SetProfile(p)
	s.logger.Info("profile extracted",
		"facts", len(p.Facts),
		"preferences", len(p.Preferences),
		"emotional_patterns", len(p.EmotionalPatterns),
	)
	return p, nil
}

// Transform rewrites text for persona with the current profile.
func (s *Session) Transform(ctx context.Context, credential, text, persona string) (string, error) {
	rw, err := s.rewriter(credential)
	if err != nil {
		return "", err
	}
	out, err := rw.Rewrite(ctx, text, persona)
	s.logResult(persona, err)
	return out, err
}

// TransformWith rewrites text with override standing in for the current
// profile for this call only.
func (s *Session) TransformWith(ctx context.Context, credential, text, persona string, override memory.UserProfile) (string, error) {
	rw, err := s.rewriter(credential)
	if err != nil {
		return "", err
	}
	out, err := rw.RewriteWithProfile(ctx, text, persona, override)
	s.logResult(persona, err)
	return out, err
}

func (s *Session) rewriter(credential string) (*rewriter.Rewriter, error) {
	p, ok := s.Profile()
	if !ok {
		return nil, apperr.Newf(apperr.Validation, "no profile yet: analyze a transcript first")
	}
	return rewriter.New(p, credential, s.opts...)
}

func (s *Session) logResult(persona string, err error) {
	if err != nil {
		s.logger.Warn("rewrite failed", "persona", persona, "kind", apperr.KindOf(err))
		return
	}
	s.logger.Info("reply rewritten", "persona", persona)
}
