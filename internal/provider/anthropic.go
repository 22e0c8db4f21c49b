// Package provider builds the Anthropic client used by both engines.
package provider

import (
	"strings"
	"unicode"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/petasbytes/persona-engine/internal/apperr"
)

const DefaultModel = anthropic.ModelClaude3_7SonnetLatest

// DefaultMaxTokens bounds every reply.
const DefaultMaxTokens int64 = 1024

// Decoding temperatures. Extraction should converge across repeated calls;
// rewriting wants lexical variety.
const (
	ExtractionTemperature = 0.1
	RewriteTemperature    = 0.7
)

// ValidateCredential trims credential and rejects an empty result.
func ValidateCredential(credential string) (string, error) {
	c := strings.TrimSpace(credential)
	if c == "" {
		return "", apperr.Newf(apperr.Validation, "credential must not be empty")
	}
	return c, nil
}

// NewAnthropicClient returns a client authenticated with credential.
// credential must already be trimmed. Extra request options are appended
// after the API key, so tests can swap the HTTP transport.
func NewAnthropicClient(credential string, opts ...option.RequestOption) (*anthropic.Client, error) {
	if strings.IndexFunc(credential, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) >= 0 {
		return nil, apperr.Newf(apperr.Initialization, "malformed credential: contains whitespace or control characters")
	}
	all := append([]option.RequestOption{option.WithAPIKey(credential)}, opts...)
	c := anthropic.NewClient(all...)
	return &c, nil
}
