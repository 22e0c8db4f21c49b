package memory

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// NoneProvided is rendered in place of an empty profile section.
const NoneProvided = "None provided"

// UserProfile is the structured memory extracted from a transcript.
type UserProfile struct {
	Facts             []string `json:"facts" jsonschema_description:"Concrete factual statements about the user (name, location, occupation, relationships). Each item is a standalone statement."`
	Preferences       []string `json:"preferences" jsonschema_description:"Likes, dislikes and choices the user expressed. Each item is a standalone statement."`
	EmotionalPatterns []string `json:"emotional_patterns" jsonschema_description:"Emotional, behavioral and communication-style patterns. Each item is a standalone statement."`
}

// Normalize returns p with every nil section replaced by an empty slice.
func Normalize(p UserProfile) UserProfile {
	if p.Facts == nil {
		p.Facts = []string{}
	}
	if p.Preferences == nil {
		p.Preferences = []string{}
	}
	if p.EmotionalPatterns == nil {
		p.EmotionalPatterns = []string{}
	}
	return p
}

// Clone returns a deep copy of p, normalized.
func (p UserProfile) Clone() UserProfile {
	return Normalize(UserProfile{
		Facts:             slices.Clone(p.Facts),
		Preferences:       slices.Clone(p.Preferences),
		EmotionalPatterns: slices.Clone(p.EmotionalPatterns),
	})
}

// Equal reports whether both profiles hold the same items in the same order.
// nil and empty sections compare equal.
func (p UserProfile) Equal(o UserProfile) bool {
	return slices.Equal(p.Facts, o.Facts) &&
		slices.Equal(p.Preferences, o.Preferences) &&
		slices.Equal(p.EmotionalPatterns, o.EmotionalPatterns)
}

// IsEmpty reports whether all three sections are empty.
func (p UserProfile) IsEmpty() bool {
	return len(p.Facts) == 0 && len(p.Preferences) == 0 && len(p.EmotionalPatterns) == 0
}

// MarshalJSON always emits all three keys as arrays.
func (p UserProfile) MarshalJSON() ([]byte, error) {
	type plain UserProfile
	return json.Marshal(plain(Normalize(p)))
}

// DecodeProfile parses an externally supplied profile. Missing or null keys
// become empty sections; any other shape mismatch is an error.
func DecodeProfile(b []byte) (UserProfile, error) {
	var p UserProfile
	if err := json.Unmarshal(b, &p); err != nil {
		return UserProfile{}, fmt.Errorf("decode profile: %w", err)
	}
	return Normalize(p), nil
}

// RenderSection formats items as "- item" lines, or NoneProvided when empty.
func RenderSection(items []string) string {
	if len(items) == 0 {
		return NoneProvided
	}
	return strings.Join(lo.Map(items, func(s string, _ int) string {
		return "- " + s
	}), "\n")
}
