package tools

import (
	"encoding/json"
	"fmt"

	"github.com/petasbytes/persona-engine/memory"
)

var RecordProfileDefinition = ToolDefinition{
	Name:        "record_user_profile",
	Description: "Record the structured profile extracted from the conversation. Every field is required; use an empty array when nothing applies.",
	InputSchema: RecordProfileInputSchema,
}

var RecordProfileInputSchema = GenerateSchema[memory.UserProfile]()

// DecodeProfileInput parses the record_user_profile input strictly: all three
// keys must be present and hold arrays of strings. null sections and null
// items are rejected.
func DecodeProfileInput(raw json.RawMessage) (memory.UserProfile, error) {
	var in struct {
		Facts             *[]*string `json:"facts"`
		Preferences       *[]*string `json:"preferences"`
		EmotionalPatterns *[]*string `json:"emotional_patterns"`
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return memory.UserProfile{}, fmt.Errorf("decode %s input: %w", RecordProfileDefinition.Name, err)
	}

	var p memory.UserProfile
	for _, f := range []struct {
		name string
		in   *[]*string
		out  *[]string
	}{
		{"facts", in.Facts, &p.Facts},
		{"preferences", in.Preferences, &p.Preferences},
		{"emotional_patterns", in.EmotionalPatterns, &p.EmotionalPatterns},
	} {
		items, err := stringItems(f.name, f.in)
		if err != nil {
			return memory.UserProfile{}, fmt.Errorf("decode %s input: %w", RecordProfileDefinition.Name, err)
		}
		*f.out = items
	}
	return memory.Normalize(p), nil
}

func stringItems(name string, in *[]*string) ([]string, error) {
	if in == nil {
		return nil, fmt.Errorf("missing %q", name)
	}
	out := make([]string, 0, len(*in))
	for i, v := range *in {
		if v == nil {
			return nil, fmt.Errorf("%s[%d] is null", name, i)
		}
		out = append(out, *v)
	}
	return out, nil
}
