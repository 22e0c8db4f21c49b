package tools_test

import (
	"encoding/json"
	"testing"

	"github.com/petasbytes/persona-engine/tools"
)

func TestRecordProfileSchema_HasAllSections(t *testing.T) {
	b, err := json.Marshal(tools.RecordProfileInputSchema)
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}
	var s struct {
		Type       string                     `json:"type"`
		Properties map[string]json.RawMessage `json:"properties"`
		Required   []string                   `json:"required"`
	}
	if err := json.Unmarshal(b, &s); err != nil {
		t.Fatalf("unmarshal schema: %v\n%s", err, b)
	}
	if s.Type != "object" {
		t.Fatalf("schema type = %q, want object", s.Type)
	}
	for _, k := range []string{"facts", "preferences", "emotional_patterns"} {
		if _, ok := s.Properties[k]; !ok {
			t.Errorf("missing property %q in %s", k, b)
		}
	}
	if len(s.Required) != 3 {
		t.Errorf("expected 3 required keys, got %v", s.Required)
	}
}

func TestDecodeProfileInput_OK(t *testing.T) {
	p, err := tools.DecodeProfileInput(json.RawMessage(`{"facts":["Name is Sam","Lives in Denver"],"preferences":["Loves hiking"],"emotional_patterns":[]}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(p.Facts) != 2 || p.Preferences[0] != "Loves hiking" {
		t.Fatalf("unexpected profile: %#v", p)
	}
	if p.EmotionalPatterns == nil || len(p.EmotionalPatterns) != 0 {
		t.Fatalf("emotional_patterns should be empty non-nil: %#v", p.EmotionalPatterns)
	}
}

func TestDecodeProfileInput_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing_key":  `{"facts":[],"preferences":[]}`,
		"null_section": `{"facts":null,"preferences":[],"emotional_patterns":[]}`,
		"wrong_type":   `{"facts":"Sam","preferences":[],"emotional_patterns":[]}`,
		"non_string":   `{"facts":[1],"preferences":[],"emotional_patterns":[]}`,
		"not_object":   `[]`,
		"null_item":    `{"facts":[null,"x"],"preferences":[],"emotional_patterns":[]}`,
		"null_pref":    `{"facts":[],"preferences":["a",null],"emotional_patterns":[]}`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := tools.DecodeProfileInput(json.RawMessage(in)); err == nil {
				t.Fatalf("expected error for %s", in)
			}
		})
	}
}

func TestForcedChoice_NamesTool(t *testing.T) {
	c := tools.RecordProfileDefinition.ForcedChoice()
	if c.OfTool == nil || c.OfTool.Name != "record_user_profile" {
		t.Fatalf("unexpected tool choice: %+v", c)
	}
}
