package memory_test

import (
	"encoding/json"
	"testing"

	"github.com/petasbytes/persona-engine/memory"
)

func TestProfile_MarshalEmitsEmptyArrays(t *testing.T) {
	b, err := json.Marshal(memory.UserProfile{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"facts":[],"preferences":[],"emotional_patterns":[]}`
	if string(b) != want {
		t.Fatalf("got %s want %s", b, want)
	}
}

func TestDecodeProfile_MissingAndNullKeysBecomeEmpty(t *testing.T) {
	p, err := memory.DecodeProfile([]byte(`{"facts":["Name is Sam"],"preferences":null}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(p.Facts) != 1 || p.Facts[0] != "Name is Sam" {
		t.Fatalf("facts not preserved: %#v", p.Facts)
	}
	if p.Preferences == nil || p.EmotionalPatterns == nil {
		t.Fatalf("sections must be non-nil: %#v", p)
	}
}

func TestDecodeProfile_WrongShape_ReturnsError(t *testing.T) {
	if _, err := memory.DecodeProfile([]byte(`{"facts":"Sam"}`)); err == nil {
		t.Fatal("expected error for non-array section")
	}
}

func TestProfile_CloneIsIndependent(t *testing.T) {
	orig := memory.UserProfile{Facts: []string{"Lives in Denver"}}
	c := orig.Clone()
	c.Facts[0] = "changed"
	if orig.Facts[0] != "Lives in Denver" {
		t.Fatalf("clone shares backing array with original")
	}
	if c.Preferences == nil || c.EmotionalPatterns == nil {
		t.Fatalf("clone must be normalized: %#v", c)
	}
}

func TestProfile_EqualTreatsNilAsEmpty(t *testing.T) {
	a := memory.UserProfile{}
	b := memory.Normalize(memory.UserProfile{})
	if !a.Equal(b) {
		t.Fatal("nil and empty sections should compare equal")
	}
	if a.Equal(memory.UserProfile{Preferences: []string{"Loves hiking"}}) {
		t.Fatal("different profiles compared equal")
	}
}

func TestRenderSection(t *testing.T) {
	if got := memory.RenderSection(nil); got != memory.NoneProvided {
		t.Fatalf("empty section: got %q", got)
	}
	got := memory.RenderSection([]string{"Name is Sam", "Lives in Denver"})
	if got != "- Name is Sam\n- Lives in Denver" {
		t.Fatalf("unexpected render: %q", got)
	}
}
