package runner_test

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/petasbytes/persona-engine/internal/llmtest"
	"github.com/petasbytes/persona-engine/internal/provider"
	"github.com/petasbytes/persona-engine/internal/runner"
	"github.com/petasbytes/persona-engine/internal/telemetry"
	"github.com/petasbytes/persona-engine/tools"
)

func newRunner(t *testing.T, fake *llmtest.FakeTransport) *runner.Runner {
	t.Helper()
	cli, err := provider.NewAnthropicClient("test-key", fake.Options()...)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return runner.New(cli, "", 0)
}

func TestNew_Defaults(t *testing.T) {
	r := runner.New(nil, "", 0)
	if r.Model != provider.DefaultModel {
		t.Errorf("model = %q, want default", r.Model)
	}
	if r.Timeout != runner.DefaultTimeout {
		t.Errorf("timeout = %v, want %v", r.Timeout, runner.DefaultTimeout)
	}
}

func TestCall_SendsSystemPayloadAndTemperature(t *testing.T) {
	fake := llmtest.NewFakeTransport(llmtest.Static(http.StatusOK, llmtest.TextMessage("hi")))
	r := newRunner(t, fake)

	msg, err := r.Call(context.Background(), runner.Request{
		Operation:   "rewrite",
		System:      "be nice",
		Payload:     "hello",
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := runner.TextOf(msg); got != "hi" {
		t.Fatalf("TextOf = %q", got)
	}
	if fake.Calls() != 1 {
		t.Fatalf("expected exactly 1 HTTP call, got %d", fake.Calls())
	}

	rb, err := llmtest.DecodeRequest(fake.LastBody())
	if err != nil {
		t.Fatalf("unmarshal body: %v\nbody=%s", err, fake.LastBody())
	}
	if rb.SystemText() != "be nice" {
		t.Errorf("system = %q", rb.SystemText())
	}
	if len(rb.Messages) != 1 || rb.Messages[0].Role != "user" || rb.UserText() != "hello" {
		t.Errorf("unexpected messages: %+v", rb.Messages)
	}
	if rb.Temperature == nil || *rb.Temperature != 0.7 {
		t.Errorf("temperature = %v", rb.Temperature)
	}
	if len(rb.Tools) != 0 || rb.ToolChoice != nil {
		t.Errorf("no tools expected for plain call: %+v %+v", rb.Tools, rb.ToolChoice)
	}
}

func TestCall_ForcesTool(t *testing.T) {
	input := `{"facts":[],"preferences":[],"emotional_patterns":[]}`
	fake := llmtest.NewFakeTransport(llmtest.Static(http.StatusOK, llmtest.ToolUseMessage("record_user_profile", input)))
	r := newRunner(t, fake)

	msg, err := r.Call(context.Background(), runner.Request{
		Operation: "extract",
		System:    "extract",
		Payload:   "User: hi",
		Tool:      &tools.RecordProfileDefinition,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	rb, _ := llmtest.DecodeRequest(fake.LastBody())
	if len(rb.Tools) != 1 || rb.Tools[0].Name != "record_user_profile" {
		t.Fatalf("unexpected tools: %+v", rb.Tools)
	}
	if rb.ToolChoice == nil || rb.ToolChoice.Type != "tool" || rb.ToolChoice.Name != "record_user_profile" {
		t.Fatalf("unexpected tool_choice: %+v", rb.ToolChoice)
	}

	raw, ok := runner.ToolInput(msg, "record_user_profile")
	if !ok {
		t.Fatal("tool input not found")
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil || len(got) != 3 {
		t.Fatalf("unexpected tool input %s: %v", raw, err)
	}
	if _, ok := runner.ToolInput(msg, "other_tool"); ok {
		t.Fatal("ToolInput matched wrong tool name")
	}
}

func TestCall_RemoteError(t *testing.T) {
	fake := llmtest.NewFakeTransport(llmtest.Static(http.StatusInternalServerError, llmtest.ErrorBody))
	r := newRunner(t, fake)

	_, err := r.Call(context.Background(), runner.Request{Operation: "rewrite", System: "s", Payload: "p"})
	if err == nil {
		t.Fatal("expected error from 500 response")
	}
	if fake.Calls() != 1 {
		t.Fatalf("expected no retries, got %d calls", fake.Calls())
	}
}

func TestCall_Timeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	fake := llmtest.NewFakeTransport(func([]byte) (int, []byte) {
		<-block
		return http.StatusOK, []byte(llmtest.TextMessage("late"))
	})
	cli, _ := provider.NewAnthropicClient("test-key", fake.Options()...)
	r := runner.New(cli, "", 20*time.Millisecond)

	done := make(chan error, 1)
	go func() {
		_, err := r.Call(context.Background(), runner.Request{Operation: "rewrite", System: "s", Payload: "p"})
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected timeout error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Call did not honor its timeout")
	}
}

func TestTextOf_JoinsBlocksAndHandlesNil(t *testing.T) {
	if runner.TextOf(nil) != "" {
		t.Fatal("nil message should yield empty text")
	}
	var msg anthropic.Message
	body := `{"id":"m","type":"message","role":"assistant","model":"x","content":[{"type":"text","text":"a"},{"type":"text","text":"b"}]}`
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		t.Fatalf("prep: %v", err)
	}
	if got := runner.TextOf(&msg); got != "a\nb" {
		t.Fatalf("TextOf = %q", got)
	}
}

func TestCall_EmitsModelCallEvent_NoPayloadLeak(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PERSONA_OBSERVE_JSON", "1")
	t.Setenv("PERSONA_EVENTS_DIR", dir)

	secret := "__SECRET_NEVER_APPEAR__"
	fake := llmtest.NewFakeTransport(llmtest.Static(http.StatusOK, llmtest.TextMessage(secret)))
	r := newRunner(t, fake)

	ctx := telemetry.WithCallID(context.Background(), "call-xyz")
	if _, err := r.Call(ctx, runner.Request{Operation: "rewrite", System: secret, Payload: secret}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "events.jsonl"))
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	if strings.Contains(string(data), secret) {
		t.Fatalf("raw payload leaked into telemetry: %s", data)
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &ev); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if ev["event"] != "model_call" || ev["call_id"] != "call-xyz" || ev["operation"] != "rewrite" {
		t.Fatalf("unexpected event: %#v", ev)
	}
	if v, ok := ev["duration_ms"].(float64); !ok || v < 0 {
		t.Errorf("duration_ms should be >= 0, got %v", ev["duration_ms"])
	}
	if _, ok := ev["error"]; !ok || ev["error"] != nil {
		t.Errorf("error should be present and null on success, got %v", ev["error"])
	}
}
