package runner

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/petasbytes/persona-engine/internal/provider"
	"github.com/petasbytes/persona-engine/internal/telemetry"
	"github.com/petasbytes/persona-engine/tools"
)

// DefaultTimeout bounds a single model call when none is configured.
const DefaultTimeout = 60 * time.Second

type Runner struct {
	Client  *anthropic.Client
	Model   anthropic.Model
	Timeout time.Duration
}

// Request describes one model call.
type Request struct {
	// Operation labels the call in telemetry ("extract", "rewrite").
	Operation   string
	System      string
	Payload     string
	Temperature float64
	// Tool, when set, is offered as the only tool and forced.
	Tool *tools.ToolDefinition
}

func New(client *anthropic.Client, model anthropic.Model, timeout time.Duration) *Runner {
	if model == "" {
		model = provider.DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{Client: client, Model: model, Timeout: timeout}
}

func (r *Runner) params(req Request) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:       r.Model,
		MaxTokens:   provider.DefaultMaxTokens,
		Temperature: anthropic.Float(req.Temperature),
		System:      []anthropic.TextBlockParam{{Text: req.System}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Payload)),
		},
	}
	if req.Tool != nil {
		params.Tools = []anthropic.ToolUnionParam{req.Tool.Param()}
		params.ToolChoice = req.Tool.ForcedChoice()
	}
	return params
}

// Call sends req and returns the model's message.
func (r *Runner) Call(ctx context.Context, req Request) (*anthropic.Message, error) {
	ctx, callID := telemetry.EnsureCallID(ctx)
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	start := time.Now()
	msg, err := r.Client.Messages.New(ctx, r.params(req))

	fields := map[string]any{
		"call_id":     callID,
		"operation":   req.Operation,
		"model":       string(r.Model),
		"duration_ms": time.Since(start).Milliseconds(),
		"error":       nil,
	}
	if err != nil {
		// Generic marker only; provider error bodies may echo request content.
		fields["error"] = "remote error"
		if ctx.Err() != nil {
			fields["error"] = "timeout or canceled"
		}
	} else {
		fields["stop_reason"] = string(msg.StopReason)
	}
	telemetry.Emit("model_call", fields)

	if err != nil {
		return nil, err
	}
	return msg, nil
}

// TextOf joins the message's text blocks with newlines.
func TextOf(msg *anthropic.Message) string {
	if msg == nil {
		return ""
	}
	var parts []string
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok && tb.Text != "" {
			parts = append(parts, tb.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// ToolInput returns the raw input of the first tool_use block named name.
func ToolInput(msg *anthropic.Message, name string) (json.RawMessage, bool) {
	if msg == nil {
		return nil, false
	}
	for _, block := range msg.Content {
		if v, ok := block.AsAny().(anthropic.ToolUseBlock); ok && v.Name == name {
			return json.RawMessage(v.JSON.Input.Raw()), true
		}
	}
	return nil, false
}
