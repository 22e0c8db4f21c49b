// Package llmtest fakes the Anthropic HTTP API for tests.
package llmtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go/option"
)

// Responder builds the response for a captured request body.
type Responder func(body []byte) (status int, respBody []byte)

// FakeTransport is an http.RoundTripper that records every request.
type FakeTransport struct {
	mu      sync.Mutex
	respond Responder
	bodies  [][]byte
}

func NewFakeTransport(respond Responder) *FakeTransport {
	return &FakeTransport{respond: respond}
}

func (f *FakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var b []byte
	if req.Body != nil {
		b, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}
	f.mu.Lock()
	f.bodies = append(f.bodies, b)
	f.mu.Unlock()

	type result struct {
		status int
		body   []byte
	}
	ch := make(chan result, 1)
	go func() {
		status, body := f.respond(b)
		ch <- result{status, body}
	}()
	var status int
	var respBody []byte
	select {
	case <-req.Context().Done():
		return nil, req.Context().Err()
	case r := <-ch:
		status, respBody = r.status, r.body
	}

	resp := &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(respBody)),
		Header:     make(http.Header),
		Request:    req,
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

// Calls returns how many requests reached the transport.
func (f *FakeTransport) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bodies)
}

// LastBody returns the most recent request body, or nil.
func (f *FakeTransport) LastBody() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.bodies) == 0 {
		return nil
	}
	return f.bodies[len(f.bodies)-1]
}

// Options routes a client through f. Retries are disabled so one call is one round trip.
func (f *FakeTransport) Options() []option.RequestOption {
	return []option.RequestOption{
		option.WithHTTPClient(&http.Client{Transport: f}),
		option.WithMaxRetries(0),
	}
}

// Static always answers with status and body.
func Static(status int, body string) Responder {
	return func([]byte) (int, []byte) { return status, []byte(body) }
}

// TextMessage is a minimal assistant message holding one text block.
func TextMessage(text string) string {
	b, _ := json.Marshal(map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-test",
		"stop_reason": "end_turn",
		"content":     []map[string]any{{"type": "text", "text": text}},
	})
	return string(b)
}

// ToolUseMessage is a minimal assistant message holding one tool_use block.
func ToolUseMessage(name, inputJSON string) string {
	return fmt.Sprintf(`{"id":"msg_test","type":"message","role":"assistant","model":"claude-test","stop_reason":"tool_use","content":[{"type":"tool_use","id":"toolu_1","name":%q,"input":%s}]}`, name, inputJSON)
}

// ErrorBody is an Anthropic-style error payload.
const ErrorBody = `{"type":"error","error":{"type":"api_error","message":"upstream failure"}}`

// RequestBody is the subset of a Messages request the tests inspect.
type RequestBody struct {
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature"`
	System      []struct {
		Text string `json:"text"`
	} `json:"system"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"messages"`
	Tools []struct {
		Name string `json:"name"`
	} `json:"tools"`
	ToolChoice *struct {
		Type string `json:"type"`
		Name string `json:"name"`
	} `json:"tool_choice"`
}

// SystemText joins all system blocks.
func (r RequestBody) SystemText() string {
	var parts []string
	for _, s := range r.System {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, "\n")
}

// UserText joins the text of all user messages.
func (r RequestBody) UserText() string {
	var parts []string
	for _, m := range r.Messages {
		if m.Role != "user" {
			continue
		}
		for _, c := range m.Content {
			parts = append(parts, c.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// DecodeRequest parses a captured request body.
func DecodeRequest(body []byte) (RequestBody, error) {
	var rb RequestBody
	err := json.Unmarshal(body, &rb)
	return rb, err
}

// Echo answers every request with a text block holding the system
// instruction followed by the user payload.
func Echo() Responder {
	return func(body []byte) (int, []byte) {
		rb, err := DecodeRequest(body)
		if err != nil {
			return http.StatusBadRequest, []byte(ErrorBody)
		}
		return http.StatusOK, []byte(TextMessage(rb.SystemText() + "\n\n" + rb.UserText()))
	}
}
