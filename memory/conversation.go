package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Message is a single chat turn of a transcript.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text,omitempty"`
}

// ErrEmptyConversation is returned for a conversation file that holds no messages.
var ErrEmptyConversation = errors.New("conversation has no messages")

// LoadConversation reads a JSON array of messages. A missing file yields nil, nil.
func LoadConversation(path string) ([]Message, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return decodeConversation(b)
}

func decodeConversation(b []byte) ([]Message, error) {
	var msgs []Message
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// LoadTranscript returns the transcript text stored at path.
// Files ending in .json are read as a message array and flattened with
// FormatTranscript; anything else is returned verbatim. A .json file that
// decodes to no messages (null or []) yields ErrEmptyConversation.
func LoadTranscript(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load transcript %s: %w", path, err)
	}
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return string(b), nil
	}
	msgs, err := decodeConversation(b)
	if err != nil {
		return "", fmt.Errorf("load transcript %s: %w", path, err)
	}
	if len(msgs) == 0 {
		return "", fmt.Errorf("load transcript %s: %w", path, ErrEmptyConversation)
	}
	return FormatTranscript(msgs), nil
}

// FormatTranscript flattens messages into "User: ..." / "AI: ..." lines.
// Turns with blank text are skipped.
func FormatTranscript(msgs []Message) string {
	var sb strings.Builder
	for _, m := range msgs {
		text := strings.TrimSpace(m.Text)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(speaker(m.Role))
		sb.WriteString(": ")
		sb.WriteString(text)
	}
	return sb.String()
}

func speaker(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "user", "human":
		return "User"
	case "assistant", "ai", "model":
		return "AI"
	default:
		return role
	}
}
