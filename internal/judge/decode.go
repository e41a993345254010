package judge

import (
	"encoding/json"
	"strings"
)

// Decoded is the tagged result of extracting a structured payload from
// free-text judgment output: either Parsed (Malformed == false, Payload
// valid) or Malformed (Payload is the zero value, Raw holds the original
// text). Call sites must branch on Malformed; there is no error to ignore.
type Decoded[T any] struct {
	// Payload is the decoded value. Only meaningful when !Malformed.
	Payload T

	// Malformed reports that the output could not be decoded into T.
	Malformed bool

	// Raw is the original model output, kept for logging.
	Raw string
}

// Decode extracts a T from raw judgment output, tolerating a fenced code
// block wrapper around the JSON. Any decode failure yields the Malformed
// variant; Decode never returns an error because a malformed judgment is
// an expected outcome, not an exceptional one.
func Decode[T any](raw string) Decoded[T] {
	cleaned := StripFence(raw)

	var payload T
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return Decoded[T]{Malformed: true, Raw: raw}
	}

	return Decoded[T]{Payload: payload, Raw: raw}
}

// StripFence removes a surrounding markdown code fence, if present.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
