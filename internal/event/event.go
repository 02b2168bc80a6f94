// Package event decodes raw stream frames and rewrites them for output:
// message text is rendered and identifier fields can be inflated to the
// full directory entity.
package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Event is one decoded stream frame. Values are whatever encoding/json
// produces for an arbitrary object, except that numbers are json.Number
// so ids and timestamps wider than a float64 survive re-encoding.
type Event map[string]any

// Decode parses raw as a JSON object. Arrays, scalars and null are rejected,
// as is anything trailing the object.
func Decode(raw []byte) (Event, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, ErrNotObject
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var ev Event
	if err := dec.Decode(&ev); err != nil {
		return nil, fmt.Errorf("event: decode: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("event: decode: unexpected data after object")
	}
	return ev, nil
}

// Type returns the "type" field, or "" when absent.
func (e Event) Type() string {
	s, _ := e.String("type")
	return s
}

// Text returns the "text" field when it is present and a string.
func (e Event) Text() (string, bool) {
	return e.String("text")
}

// String returns field as a string when it is present and a string.
func (e Event) String(field string) (string, bool) {
	s, ok := e[field].(string)
	return s, ok
}

// ID returns the identifier stored in field. An inflated field yields the
// nested entity's "id".
func (e Event) ID(field string) string {
	switch v := e[field].(type) {
	case string:
		return v
	case map[string]any:
		s, _ := v["id"].(string)
		return s
	default:
		return ""
	}
}
