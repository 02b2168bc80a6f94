package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/flemzord/rtmtail/internal/event"
)

// JSONSink writes one JSON object per event. HTML escaping is off so
// rendered text keeps its literal "<", ">" and "&".
type JSONSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

var _ Sink = (*JSONSink)(nil)

// NewJSONSink writes to w, indenting each object when pretty is set.
func NewJSONSink(w io.Writer, pretty bool) *JSONSink {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &JSONSink{enc: enc}
}

// Write encodes ev followed by a newline.
func (s *JSONSink) Write(_ context.Context, ev event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(ev); err != nil {
		return fmt.Errorf("stream: encode event: %w", err)
	}
	return nil
}

// Close is a no-op; the writer belongs to the caller.
func (s *JSONSink) Close() error { return nil }
