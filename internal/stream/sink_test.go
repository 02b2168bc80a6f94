package stream

import (
	"bytes"
	"context"
	"testing"

	"github.com/flemzord/rtmtail/internal/event"
)

func TestJSONSink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		pretty bool
		ev     event.Event
		want   string
	}{
		{
			name: "compact keeps markup characters",
			ev:   event.Event{"text": "a < b & c > d", "type": "message"},
			want: "{\"text\":\"a < b & c > d\",\"type\":\"message\"}\n",
		},
		{
			name:   "pretty",
			pretty: true,
			ev:     event.Event{"type": "hello"},
			want:   "{\n  \"type\": \"hello\"\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			s := NewJSONSink(&buf, tt.pretty)
			if err := s.Write(context.Background(), tt.ev); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
			if err := s.Close(); err != nil {
				t.Errorf("Close: %v", err)
			}
		})
	}
}
