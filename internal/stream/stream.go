// Package stream drives the real-time pipeline: fetch the workspace
// snapshot, build the directory, then read frames from an event source,
// process them and hand the results to every sink.
package stream

import (
	"context"

	"github.com/flemzord/rtmtail/internal/event"
	"github.com/flemzord/rtmtail/internal/rtm"
)

// SnapshotProvider supplies the workspace snapshot and the stream URL.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*rtm.Session, error)
}

// Source yields raw frames. Next returns io.EOF when the stream ends
// normally.
type Source interface {
	Next(ctx context.Context) ([]byte, error)
	Close() error
}

// Sink receives processed events.
type Sink interface {
	Write(ctx context.Context, ev event.Event) error
	Close() error
}

// DialFunc opens the source for a session URL.
type DialFunc func(ctx context.Context, url string) (Source, error)
