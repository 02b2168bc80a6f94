package rtm

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/coder/websocket"
)

// WebsocketSource yields the text frames of a real-time stream.
type WebsocketSource struct {
	conn   *websocket.Conn
	closed atomic.Bool
}

// defaultReadLimit applies when the caller passes no frame size cap.
const defaultReadLimit int64 = 64 << 20

// DialWebsocket connects to a stream URL. readLimit caps the size of a
// single frame; zero or less selects a 64 MiB cap.
func DialWebsocket(ctx context.Context, streamURL string, readLimit int64) (*WebsocketSource, error) {
	conn, _, err := websocket.Dial(ctx, streamURL, nil)
	if err != nil {
		return nil, fmt.Errorf("rtm: dial stream: %w", err)
	}
	if readLimit <= 0 {
		readLimit = defaultReadLimit
	}
	conn.SetReadLimit(readLimit)
	return &WebsocketSource{conn: conn}, nil
}

// Next blocks until the next text frame arrives. Binary frames are skipped.
// A normal closure from the server ends the stream with io.EOF.
func (s *WebsocketSource) Next(ctx context.Context) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrSourceClosed
	}
	for {
		typ, data, err := s.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("rtm: read stream: %w", err)
		}
		if typ != websocket.MessageText {
			continue
		}
		return data, nil
	}
}

// Close closes the connection with a normal closure status.
func (s *WebsocketSource) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.conn.Close(websocket.StatusNormalClosure, "")
}

// maxLineBytes bounds a single recorded frame.
const maxLineBytes = 16 << 20

// ReaderSource yields one frame per non-blank line of r, typically a
// recording of a previous stream.
type ReaderSource struct {
	scanner *bufio.Scanner
	closer  io.Closer
}

// NewReaderSource wraps r. When r is also an io.Closer it is closed by Close.
func NewReaderSource(r io.Reader) *ReaderSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	src := &ReaderSource{scanner: sc}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}
	return src
}

// Next returns the next non-blank line, or io.EOF at the end of input.
func (s *ReaderSource) Next(ctx context.Context) ([]byte, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, fmt.Errorf("rtm: read recording: %w", err)
			}
			return nil, io.EOF
		}
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		return bytes.Clone(line), nil
	}
}

// Close closes the underlying reader if it is closable.
func (s *ReaderSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
