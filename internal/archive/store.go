package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flemzord/rtmtail/internal/event"
)

// Record is one archived event.
type Record struct {
	ID         string
	Type       string
	Channel    string
	User       string
	TS         string
	Text       string
	Raw        json.RawMessage
	ReceivedAt time.Time
}

// Store is an append-only event archive. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool

	// now is replaced in tests.
	now func() time.Time
}

// Write archives ev as it will be printed: references resolved and, when
// enabled, identifiers inflated. Channel and user columns keep the plain
// identifiers so the table stays queryable either way.
func (s *Store) Write(ctx context.Context, ev event.Event) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("archive: marshal event: %w", err)
	}

	ts, _ := ev.String("ts")
	text, _ := ev.Text()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (id, type, channel, user, ts, text, raw, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), ev.Type(), ev.ID("channel"), ev.ID("user"),
		ts, text, string(raw),
		s.timestamp().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("archive: insert event: %w", err)
	}
	return nil
}

// Recent returns up to n most recent records, oldest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Record, error) {
	if n <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, channel, user, ts, text, raw, received_at FROM (
			SELECT rowid AS seq, * FROM events ORDER BY rowid DESC LIMIT ?
		) ORDER BY seq ASC`, n)
	if err != nil {
		return nil, fmt.Errorf("archive: query recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var (
			rec      Record
			raw      string
			received string
		)
		if err := rows.Scan(&rec.ID, &rec.Type, &rec.Channel, &rec.User, &rec.TS, &rec.Text, &raw, &received); err != nil {
			return nil, fmt.Errorf("archive: scan event: %w", err)
		}
		rec.Raw = json.RawMessage(raw)
		t, err := time.Parse(time.RFC3339Nano, received)
		if err != nil {
			return nil, fmt.Errorf("archive: parse received_at %q: %w", received, err)
		}
		rec.ReceivedAt = t
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("archive: scan rows: %w", err)
	}
	return records, nil
}

// Count returns the number of archived events.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&n); err != nil {
		return 0, fmt.Errorf("archive: count events: %w", err)
	}
	return n, nil
}

// Close closes the database. Further calls are no-ops.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *Store) timestamp() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
