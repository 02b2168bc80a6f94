package rtm

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestParseSnapshot_AcceptsComments(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		// captured from a test workspace
		"url": "wss://x.test",
		"users": [
			{"id": "U1", "name": "alice"},
		],
		/* channels follow */
		"channels": [{"id": "C1", "name": "general"}],
	}`)

	sess, err := ParseSnapshot(data)
	if err != nil {
		t.Fatalf("ParseSnapshot: %v", err)
	}
	if sess.URL != "wss://x.test" {
		t.Errorf("URL = %q", sess.URL)
	}
	if len(sess.Snapshot.Users) != 1 || len(sess.Snapshot.Channels) != 1 {
		t.Errorf("snapshot = %+v", sess.Snapshot)
	}
}

func TestParseSnapshot_SkipsNonObjectEntries(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		"url": "wss://x.test",
		"users": ["junk", {"id": "U1", "name": "alice"}, 12],
		"groups": [{"id": "G1", "name": "secret"}, false],
	}`)

	sess, err := ParseSnapshot(data)
	if err != nil {
		t.Fatalf("ParseSnapshot: %v", err)
	}
	if len(sess.Snapshot.Users) != 1 || len(sess.Snapshot.Groups) != 1 {
		t.Fatalf("snapshot = %+v", sess.Snapshot)
	}
	if name, _ := sess.Snapshot.Users[0].Name(); name != "alice" {
		t.Errorf("user name = %q", name)
	}
}

func TestParseSnapshot_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := ParseSnapshot([]byte(`{"users": [`)); err == nil {
		t.Error("expected error for truncated snapshot")
	}
}

func TestFileProvider(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(`{"mpims":[{"id":"M1","name":"mpdm-a--b"}]}`), 0o600); err != nil {
		t.Fatal(err)
	}

	p := &FileProvider{Path: path}
	sess, err := p.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if sess.URL != "" {
		t.Errorf("URL = %q, want empty", sess.URL)
	}
	if len(sess.Snapshot.MPIMs) != 1 {
		t.Errorf("mpims = %+v", sess.Snapshot.MPIMs)
	}
}

func TestFileProvider_Missing(t *testing.T) {
	t.Parallel()

	p := &FileProvider{Path: filepath.Join(t.TempDir(), "nope.json")}
	if _, err := p.Snapshot(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}
