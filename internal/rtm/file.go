package rtm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// FileProvider reads a snapshot saved on disk in the rtm.start layout.
// Comments and trailing commas are accepted. The "url" field is optional;
// without it the session can only be used offline.
type FileProvider struct {
	Path string
}

// Snapshot implements the stream snapshot provider.
func (p *FileProvider) Snapshot(_ context.Context) (*Session, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("rtm: reading snapshot %s: %w", p.Path, err)
	}
	return ParseSnapshot(data)
}

// ParseSnapshot decodes a JSON (or JSONC) document in the rtm.start layout.
func ParseSnapshot(data []byte) (*Session, error) {
	var resp startResponse
	if err := json.Unmarshal(jsonc.ToJSON(data), &resp); err != nil {
		return nil, fmt.Errorf("rtm: parsing snapshot: %w", err)
	}
	return &Session{URL: resp.URL, Snapshot: resp.Snapshot}, nil
}
