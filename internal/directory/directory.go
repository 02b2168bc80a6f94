package directory

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Snapshot is the startup view of a workspace. The field names follow the
// rtm.start response; any of the sequences may be missing.
type Snapshot struct {
	Users    Entities `json:"users,omitempty"`
	Channels Entities `json:"channels,omitempty"`
	Groups   Entities `json:"groups,omitempty"`
	MPIMs    Entities `json:"mpims,omitempty"`
	IMs      Entities `json:"ims,omitempty"`
}

// Entities is one snapshot sequence. Decoding is lenient: elements that
// are not JSON objects are dropped, and a value that is not an array is
// treated as a missing sequence. Numbers inside entities keep their exact
// text as json.Number.
type Entities []Entity

// UnmarshalJSON implements json.Unmarshaler.
func (s *Entities) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			*s = nil
			return nil
		}
		return err
	}
	if items == nil {
		*s = nil
		return nil
	}
	out := make(Entities, 0, len(items))
	for _, item := range items {
		if ent, ok := decodeEntity(item); ok {
			out = append(out, ent)
		}
	}
	*s = out
	return nil
}

func decodeEntity(raw []byte) (Entity, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var ent Entity
	if err := dec.Decode(&ent); err != nil {
		return nil, false
	}
	return ent, true
}

// Directory maps identifiers to entities. It is built once and is safe for
// concurrent reads afterwards.
type Directory struct {
	entries map[string]Entity
}

// Build merges the snapshot sequences in the order users, channels, groups,
// mpims, ims. An id seen twice keeps the entity from the later sequence.
// Entities without a string "id" are skipped.
func Build(snap Snapshot) *Directory {
	size := len(snap.Users) + len(snap.Channels) + len(snap.Groups) + len(snap.MPIMs) + len(snap.IMs)
	d := &Directory{entries: make(map[string]Entity, size)}

	for _, seq := range [][]Entity{snap.Users, snap.Channels, snap.Groups, snap.MPIMs, snap.IMs} {
		for _, ent := range seq {
			id, ok := ent.ID()
			if !ok {
				continue
			}
			d.entries[id] = ent
		}
	}
	return d
}

// Lookup returns the entity registered under id.
func (d *Directory) Lookup(id string) (Entity, bool) {
	if d == nil {
		return nil, false
	}
	ent, ok := d.entries[id]
	return ent, ok
}

// Len returns the number of distinct identifiers in the directory.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}
