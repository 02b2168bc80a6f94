package event

import "github.com/flemzord/rtmtail/internal/format"

// Inflate replaces record[field] with a copy of the directory entity it
// names. The record is left untouched when the field is missing, is not a
// string, or names an unknown id. It reports whether a replacement happened.
//
// A second call on the same field is a no-op since the value is no longer a
// string.
func Inflate(record Event, field string, dir format.Lookuper) bool {
	if record == nil || dir == nil {
		return false
	}
	id, ok := record[field].(string)
	if !ok {
		return false
	}
	ent, ok := dir.Lookup(id)
	if !ok {
		return false
	}
	record[field] = map[string]any(ent.Clone())
	return true
}
