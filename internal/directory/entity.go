// Package directory holds the identifier → entity lookup table built once
// from the startup snapshot of a workspace.
package directory

// Entity is a loosely typed record describing a user, channel or
// conversation, exactly as the snapshot provider delivered it.
// Entities are never mutated after they enter a Directory.
type Entity map[string]any

// ID returns the entity's "id" field when it is present and a string.
func (e Entity) ID() (string, bool) {
	return e.String("id")
}

// Name returns the entity's "name" field when it is present and a string.
func (e Entity) Name() (string, bool) {
	return e.String("name")
}

// String returns field as a string. The second result is false when the
// field is absent or holds a non-string value.
func (e Entity) String(field string) (string, bool) {
	v, ok := e[field]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Clone returns a deep copy of the entity. Nested objects and arrays are
// copied; scalar values are shared.
func (e Entity) Clone() Entity {
	if e == nil {
		return nil
	}
	return cloneMap(e)
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case Entity:
		return Entity(cloneMap(val))
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
