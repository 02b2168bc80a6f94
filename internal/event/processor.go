package event

import "github.com/flemzord/rtmtail/internal/format"

// DefaultInflateFields are the identifier fields inflated when a Processor
// has inflation enabled but no explicit field list.
var DefaultInflateFields = []string{"user", "channel"}

// Processor turns raw frames into output-ready events.
type Processor struct {
	// Directory resolves references and inflated fields.
	Directory format.Lookuper

	// Inflate enables identifier inflation on Fields.
	Inflate bool

	// Fields lists the fields to inflate. Nil means DefaultInflateFields.
	Fields []string
}

// Result describes what Process did to an event.
type Result struct {
	// Resolved counts the text fields that were rendered.
	Resolved int

	// Inflated counts the fields replaced by a directory entity.
	Inflated int
}

// Process decodes raw and applies Apply to it.
func (p *Processor) Process(raw []byte) (Event, Result, error) {
	ev, err := Decode(raw)
	if err != nil {
		return nil, Result{}, err
	}
	return ev, p.Apply(ev), nil
}

// Apply rewrites ev in place. The top-level "text" is rendered, as is the
// "text" of a nested "message" object (edits arrive as message_changed
// events carrying the new message). Inflation runs after rendering so it
// only ever sees the original identifier fields.
func (p *Processor) Apply(ev Event) Result {
	var res Result

	if resolveText(ev, p.Directory) {
		res.Resolved++
	}
	if nested, ok := ev["message"].(map[string]any); ok {
		if resolveText(nested, p.Directory) {
			res.Resolved++
		}
	}

	if p.Inflate {
		for _, field := range p.fields() {
			if Inflate(ev, field, p.Directory) {
				res.Inflated++
			}
		}
	}
	return res
}

func (p *Processor) fields() []string {
	if p.Fields == nil {
		return DefaultInflateFields
	}
	return p.Fields
}

func resolveText(m map[string]any, dir format.Lookuper) bool {
	text, ok := m["text"].(string)
	if !ok {
		return false
	}
	m["text"] = format.Resolve(text, dir)
	return true
}
