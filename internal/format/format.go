// Package format renders Slack message markup into plain text.
//
// Two kinds of tokens are rewritten:
//
//   - the escapes &amp; &lt; &gt;, decoded to & < >
//   - bracketed references <sign?ref|title?>, where sign is one of # @ !
//
// References render as follows, first rule wins:
//
//	<@U1|alice>      title present          "@alice"   (sign kept, except "!")
//	<!subteam^S|x>   title with "!"         "x"
//	<@U1>, <#C1>     lookup by ref          "@name", or "@U1" when unknown
//	<!here>          special                "@here"
//	<https://x>      bare link              "https://x"
//
// Everything else, including malformed markup, is copied through unchanged.
package format

import (
	"strings"

	"github.com/flemzord/rtmtail/internal/directory"
)

// Lookuper resolves identifiers to entities. *directory.Directory
// satisfies it.
type Lookuper interface {
	Lookup(id string) (directory.Entity, bool)
}

// Resolve rewrites the markup in text using dir for @ and # references.
// It never fails; a nil dir leaves every reference unresolved.
func Resolve(text string, dir Lookuper) string {
	if !strings.ContainsAny(text, "&<") {
		return text
	}
	return Render(Tokenize(text), dir)
}

// Render concatenates the rendered form of each token.
func Render(tokens []Token, dir Lookuper) string {
	var b strings.Builder
	for _, tok := range tokens {
		switch tok.Kind {
		case KindLiteral, KindEscape:
			b.WriteString(tok.Text)
		case KindReference:
			renderReference(&b, tok, dir)
		}
	}
	return b.String()
}

// renderReference writes one <...> token. A title replaces the looked-up
// name but keeps the @ or # sign, so <#C1|display> renders as #display;
// special commands drop the ! sign.
func renderReference(b *strings.Builder, tok Token, dir Lookuper) {
	switch {
	case tok.HasTitle:
		if tok.Sign != SignNone && tok.Sign != SignSpecial {
			b.WriteByte(tok.Sign)
		}
		b.WriteString(tok.Title)

	case tok.Sign == SignUser || tok.Sign == SignChannel:
		b.WriteByte(tok.Sign)
		b.WriteString(lookupName(tok.Ref, dir))

	case tok.Sign == SignSpecial:
		b.WriteByte('@')
		b.WriteString(tok.Ref)

	default:
		b.WriteString(tok.Ref)
	}
}

// lookupName returns the display name for ref, or ref itself when the entity
// is unknown or carries no string name.
func lookupName(ref string, dir Lookuper) string {
	if dir == nil {
		return ref
	}
	ent, ok := dir.Lookup(ref)
	if !ok {
		return ref
	}
	if name, ok := ent.Name(); ok {
		return name
	}
	return ref
}
