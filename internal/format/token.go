package format

import "regexp"

// tokenPattern matches, at each position, either one of the three entity
// escapes or a bracketed reference. Both kinds live in one alternation so a
// bracket that contains "&amp;" is consumed whole and never rescanned.
var tokenPattern = regexp.MustCompile(
	`&(?P<escape>amp|lt|gt);` +
		`|<(?P<sign>[#@!])?(?P<ref>[^|>]*?)(?:\|(?P<title>[^>]*?))?>`,
)

var (
	escapeGroup = tokenPattern.SubexpIndex("escape")
	signGroup   = tokenPattern.SubexpIndex("sign")
	refGroup    = tokenPattern.SubexpIndex("ref")
	titleGroup  = tokenPattern.SubexpIndex("title")
)

var escapes = map[string]string{
	"amp": "&",
	"lt":  "<",
	"gt":  ">",
}

// Kind identifies the variant held by a Token.
type Kind uint8

// Token kinds.
const (
	KindLiteral Kind = iota
	KindEscape
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindEscape:
		return "escape"
	case KindReference:
		return "reference"
	default:
		return "unknown"
	}
}

// Reference signs.
const (
	SignNone    byte = 0
	SignChannel byte = '#'
	SignUser    byte = '@'
	SignSpecial byte = '!'
)

// Token is one unit of scanned message text.
//
// For KindLiteral, Text is the copied input. For KindEscape, Text is the
// decoded character. For KindReference, Sign, Ref, Title and HasTitle carry
// the parsed bracket; Text is unused.
type Token struct {
	Kind     Kind
	Raw      string
	Text     string
	Sign     byte
	Ref      string
	Title    string
	HasTitle bool
}

// Tokenize scans text left to right and splits it into literals, escapes and
// references. Concatenating the Raw fields reproduces the input.
func Tokenize(text string) []Token {
	if text == "" {
		return nil
	}

	matches := tokenPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []Token{{Kind: KindLiteral, Raw: text, Text: text}}
	}

	tokens := make([]Token, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > last {
			lit := text[last:start]
			tokens = append(tokens, Token{Kind: KindLiteral, Raw: lit, Text: lit})
		}
		tokens = append(tokens, matchToken(text, m))
		last = end
	}
	if last < len(text) {
		lit := text[last:]
		tokens = append(tokens, Token{Kind: KindLiteral, Raw: lit, Text: lit})
	}
	return tokens
}

// matchToken builds a token from one submatch index slice.
func matchToken(text string, m []int) Token {
	raw := text[m[0]:m[1]]

	if s := m[2*escapeGroup]; s >= 0 {
		name := text[s:m[2*escapeGroup+1]]
		return Token{Kind: KindEscape, Raw: raw, Text: escapes[name]}
	}

	tok := Token{Kind: KindReference, Raw: raw}
	if s := m[2*signGroup]; s >= 0 {
		tok.Sign = text[s]
	}
	if s := m[2*refGroup]; s >= 0 {
		tok.Ref = text[s:m[2*refGroup+1]]
	}
	if s := m[2*titleGroup]; s >= 0 {
		tok.Title = text[s:m[2*titleGroup+1]]
		tok.HasTitle = true
	}
	return tok
}
