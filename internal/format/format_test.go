package format

import (
	"testing"

	"github.com/flemzord/rtmtail/internal/directory"
)

func testDirectory() *directory.Directory {
	return directory.Build(directory.Snapshot{
		Users: []directory.Entity{
			{"id": "U12345", "name": "user12345"},
			{"id": "U2"},
			{"id": "U3", "name": 3},
		},
		Channels: []directory.Entity{
			{"id": "C1", "name": "general"},
		},
	})
}

func TestResolve(t *testing.T) {
	t.Parallel()

	dir := testDirectory()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain text", input: "hello world", want: "hello world"},
		{name: "unicode plain text", input: "héllo wörld ✓", want: "héllo wörld ✓"},

		{name: "amp escape", input: "&amp;", want: "&"},
		{name: "lt escape", input: "&lt;", want: "<"},
		{name: "gt escape", input: "&gt;", want: ">"},
		{name: "unknown escape kept", input: "a &quot; b &foo;", want: "a &quot; b &foo;"},
		{name: "escape without semicolon kept", input: "fish &amp chips", want: "fish &amp chips"},
		{name: "escapes are decoded once", input: "&amp;lt;", want: "&lt;"},
		{name: "escaped brackets are not references", input: "&lt;@U12345&gt;", want: "<@U12345>"},

		{name: "known user", input: "<@U12345>", want: "@user12345"},
		{name: "unknown user", input: "<@U00000>", want: "@U00000"},
		{name: "known channel", input: "<#C1>", want: "#general"},
		{name: "unknown channel", input: "<#C9>", want: "#C9"},
		{name: "entity without name", input: "<@U2>", want: "@U2"},
		{name: "entity with non-string name", input: "<@U3>", want: "@U3"},
		{name: "empty user reference", input: "<@>", want: "@"},

		{name: "channel title wins", input: "<#C1|display>", want: "#display"},
		{name: "unknown channel title", input: "<#C9|display>", want: "#display"},
		{name: "user title", input: "<@U12345|someone>", want: "@someone"},
		{name: "empty title is present", input: "<@U12345|>", want: "@"},
		{name: "first pipe splits", input: "<@U1|a|b>", want: "@a|b"},

		{name: "special with title", input: "<!subteam^S1|@subteam>", want: "@subteam"},
		{name: "special here", input: "<!here>", want: "@here"},
		{name: "special channel", input: "<!channel>", want: "@channel"},
		{name: "special date", input: "<!date^1392734382^{date}|Feb 18, 2014>", want: "Feb 18, 2014"},

		{name: "bare link", input: "<https://x.test/>", want: "https://x.test/"},
		{name: "link with title", input: "<https://x.test/|label>", want: "label"},
		{name: "mailto link", input: "<mailto:a@example.test|a@example.test>", want: "a@example.test"},
		{name: "link keeps inner escapes", input: "<https://x.test/?a=1&amp;b=2>", want: "https://x.test/?a=1&amp;b=2"},
		{name: "link with escape and title", input: "<https://x.test/?a=1&amp;b=2|q>", want: "q"},
		{name: "empty brackets", input: "<>", want: ""},

		{name: "unclosed bracket", input: "1 < 2", want: "1 < 2"},
		{name: "stray closing bracket", input: "2 > 1", want: "2 > 1"},
		{name: "first closing bracket ends token", input: "<@U12345>>", want: "@user12345>"},
		{name: "nested brackets unsupported", input: "<<@U12345>>", want: "<@U12345>"},

		{
			name:  "mixed sentence",
			input: "hey <@U12345>, see <#C1> &amp; <https://x.test/|this> <!here>",
			want:  "hey @user12345, see #general & this @here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Resolve(tt.input, dir)
			if got != tt.want {
				t.Errorf("Resolve(%q)\n  got  = %q\n  want = %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolve_TitleIgnoresDirectory(t *testing.T) {
	t.Parallel()

	withC1 := testDirectory()
	withoutC1 := directory.Build(directory.Snapshot{})

	for _, input := range []string{"<#C1|display>", "<@U12345|x>", "<!here|now>"} {
		a := Resolve(input, withC1)
		b := Resolve(input, withoutC1)
		if a != b {
			t.Errorf("Resolve(%q) differs: %q vs %q", input, a, b)
		}
	}
}

func TestResolve_NilDirectory(t *testing.T) {
	t.Parallel()

	if got := Resolve("<@U12345> <#C1>", nil); got != "@U12345 #C1" {
		t.Errorf("got %q", got)
	}

	var typedNil *directory.Directory
	if got := Resolve("<@U12345>", typedNil); got != "@U12345" {
		t.Errorf("typed nil: got %q", got)
	}
}

func TestResolve_PlainTextIdentity(t *testing.T) {
	t.Parallel()

	dir := testDirectory()
	inputs := []string{
		"",
		" ",
		"no markup at all",
		"tabs\tand\nnewlines",
		"symbols !@#$%^*()|>",
		"日本語のテキスト",
	}
	for _, in := range inputs {
		if got := Resolve(in, dir); got != in {
			t.Errorf("Resolve(%q) = %q, want identity", in, got)
		}
	}
}
