package scanner

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/samcharles93/codeprep/internal/logger"
	"github.com/samcharles93/codeprep/internal/token"
)

func TestScanRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"public class Foo {\n\tint x = -1;\n}\n",
		`String s = "a \"quoted\" // not a comment";`,
		"char c = '\\''; char d = '\"';",
		"/* multi\n * line */ int y = 0x1F + 3.5e-2f; // trailing\n",
		"a-1; b+=2; c = a->b::c;",
		"String t = \"\"\"\n  text block \"with\" quotes\n  \"\"\";",
		"x = \"unterminated\ny = 2;",
		"/* never closed\nint z;",
		"naïve_名前 = 1_000L;\r\n",
		"path = \"C:\\\\dir\\\\\";",
	}
	s := New(nil)
	for _, in := range inputs {
		got := token.Join(s.ScanText(in))
		if got != in {
			t.Errorf("round trip mismatch\ninput: %q\n  got: %q", in, got)
		}
	}
}

func TestScanPrimitives(t *testing.T) {
	t.Parallel()

	toks := New(nil).ScanText("int x = -1;")
	want := []token.Kind{
		token.KindLiteral, token.KindSpecialChar, token.KindFullWord, token.KindSpecialChar,
		token.KindLiteral, token.KindSpecialChar, token.KindNumber, token.KindLiteral,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), token.Symbols(toks))
	}
	for i, k := range want {
		if toks[i].Kind() != k {
			t.Errorf("token %d (%q): got %v, want %v", i, toks[i].Literal(), toks[i].Kind(), k)
		}
	}
	n := toks[6].(token.Number)
	if len(n.Parts) != 2 || n.Parts[0].Kind != token.PartSign {
		t.Fatalf("got parts %+v, want sign then digits", n.Parts)
	}
}

func TestScanCarriageReturn(t *testing.T) {
	t.Parallel()

	toks := New(nil).ScanText("x;\r\ny;\r\n")
	want := []token.Token{
		token.FullWord{Word: token.NewWord("x")}, token.Literal{Text: ";"}, token.CarriageReturn, token.NewLine,
		token.FullWord{Word: token.NewWord("y")}, token.Literal{Text: ";"}, token.CarriageReturn, token.NewLine,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %q", len(toks), len(want), token.Symbols(toks))
	}
	for i := range want {
		if toks[i] != want[i] {
			t.Errorf("token %d: got %#v, want %#v", i, toks[i], want[i])
		}
	}
	if !token.IsWhitespace(toks[2]) {
		t.Fatal("carriage return should count as whitespace")
	}
	for _, s := range token.Symbols(toks) {
		if s == "\r" {
			t.Fatalf("carriage return leaked into symbols: %q", token.Symbols(toks))
		}
	}
}

func TestScanBinaryMinus(t *testing.T) {
	t.Parallel()

	toks := New(nil).ScanText("a-1")
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3: %q", len(toks), token.Symbols(toks))
	}
	if !token.IsLiteral(toks[1], "-") {
		t.Fatalf("got %q, want binary minus", toks[1].Literal())
	}
	if n, ok := toks[2].(token.Number); !ok || len(n.Parts) != 1 {
		t.Fatalf("got %#v, want unsigned number", toks[2])
	}
}

func TestNumberParts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []token.NumberPartKind
	}{
		{"42", []token.NumberPartKind{token.PartDigits}},
		{"0xFFL", []token.NumberPartKind{token.PartHexStart, token.PartDigits, token.PartSuffix}},
		{"3.5e-2f", []token.NumberPartKind{
			token.PartDigits, token.PartDecimalPoint, token.PartDigits,
			token.PartExponent, token.PartExponentSign, token.PartDigits, token.PartSuffix,
		}},
		{".5", []token.NumberPartKind{token.PartDecimalPoint, token.PartDigits}},
	}
	for _, tc := range tests {
		n := decomposeNumber(tc.in)
		if n.Literal() != tc.in {
			t.Errorf("%q: literal %q", tc.in, n.Literal())
		}
		if len(n.Parts) != len(tc.want) {
			t.Errorf("%q: got %d parts, want %d", tc.in, len(n.Parts), len(tc.want))
			continue
		}
		for i, k := range tc.want {
			if n.Parts[i].Kind != k {
				t.Errorf("%q part %d: got %v, want %v", tc.in, i, n.Parts[i].Kind, k)
			}
		}
	}
}

func TestKeywordsAreLiterals(t *testing.T) {
	t.Parallel()

	toks := New(nil).ScanText("return this")
	if toks[0].Kind() != token.KindLiteral || toks[2].Kind() != token.KindLiteral {
		t.Fatalf("keywords should scan as literals, got %v %v", toks[0].Kind(), toks[2].Kind())
	}

	// Inside comments keywords are prose.
	toks = New(nil).ScanText("// this class")
	c := toks[0].(token.TextContainer)
	for _, inner := range c.Tokens {
		if inner.Kind() == token.KindLiteral {
			t.Fatalf("comment content should not hold literals, got %q", inner.Literal())
		}
	}
}

func TestCarveStrings(t *testing.T) {
	t.Parallel()

	toks := New(nil).ScanText(`s = "a // b";`)
	var str token.TextContainer
	found := false
	for _, tok := range toks {
		if c, ok := tok.(token.TextContainer); ok {
			str, found = c, true
		}
	}
	if !found {
		t.Fatal("no string container")
	}
	if str.Type != token.StringLiteral || !str.Terminated {
		t.Fatalf("got %+v, want terminated string", str)
	}
	if str.Literal() != `"a // b"` {
		t.Fatalf("got %q", str.Literal())
	}
}

func TestCarveEscapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		wantBody string
	}{
		{`"a\"b"`, `a\"b`},
		{`"a\\"`, `a\\`},
		{`"a\\\"b"`, `a\\\"b`},
	}
	for _, tc := range tests {
		toks := New(nil).ScanText(tc.in)
		if len(toks) != 1 {
			t.Errorf("%s: got %d tokens, want 1", tc.in, len(toks))
			continue
		}
		c := toks[0].(token.TextContainer)
		if got := token.Join(c.Tokens); got != tc.wantBody {
			t.Errorf("%s: got body %q, want %q", tc.in, got, tc.wantBody)
		}
	}
}

func TestCarveComments(t *testing.T) {
	t.Parallel()

	toks := New(nil).ScanText("a; // note \"x\"\nb; /* c\nd */ e;")
	var kinds []token.Kind
	for _, tok := range toks {
		if c, ok := tok.(token.TextContainer); ok {
			kinds = append(kinds, c.Kind())
		}
	}
	if len(kinds) != 2 || kinds[0] != token.KindOneLineComment || kinds[1] != token.KindMultilineComment {
		t.Fatalf("got container kinds %v", kinds)
	}
}

func TestTextBlock(t *testing.T) {
	t.Parallel()

	toks := New(nil).ScanText("\"\"\"\nhello\n\"\"\"")
	if len(toks) != 1 {
		t.Fatalf("got %d tokens, want one text block", len(toks))
	}
	c := toks[0].(token.TextContainer)
	if c.Quote != `"""` || !c.Terminated {
		t.Fatalf("got %+v", c)
	}
}

func TestUnterminatedStringWarns(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := New(logger.JSON(&buf, slog.LevelWarn))
	toks := s.Scan([]string{`x = "abc`, "y = 1;"})

	if !strings.Contains(buf.String(), "unterminated string literal") {
		t.Fatalf("expected warning, got: %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"line":1`) {
		t.Fatalf("expected line attr, got: %s", buf.String())
	}

	var str token.TextContainer
	for _, tok := range toks {
		if c, ok := tok.(token.TextContainer); ok {
			str = c
		}
	}
	if str.Terminated {
		t.Fatal("string should be unterminated")
	}
	if token.Join(toks) != "x = \"abc\ny = 1;" {
		t.Fatalf("round trip broke: %q", token.Join(toks))
	}
	// The newline after the broken literal is kept as code.
	found := false
	for _, tok := range toks {
		if tok == token.NewLine {
			found = true
		}
	}
	if !found {
		t.Fatal("newline should stay outside the string")
	}
}

func TestUnterminatedCommentWarns(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	toks := New(logger.JSON(&buf, slog.LevelWarn)).ScanText("a; /* open\nb;")
	if !strings.Contains(buf.String(), "unterminated multiline comment") {
		t.Fatalf("expected warning, got: %s", buf.String())
	}
	last := toks[len(toks)-1].(token.TextContainer)
	if last.Terminated || last.Literal() != "/* open\nb;" {
		t.Fatalf("got %+v", last)
	}
}
