package noneng

import (
	"slices"
	"strings"
	"testing"

	"github.com/samcharles93/codeprep/internal/token"
)

func words(text string) []token.Token {
	var out []token.Token
	for i, w := range strings.Fields(text) {
		if i > 0 {
			out = append(out, token.Space)
		}
		out = append(out, token.FullWord{Word: token.NewWord(w)})
	}
	return out
}

func comment(text string) token.TextContainer {
	return token.TextContainer{Type: token.OneLineComment, Terminated: true, Tokens: words(text)}
}

func TestIsNonEng(t *testing.T) {
	t.Parallel()

	m := NewMarker(NewDictionary([]string{"Hallo", "welt"}), nil)
	tests := []struct {
		in   string
		want bool
	}{
		{"hello", false},
		{"straße", true},
		{"hallo", true},
		{"HALLO", true},
		{"Welt", true},
		{"", false},
	}
	for _, tc := range tests {
		if got := m.IsNonEng(tc.in); got != tc.want {
			t.Errorf("IsNonEng(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if NewMarker(nil, nil).IsNonEng("hallo") {
		t.Fatal("nil dictionary should only apply the ASCII test")
	}
}

func TestMarkWord(t *testing.T) {
	t.Parallel()

	m := NewMarker(nil, nil)
	out, err := m.Mark([]token.Token{token.FullWord{Word: token.NewWord("Über")}, token.Space, token.FullWord{Word: token.NewWord("over")}})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := out[0].(token.NonEng); !ok {
		t.Fatalf("got %T, want NonEng", out[0])
	}
	if _, ok := out[2].(token.FullWord); !ok {
		t.Fatalf("got %T, want FullWord", out[2])
	}
	if got := token.Join(out); got != "Über over" {
		t.Fatalf("literal changed: %q", got)
	}
	if got := token.Symbols(out); !slices.Equal(got, []string{"<non-en>", "over"}) {
		t.Fatalf("got %q", got)
	}
}

func TestMarkContainerWhole(t *testing.T) {
	t.Parallel()

	m := NewMarker(NewDictionary([]string{"das", "ist", "ein", "kommentar"}), nil)
	in := comment("das ist ein kommentar ok")
	out, err := m.Mark([]token.Token{in})
	if err != nil {
		t.Fatal(err)
	}
	n, ok := out[0].(token.NonEng)
	if !ok {
		t.Fatalf("got %T, want NonEng container", out[0])
	}
	c := n.Wrapped.(token.TextContainer)
	if c.WordCount != 5 || c.NonEngCount != 4 {
		t.Fatalf("got counts %d/%d", c.NonEngCount, c.WordCount)
	}
	for _, inner := range c.Tokens {
		if inner.Kind() == token.KindNonEng {
			t.Fatal("words inside a wrapped container should be unwrapped")
		}
	}
	if got := n.Symbolic(); !slices.Equal(got, []string{"//", "<non-en-content>"}) {
		t.Fatalf("got %q", got)
	}
	if n.Literal() != in.Literal() {
		t.Fatalf("literal changed: %q", n.Literal())
	}
}

func TestMarkContainerIndividual(t *testing.T) {
	t.Parallel()

	m := NewMarker(NewDictionary([]string{"hallo", "welt"}), nil)

	tests := []struct {
		text        string
		wantWords   int
		wantNonEng  int
		wantWrapped int
	}{
		// Ratio is 0.2, not above it.
		{"hallo welt this comment is in english mostly and so", 10, 2, 2},
		// Ratio is 1 but fewer than four words.
		{"hallo welt hallo", 3, 3, 3},
	}
	for _, tc := range tests {
		out, err := m.Mark([]token.Token{comment(tc.text)})
		if err != nil {
			t.Fatal(err)
		}
		c, ok := out[0].(token.TextContainer)
		if !ok {
			t.Fatalf("%q: got %T, want TextContainer", tc.text, out[0])
		}
		if c.WordCount != tc.wantWords || c.NonEngCount != tc.wantNonEng {
			t.Errorf("%q: got %d/%d", tc.text, c.NonEngCount, c.WordCount)
		}
		wrapped := 0
		for _, inner := range c.Tokens {
			if inner.Kind() == token.KindNonEng {
				wrapped++
			}
		}
		if wrapped != tc.wantWrapped {
			t.Errorf("%q: got %d wrapped words, want %d", tc.text, wrapped, tc.wantWrapped)
		}
	}
}
