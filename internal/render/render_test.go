package render

import (
	"slices"
	"strings"
	"testing"

	"github.com/samcharles93/codeprep/internal/noneng"
	"github.com/samcharles93/codeprep/internal/recognize"
	"github.com/samcharles93/codeprep/internal/scanner"
	"github.com/samcharles93/codeprep/internal/split"
	"github.com/samcharles93/codeprep/internal/token"
)

const source = `package demo;

public class Reader {
	// Größe des Puffers
	private static final int MAX_SIZE = 0x10;

	public void readAll(String fileName) {
		LOG.info("reading {}", fileName);
		int n = -1; /* unterminated? no */
	}
}
`

func prepared(t *testing.T, src string) []token.Token {
	t.Helper()
	toks := scanner.New(nil).ScanText(src)
	toks = recognize.NewBlocks(nil).Rewrite(toks)
	toks = recognize.NewStatements(nil).Rewrite(toks)
	s, err := split.New(split.LevelNumbers, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	toks, err = s.Rewrite(toks)
	if err != nil {
		t.Fatal(err)
	}
	toks, err = noneng.NewMarker(nil, nil).Mark(toks)
	if err != nil {
		t.Fatal(err)
	}
	return toks
}

func TestLiteralRoundTrip(t *testing.T) {
	t.Parallel()

	toks := prepared(t, source)
	if got := strings.Join(Render(toks, LiteralConfig()), ""); got != source {
		t.Fatalf("round trip broke:\n%s", got)
	}
}

func TestScenarios(t *testing.T) {
	t.Parallel()

	cfg := Config{CapMarkers: true, WordBoundaries: true}
	tests := []struct {
		in   string
		want []string
	}{
		{"hideSoftInputFromWindow", []string{"<w>", "hide", "<Cap>", "soft", "<Cap>", "input", "<Cap>", "from", "<Cap>", "window", "</w>"}},
		{"_currentReaderVersion", []string{"<w>", "_", "current", "<Cap>", "reader", "<Cap>", "version", "</w>"}},
	}
	for _, tc := range tests {
		if got := Render(prepared(t, tc.in), cfg); !slices.Equal(got, tc.want) {
			t.Errorf("%q: got %q\nwant %q", tc.in, got, tc.want)
		}
	}
}

func TestWordOptions(t *testing.T) {
	t.Parallel()

	toks := prepared(t, "getValue MAX")
	tests := []struct {
		cfg  Config
		want []string
	}{
		{Config{}, []string{"get", "Value", "MAX"}},
		{Config{CapMarkers: true}, []string{"get", "<Cap>", "value", "<CAPS>", "max"}},
		{Config{WordBoundaries: true}, []string{"<w>", "get", "Value", "</w>", "MAX"}},
	}
	for _, tc := range tests {
		if got := Render(toks, tc.cfg); !slices.Equal(got, tc.want) {
			t.Errorf("%+v: got %q, want %q", tc.cfg, got, tc.want)
		}
	}
}

func TestWhitespace(t *testing.T) {
	t.Parallel()

	toks := prepared(t, "a\n\tb c")
	if got := Render(toks, Config{}); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("got %q", got)
	}
	if got := Render(toks, Config{KeepWhitespace: true}); !slices.Equal(got, []string{"a", "<newline>", "<tab>", "b", "c"}) {
		t.Fatalf("got %q", got)
	}
}

func TestStripping(t *testing.T) {
	t.Parallel()

	toks := prepared(t, `s = "hi there"; // note`)
	tests := []struct {
		cfg  Config
		want []string
	}{
		{Config{}, []string{"s", "=", `"`, "hi", "there", `"`, ";", "//", "note"}},
		{Config{StripStrings: true}, []string{"s", "=", "<str-literal>", ";", "//", "note"}},
		{Config{StripStrings: true, StripComments: true}, []string{"s", "=", "<str-literal>", ";", "<comment>"}},
		{Config{Modes: map[token.Kind]Mode{token.KindStringLiteral: ModeLiteral}}, []string{"s", "=", `"hi there"`, ";", "//", "note"}},
	}
	for _, tc := range tests {
		if got := Render(toks, tc.cfg); !slices.Equal(got, tc.want) {
			t.Errorf("%+v: got %q, want %q", tc.cfg, got, tc.want)
		}
	}
}

func TestNonEng(t *testing.T) {
	t.Parallel()

	toks := prepared(t, "x = größe; // eins zwei drei vier fünf\n")
	marker := noneng.NewMarker(noneng.NewDictionary([]string{"eins", "zwei", "drei", "vier"}), nil)
	toks, err := marker.Mark(toks)
	if err != nil {
		t.Fatal(err)
	}

	got := Render(toks, Config{NonEng: true})
	want := []string{"x", "=", "<non-en>", ";", "//", "<non-en-content>"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	got = Render(toks, Config{})
	if !slices.Contains(got, "größe") || !slices.Contains(got, "fünf") {
		t.Fatalf("marking disabled should render words, got %q", got)
	}
	got = Render(toks, Config{NonEng: true, StripComments: true})
	if got[len(got)-1] != "<comment>" {
		t.Fatalf("stripping should win over non-English content, got %q", got)
	}
}

func TestMarkLogs(t *testing.T) {
	t.Parallel()

	toks := prepared(t, "class A { void f() { LOG.debug(x); } }")
	got := Render(toks, Config{MarkLogs: true})
	want := []string{"class", "A", "{", "void", "f", "(", ")", "{", "<loggable>", "<log-stmt>", "<log-level-debug>", "x", "</log-stmt>", "</loggable>", "}", "}"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %q\nwant %q", got, want)
	}

	got = Render(toks, Config{})
	want = []string{"class", "A", "{", "void", "f", "(", ")", "{", "LOG", ".", "debug", "(", "x", ")", ";", "}", "}"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestDeterministic(t *testing.T) {
	t.Parallel()

	toks := prepared(t, source)
	cfg := Config{CapMarkers: true, WordBoundaries: true, KeepWhitespace: true, MarkLogs: true, NonEng: true}
	if a, b := Render(toks, cfg), Render(toks, cfg); !slices.Equal(a, b) {
		t.Fatal("rendering is not deterministic")
	}
	if got := Join(Render(toks, cfg)); strings.Contains(got, "  ") || len(strings.Fields(got)) != len(Render(toks, cfg)) {
		t.Fatalf("joined symbols do not split back: %q", got)
	}
}
