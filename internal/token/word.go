package token

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Capitalization records how a word's canonical lowercase form is cased in
// the source.
type Capitalization uint8

const (
	CapNone Capitalization = iota
	CapFirstLetter
	CapAll
	// CapUndefined marks mixed-case text whose canonical form is kept
	// verbatim. Splitting normally resolves it into cased subwords.
	CapUndefined
)

func (c Capitalization) String() string {
	switch c {
	case CapNone:
		return "none"
	case CapFirstLetter:
		return "first"
	case CapAll:
		return "all"
	default:
		return "undefined"
	}
}

// Capitalize applies c to a canonical form.
func Capitalize(canonical string, c Capitalization) string {
	switch c {
	case CapFirstLetter:
		r, size := utf8.DecodeRuneInString(canonical)
		if size == 0 {
			return canonical
		}
		return cases.Upper(language.Und).String(string(r)) + canonical[size:]
	case CapAll:
		return cases.Upper(language.Und).String(canonical)
	default:
		return canonical
	}
}

// Word is the shared core of FullWord and SubWord.
//
// Invariant: Text() == Prefix + Capitalize(Canonical, Cap).
type Word struct {
	Canonical string
	Cap       Capitalization
	// Prefix is a run of underscores preceding the word.
	Prefix string
}

// NewWord builds a Word from source text. Leading underscores become the
// prefix; text that cannot be reproduced from a lowercase form plus a
// capitalization tag is kept verbatim with CapUndefined.
func NewWord(text string) Word {
	body := strings.TrimLeft(text, "_")
	prefix := text[:len(text)-len(body)]
	if body == "" {
		return Word{Prefix: prefix}
	}
	lower := cases.Lower(language.Und).String(body)
	switch {
	case lower == body:
		return Word{Canonical: lower, Cap: CapNone, Prefix: prefix}
	case Capitalize(lower, CapFirstLetter) == body:
		return Word{Canonical: lower, Cap: CapFirstLetter, Prefix: prefix}
	case Capitalize(lower, CapAll) == body:
		return Word{Canonical: lower, Cap: CapAll, Prefix: prefix}
	default:
		return Word{Canonical: body, Cap: CapUndefined, Prefix: prefix}
	}
}

// Body returns the cased word without its prefix.
func (w Word) Body() string {
	return Capitalize(w.Canonical, w.Cap)
}

// Text returns the exact source text of the word.
func (w Word) Text() string {
	return w.Prefix + w.Body()
}

// CapMarker returns the capitalization placeholder preceding the word in
// symbolic form, or "" when none applies.
func (w Word) CapMarker() string {
	switch w.Cap {
	case CapFirstLetter:
		return Capital
	case CapAll:
		if utf8.RuneCountInString(w.Canonical) == 1 {
			return Capital
		}
		return Capitals
	default:
		return ""
	}
}

func (w Word) symbols() []string {
	out := make([]string, 0, 3)
	if w.Prefix != "" {
		out = append(out, w.Prefix)
	}
	if m := w.CapMarker(); m != "" {
		out = append(out, m)
	}
	if w.Canonical != "" {
		out = append(out, w.Canonical)
	}
	return out
}

// FullWord is an identifier or natural-language word that has not been split.
type FullWord struct {
	Word
}

func (FullWord) Kind() Kind           { return KindFullWord }
func (w FullWord) Literal() string    { return w.Text() }
func (w FullWord) Symbolic() []string { return w.symbols() }
func (FullWord) sealed()              {}

// SubWord is one part of a split identifier.
type SubWord struct {
	Word
	// Fragment marks subwords produced by dictionary or byte-pair splitting;
	// they are never split again.
	Fragment bool
}

func (SubWord) Kind() Kind           { return KindSubWord }
func (w SubWord) Literal() string    { return w.Text() }
func (w SubWord) Symbolic() []string { return w.symbols() }
func (SubWord) sealed()              {}

// WordOf returns the Word core of a FullWord or SubWord.
func WordOf(t Token) (Word, bool) {
	switch w := t.(type) {
	case FullWord:
		return w.Word, true
	case SubWord:
		return w.Word, true
	default:
		return Word{}, false
	}
}
