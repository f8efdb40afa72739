// Package render projects a token tree onto a flat symbol sequence.
package render

import (
	"strings"

	"github.com/samcharles93/codeprep/internal/token"
)

// Mode selects how tokens of one kind are rendered.
type Mode uint8

const (
	ModeSymbolic Mode = iota
	// ModeLiteral emits the token's exact source text as one symbol.
	ModeLiteral
)

// Config controls rendering. Kinds missing from Modes render symbolically.
type Config struct {
	Modes map[token.Kind]Mode

	// NonEng renders non-English tokens as placeholders.
	NonEng bool
	// CapMarkers emits lowercase words preceded by <Cap>/<CAPS>; otherwise
	// words keep their source case.
	CapMarkers bool
	// WordBoundaries wraps split identifiers in <w> ... </w>.
	WordBoundaries bool
	// KeepWhitespace emits <newline> and <tab>; spaces are never emitted
	// in symbolic form.
	KeepWhitespace bool
	StripComments  bool
	StripStrings   bool
	// MarkLogs wraps loggable blocks and replaces log statements with
	// their level and arguments.
	MarkLogs bool
}

// LiteralConfig renders every kind literally; joining the output without
// separators reproduces the source.
func LiteralConfig() Config {
	modes := make(map[token.Kind]Mode)
	for _, k := range token.Kinds() {
		modes[k] = ModeLiteral
	}
	return Config{Modes: modes}
}

func (c Config) mode(k token.Kind) Mode {
	return c.Modes[k]
}

// Render flattens tokens. It is deterministic and does not modify tokens.
func Render(tokens []token.Token, cfg Config) []string {
	r := renderer{cfg: cfg, out: make([]string, 0, len(tokens))}
	r.all(tokens)
	return r.out
}

// Join lays symbols out as one line of text, separated by single spaces.
// The vocabulary counter splits on the same whitespace.
func Join(symbols []string) string {
	return strings.Join(symbols, " ")
}

type renderer struct {
	cfg Config
	out []string
}

func (r *renderer) emit(s ...string) {
	for _, v := range s {
		if v != "" {
			r.out = append(r.out, v)
		}
	}
}

func (r *renderer) all(tokens []token.Token) {
	for _, t := range tokens {
		r.one(t)
	}
}

func (r *renderer) one(t token.Token) {
	if r.cfg.mode(t.Kind()) == ModeLiteral {
		r.emit(t.Literal())
		return
	}

	switch v := t.(type) {
	case token.SpecialChar:
		switch v {
		case token.NewLine, token.Tab:
			if r.cfg.KeepWhitespace {
				r.emit(v.Symbolic()...)
			}
		case token.Space, token.CarriageReturn:
		default:
			r.emit(v.Literal())
		}

	case token.FullWord:
		r.word(v.Word)
	case token.SubWord:
		r.word(v.Word)

	case token.SplitContainer:
		if r.cfg.WordBoundaries {
			r.emit(token.WordStart)
		}
		r.all(v.Subwords)
		if r.cfg.WordBoundaries {
			r.emit(token.WordEnd)
		}

	case token.TextContainer:
		if r.stripped(v) {
			return
		}
		r.emit(v.Open())
		r.all(v.Tokens)
		r.emit(v.Close())

	case token.NonEng:
		if c, ok := v.Wrapped.(token.TextContainer); ok && r.stripped(c) {
			return
		}
		if !r.cfg.NonEng {
			r.one(v.Wrapped)
			return
		}
		r.emit(v.Symbolic()...)

	case token.LoggableBlock:
		if r.cfg.MarkLogs {
			r.emit(token.LoggableStart)
		}
		r.all(v.Tokens)
		if r.cfg.MarkLogs {
			r.emit(token.LoggableEnd)
		}

	case token.LogStatement:
		if r.cfg.MarkLogs {
			r.emit(token.LogStatementStart, token.LogLevelPlaceholder(v.Level))
			r.all(v.Content)
			r.emit(token.LogStatementEnd)
			return
		}
		r.all(v.Head)
		r.all(v.Content)
		r.emit(")")
		r.all(v.Tail)
		r.emit(";")

	default:
		r.emit(t.Symbolic()...)
	}
}

// stripped emits the placeholder for a stripped comment or string.
func (r *renderer) stripped(c token.TextContainer) bool {
	switch {
	case c.IsComment() && r.cfg.StripComments:
		r.emit(token.CommentPlaceholder)
	case !c.IsComment() && r.cfg.StripStrings:
		r.emit(token.StringPlaceholder)
	default:
		return false
	}
	return true
}

func (r *renderer) word(w token.Word) {
	r.emit(w.Prefix)
	if r.cfg.CapMarkers {
		r.emit(w.CapMarker(), w.Canonical)
		return
	}
	r.emit(w.Body())
}
