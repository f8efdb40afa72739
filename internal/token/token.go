// Package token defines the lossless token tree produced by the scanner and
// rewritten by the splitting, marking and recognition passes.
//
// Every token has a literal form (the exact source text it covers) and a
// default symbolic form (the model-facing symbols). Concatenating the literal
// forms of a scanned file reproduces the file byte for byte.
package token

import "strings"

// Kind identifies a token variant. Renderers select literal or symbolic
// output per Kind.
type Kind uint8

const (
	KindLiteral Kind = iota
	KindSpecialChar
	KindFullWord
	KindSubWord
	KindNumber
	KindSplit
	KindOneLineComment
	KindMultilineComment
	KindStringLiteral
	KindNonEng
	KindLoggableBlock
	KindLogStatement
)

var kindNames = [...]string{
	KindLiteral:          "literal",
	KindSpecialChar:      "special",
	KindFullWord:         "word",
	KindSubWord:          "subword",
	KindNumber:           "number",
	KindSplit:            "split",
	KindOneLineComment:   "one-line-comment",
	KindMultilineComment: "multiline-comment",
	KindStringLiteral:    "string",
	KindNonEng:           "non-eng",
	KindLoggableBlock:    "loggable-block",
	KindLogStatement:     "log-statement",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Kinds lists every token kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

// Token is a closed sum type; the set of implementations is fixed to this
// package.
type Token interface {
	Kind() Kind
	// Literal returns the exact source text covered by the token.
	Literal() string
	// Symbolic returns the default model-facing symbols for the token.
	Symbolic() []string

	sealed()
}

// Placeholders used in symbolic renderings.
const (
	WordStart          = "<w>"
	WordEnd            = "</w>"
	Capital            = "<Cap>"
	Capitals           = "<CAPS>"
	NonEngWord         = "<non-en>"
	NonEngContent      = "<non-en-content>"
	CommentPlaceholder = "<comment>"
	StringPlaceholder  = "<str-literal>"
	NewLinePlaceholder = "<newline>"
	TabPlaceholder     = "<tab>"
	LoggableStart      = "<loggable>"
	LoggableEnd        = "</loggable>"
	LogStatementStart  = "<log-stmt>"
	LogStatementEnd    = "</log-stmt>"
)

// LogLevelPlaceholder returns the symbol marking a log statement's level.
func LogLevelPlaceholder(level string) string {
	return "<log-level-" + level + ">"
}

// Literal is opaque leaf text: operators, punctuation, keywords and stray
// characters.
type Literal struct {
	Text string
}

func (Literal) Kind() Kind           { return KindLiteral }
func (l Literal) Literal() string    { return l.Text }
func (l Literal) Symbolic() []string { return []string{l.Text} }
func (Literal) sealed()              {}

// Join concatenates the literal forms of tokens.
func Join(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Literal())
	}
	return b.String()
}

// Symbols concatenates the default symbolic forms of tokens.
func Symbols(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Symbolic()...)
	}
	return out
}

// IsLiteral reports whether t is the Literal text.
func IsLiteral(t Token, text string) bool {
	l, ok := t.(Literal)
	return ok && l.Text == text
}

// IsPlaceholder reports whether s is a marker produced by rendering, such as
// <w> or <log-level-info>, rather than source text.
func IsPlaceholder(s string) bool {
	if len(s) < 3 || s[0] != '<' || s[len(s)-1] != '>' {
		return false
	}
	body := strings.TrimPrefix(s[1:len(s)-1], "/")
	if body == "" {
		return false
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '-') {
			return false
		}
	}
	return true
}
