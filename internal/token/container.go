package token

// SplitKind names the strategy that first split an identifier.
type SplitKind uint8

const (
	UnderscoreSplit SplitKind = iota
	CamelCaseSplit
	WithNumbersSplit
	SameCaseSplit
)

func (k SplitKind) String() string {
	switch k {
	case UnderscoreSplit:
		return "underscore"
	case CamelCaseSplit:
		return "camel-case"
	case WithNumbersSplit:
		return "with-numbers"
	default:
		return "same-case"
	}
}

// SplitContainer groups the subwords of one identifier. Separators live in
// the subwords' prefixes, so concatenating the children's literals yields
// the original identifier.
type SplitContainer struct {
	Split    SplitKind
	Subwords []Token
	// Capitalized is set when the first subword carries any capitalization.
	Capitalized bool
}

// NewSplitContainer wraps subwords and derives the capitalized flag.
func NewSplitContainer(kind SplitKind, subwords []Token) SplitContainer {
	c := SplitContainer{Split: kind, Subwords: subwords}
	if len(subwords) > 0 {
		if w, ok := WordOf(unwrapNonEng(subwords[0])); ok {
			c.Capitalized = w.Cap != CapNone
		}
	}
	return c
}

func (SplitContainer) Kind() Kind        { return KindSplit }
func (c SplitContainer) Literal() string { return Join(c.Subwords) }

func (c SplitContainer) Symbolic() []string {
	out := []string{WordStart}
	out = append(out, Symbols(c.Subwords)...)
	return append(out, WordEnd)
}

func (SplitContainer) sealed() {}

// TextKind identifies comment and string containers.
type TextKind uint8

const (
	OneLineComment TextKind = iota
	MultilineComment
	StringLiteral
)

// TextContainer holds the inner tokens of a comment or string literal.
type TextContainer struct {
	Type   TextKind
	Tokens []Token
	// Quote is the delimiter of a string literal: `"` or `'`.
	Quote string
	// Terminated is false when the closing delimiter was missing in the
	// source; the literal form then omits it.
	Terminated bool

	NonEngCount int
	WordCount   int
}

func (c TextContainer) Kind() Kind {
	switch c.Type {
	case OneLineComment:
		return KindOneLineComment
	case MultilineComment:
		return KindMultilineComment
	default:
		return KindStringLiteral
	}
}

// Open returns the opening delimiter.
func (c TextContainer) Open() string {
	switch c.Type {
	case OneLineComment:
		return "//"
	case MultilineComment:
		return "/*"
	default:
		return c.Quote
	}
}

// Close returns the closing delimiter, or "" for one-line comments and
// unterminated containers.
func (c TextContainer) Close() string {
	if !c.Terminated {
		return ""
	}
	switch c.Type {
	case OneLineComment:
		return ""
	case MultilineComment:
		return "*/"
	default:
		return c.Quote
	}
}

func (c TextContainer) Literal() string {
	return c.Open() + Join(c.Tokens) + c.Close()
}

func (c TextContainer) Symbolic() []string {
	out := []string{c.Open()}
	out = append(out, Symbols(c.Tokens)...)
	if cl := c.Close(); cl != "" {
		out = append(out, cl)
	}
	return out
}

func (TextContainer) sealed() {}

// NonEngRatio is the share of words in the container marked non-English.
func (c TextContainer) NonEngRatio() float64 {
	if c.WordCount == 0 {
		return 0
	}
	return float64(c.NonEngCount) / float64(c.WordCount)
}

// IsComment reports whether the container is a comment.
func (c TextContainer) IsComment() bool {
	return c.Type != StringLiteral
}

// NonEng marks a word, subword or text container as non-English without
// changing its literal form.
type NonEng struct {
	Wrapped Token
}

func (NonEng) Kind() Kind        { return KindNonEng }
func (n NonEng) Literal() string { return n.Wrapped.Literal() }

func (n NonEng) Symbolic() []string {
	if c, ok := n.Wrapped.(TextContainer); ok {
		out := []string{c.Open(), NonEngContent}
		if cl := c.Close(); cl != "" {
			out = append(out, cl)
		}
		return out
	}
	if w, ok := WordOf(n.Wrapped); ok && w.Prefix != "" {
		return []string{w.Prefix, NonEngWord}
	}
	return []string{NonEngWord}
}

func (NonEng) sealed() {}

func unwrapNonEng(t Token) Token {
	if n, ok := t.(NonEng); ok {
		return n.Wrapped
	}
	return t
}

// LoggableBlock is a method-body span between (not including) its braces.
type LoggableBlock struct {
	Tokens []Token
}

func (LoggableBlock) Kind() Kind        { return KindLoggableBlock }
func (b LoggableBlock) Literal() string { return Join(b.Tokens) }

func (b LoggableBlock) Symbolic() []string {
	out := []string{LoggableStart}
	out = append(out, Symbols(b.Tokens)...)
	return append(out, LoggableEnd)
}

func (LoggableBlock) sealed() {}

// LogStatement is a recognised logging call such as LOG.info("x", y);
//
// Head covers the logger object through the opening parenthesis, Content the
// call arguments, and Tail any whitespace between the closing parenthesis and
// the semicolon.
type LogStatement struct {
	Level       string
	Head        []Token
	ObjectIndex int
	MethodIndex int
	Content     []Token
	Tail        []Token
}

func (LogStatement) Kind() Kind { return KindLogStatement }

func (s LogStatement) Object() Token { return s.Head[s.ObjectIndex] }
func (s LogStatement) Method() Token { return s.Head[s.MethodIndex] }

func (s LogStatement) Literal() string {
	return Join(s.Head) + Join(s.Content) + ")" + Join(s.Tail) + ";"
}

func (s LogStatement) Symbolic() []string {
	out := []string{LogStatementStart, LogLevelPlaceholder(s.Level)}
	out = append(out, Symbols(s.Content)...)
	return append(out, LogStatementEnd)
}

func (LogStatement) sealed() {}
