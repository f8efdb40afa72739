package token

// SpecialChar is a fixed-identity leaf: whitespace, quotes, backslashes and
// comment delimiters.
type SpecialChar uint8

const (
	NewLine SpecialChar = iota
	Tab
	Space
	Quote
	Backslash
	OneLineCommentStart
	MultilineCommentStart
	MultilineCommentEnd
	CarriageReturn
)

var specialLiterals = [...]string{
	NewLine:               "\n",
	Tab:                   "\t",
	Space:                 " ",
	Quote:                 `"`,
	Backslash:             `\`,
	OneLineCommentStart:   "//",
	MultilineCommentStart: "/*",
	MultilineCommentEnd:   "*/",
	CarriageReturn:        "\r",
}

func (SpecialChar) Kind() Kind { return KindSpecialChar }

func (c SpecialChar) Literal() string {
	if int(c) < len(specialLiterals) {
		return specialLiterals[c]
	}
	return ""
}

func (c SpecialChar) Symbolic() []string {
	switch c {
	case NewLine:
		return []string{NewLinePlaceholder}
	case Tab:
		return []string{TabPlaceholder}
	case Space, CarriageReturn:
		return nil
	default:
		return []string{c.Literal()}
	}
}

func (SpecialChar) sealed() {}

// IsWhitespace reports whether t is a space, tab, carriage return or newline
// token.
func IsWhitespace(t Token) bool {
	c, ok := t.(SpecialChar)
	return ok && (c == Space || c == Tab || c == NewLine || c == CarriageReturn)
}
