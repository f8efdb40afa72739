package token

import "strings"

// NumberPartKind classifies a piece of a numeric literal.
type NumberPartKind uint8

const (
	PartSign NumberPartKind = iota
	PartHexStart
	PartDigits
	PartDecimalPoint
	PartExponent
	PartExponentSign
	PartSuffix
)

type NumberPart struct {
	Kind NumberPartKind
	Text string
}

// Number is a numeric literal decomposed into its parts.
type Number struct {
	Parts []NumberPart
}

func (Number) Kind() Kind { return KindNumber }

func (n Number) Literal() string {
	var b strings.Builder
	for _, p := range n.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// Symbolic spells digits one symbol each and lowercases markers, so 0xFFL
// becomes [0x f f l].
func (n Number) Symbolic() []string {
	out := make([]string, 0, len(n.Parts)*2)
	for _, p := range n.Parts {
		if p.Kind != PartDigits {
			out = append(out, strings.ToLower(p.Text))
			continue
		}
		for _, r := range strings.ToLower(p.Text) {
			out = append(out, string(r))
		}
	}
	return out
}

func (Number) sealed() {}
