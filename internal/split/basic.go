package split

import (
	"regexp"
	"unicode"

	"github.com/samcharles93/codeprep/internal/token"
)

// Underscore splits at each underscore run that follows a non-underscore
// character. The run becomes the prefix of the next part; a trailing run is
// a part of its own with an empty canonical form.
type Underscore struct{}

func (Underscore) Name() string          { return "underscore" }
func (Underscore) Kind() token.SplitKind { return token.UnderscoreSplit }

func (Underscore) Split(w token.Word) ([]token.Word, error) {
	text := w.Text()
	var pieces []string
	start := 0
	for i := 1; i < len(text); i++ {
		if text[i] == '_' && text[i-1] != '_' {
			pieces = append(pieces, text[start:i])
			start = i
		}
	}
	if len(pieces) == 0 {
		return nil, nil
	}
	pieces = append(pieces, text[start:])
	out := make([]token.Word, len(pieces))
	for i, p := range pieces {
		out[i] = token.NewWord(p)
	}
	return out, nil
}

// CamelCase splits before an upper-case letter that follows a lower-case
// letter or digit, and before the last capital of an upper-case run that is
// followed by a lower-case letter (XMLHttp -> XML Http). RE2 has no
// lookaround, so the boundaries are found with a rune scan.
type CamelCase struct{}

func (CamelCase) Name() string          { return "camel-case" }
func (CamelCase) Kind() token.SplitKind { return token.CamelCaseSplit }

func (CamelCase) Split(w token.Word) ([]token.Word, error) {
	body := []rune(w.Body())
	var pieces []string
	start := 0
	for i := 1; i < len(body); i++ {
		prev, cur := body[i-1], body[i]
		if !unicode.IsUpper(cur) {
			continue
		}
		lowerToUpper := unicode.IsLower(prev) || unicode.IsDigit(prev)
		upperRunEnd := unicode.IsUpper(prev) && i+1 < len(body) && unicode.IsLower(body[i+1])
		if lowerToUpper || upperRunEnd {
			pieces = append(pieces, string(body[start:i]))
			start = i
		}
	}
	if len(pieces) == 0 {
		return nil, nil
	}
	pieces = append(pieces, string(body[start:]))
	return withPrefix(w, pieces), nil
}

var numberRunRe = regexp.MustCompile(`[0-9]+|[^0-9]+`)

// WithNumbers separates digit runs from the rest.
type WithNumbers struct{}

func (WithNumbers) Name() string          { return "with-numbers" }
func (WithNumbers) Kind() token.SplitKind { return token.WithNumbersSplit }

func (WithNumbers) Split(w token.Word) ([]token.Word, error) {
	pieces := numberRunRe.FindAllString(w.Body(), -1)
	if len(pieces) < 2 {
		return nil, nil
	}
	return withPrefix(w, pieces), nil
}
