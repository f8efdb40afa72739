package scanner

import "github.com/samcharles93/codeprep/internal/token"

const textBlockQuote = `"""`

// carve folds string literals, char literals and comments into text
// containers. The earliest opener wins, so quotes inside comments and comment
// markers inside strings are plain content.
func (s *Scanner) carve(prims []token.Token) []token.Token {
	out := make([]token.Token, 0, len(prims))
	line := 1
	for i := 0; i < len(prims); {
		t := prims[i]
		switch {
		case t == token.NewLine:
			line++
			out = append(out, t)
			i++

		case isTextBlockOpen(prims, i):
			end, ok := findTextBlockEnd(prims, i+3)
			c := token.TextContainer{Type: token.StringLiteral, Quote: textBlockQuote, Terminated: ok}
			c.Tokens = asText(prims[i+3 : end])
			if !ok {
				s.log.Warn("unterminated text block", "line", line)
				i = end
			} else {
				i = end + 3
			}
			line += countNewLines(c.Tokens)
			out = append(out, c)

		case t == token.Quote || token.IsLiteral(t, "'"):
			quote := t.Literal()
			end, ok := findQuoteEnd(prims, i+1, quote)
			c := token.TextContainer{Type: token.StringLiteral, Quote: quote, Terminated: ok}
			c.Tokens = asText(prims[i+1 : end])
			if !ok {
				s.log.Warn("unterminated string literal", "line", line, "quote", quote)
				i = end
			} else {
				i = end + 1
			}
			out = append(out, c)

		case t == token.OneLineCommentStart:
			end := i + 1
			for end < len(prims) && prims[end] != token.NewLine {
				end++
			}
			out = append(out, token.TextContainer{
				Type:       token.OneLineComment,
				Tokens:     asText(prims[i+1 : end]),
				Terminated: true,
			})
			i = end

		case t == token.MultilineCommentStart:
			end := i + 1
			for end < len(prims) && prims[end] != token.MultilineCommentEnd {
				end++
			}
			ok := end < len(prims)
			c := token.TextContainer{Type: token.MultilineComment, Tokens: asText(prims[i+1 : end]), Terminated: ok}
			if !ok {
				s.log.Warn("unterminated multiline comment", "line", line)
				i = end
			} else {
				i = end + 1
			}
			line += countNewLines(c.Tokens)
			out = append(out, c)

		default:
			out = append(out, t)
			i++
		}
	}
	return out
}

// findQuoteEnd returns the index of the closing quote, or the index of the
// next newline (or end of input) and false when the literal is unterminated.
func findQuoteEnd(prims []token.Token, from int, quote string) (int, bool) {
	for j := from; j < len(prims); j++ {
		t := prims[j]
		if t == token.NewLine {
			return j, false
		}
		if t.Literal() == quote && !escaped(prims, from, j) {
			return j, true
		}
	}
	return len(prims), false
}

func isTextBlockOpen(prims []token.Token, i int) bool {
	return i+2 < len(prims) &&
		prims[i] == token.Quote && prims[i+1] == token.Quote && prims[i+2] == token.Quote
}

// findTextBlockEnd returns the index of the first unescaped `"""` at or
// after from.
func findTextBlockEnd(prims []token.Token, from int) (int, bool) {
	for j := from; j+2 < len(prims); j++ {
		if isTextBlockOpen(prims, j) && !escaped(prims, from, j) {
			return j, true
		}
	}
	return len(prims), false
}

// escaped reports whether prims[j] is preceded by an odd run of backslashes
// that starts no earlier than from.
func escaped(prims []token.Token, from, j int) bool {
	n := 0
	for k := j - 1; k >= from && prims[k] == token.Backslash; k-- {
		n++
	}
	return n%2 == 1
}

// asText copies the inner tokens of a container. Keywords become ordinary
// words inside prose and string content.
func asText(inner []token.Token) []token.Token {
	out := make([]token.Token, len(inner))
	for i, t := range inner {
		if l, ok := t.(token.Literal); ok && IsKeyword(l.Text) {
			out[i] = token.FullWord{Word: token.NewWord(l.Text)}
			continue
		}
		out[i] = t
	}
	return out
}

func countNewLines(tokens []token.Token) int {
	n := 0
	for _, t := range tokens {
		if t == token.NewLine {
			n++
		}
	}
	return n
}
