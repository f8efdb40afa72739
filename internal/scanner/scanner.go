// Package scanner turns Java source lines into a lossless token stream.
//
// Scanning runs in two stages. The primitive stage splits each line into
// leaves (numbers, words, keywords, delimiters, whitespace), preferring
// two-character delimiters over single characters. The carving stage walks
// the primitives left to right and folds string literals, char literals and
// comments into text containers. Unterminated constructs are logged and kept
// as best-effort containers; scanning never fails.
package scanner

import (
	"strings"
	"unicode/utf8"

	"github.com/samcharles93/codeprep/internal/logger"
	"github.com/samcharles93/codeprep/internal/token"
)

type Scanner struct {
	log logger.Logger
}

func New(log logger.Logger) *Scanner {
	return &Scanner{log: logger.OrDiscard(log)}
}

// ScanText scans a whole file. Splitting on "\n" and re-joining with NewLine
// tokens keeps the literal rendering identical to text.
func (s *Scanner) ScanText(text string) []token.Token {
	return s.Scan(strings.Split(text, "\n"))
}

// Scan scans lines, inserting one NewLine token between consecutive lines.
func (s *Scanner) Scan(lines []string) []token.Token {
	var prims []token.Token
	var prev token.Token
	for i, line := range lines {
		if i > 0 {
			prims = append(prims, token.NewLine)
		}
		prims = appendLine(prims, line, &prev)
	}
	return s.carve(prims)
}

// appendLine splits one line into primitive tokens. prev tracks the last
// non-whitespace primitive across lines to decide whether a leading +/- is a
// sign.
func appendLine(out []token.Token, line string, prev *token.Token) []token.Token {
	emit := func(t token.Token) {
		out = append(out, t)
		if !token.IsWhitespace(t) {
			*prev = t
		}
	}

	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		switch {
		case r == ' ':
			emit(token.Space)
			i++
			continue
		case r == '\t':
			emit(token.Tab)
			i++
			continue
		case r == '\r':
			emit(token.CarriageReturn)
			i++
			continue
		}

		if startsNumber(line, i, *prev) {
			if m := numberRe.FindString(line[i:]); m != "" {
				next, _ := utf8.DecodeRuneInString(line[i+len(m):])
				if i+len(m) == len(line) || !isIdentRune(next) {
					emit(decomposeNumber(m))
					i += len(m)
					continue
				}
			}
		}

		if isIdentRune(r) {
			j := i + size
			for j < len(line) {
				rr, sz := utf8.DecodeRuneInString(line[j:])
				if !isIdentRune(rr) {
					break
				}
				j += sz
			}
			word := line[i:j]
			if IsKeyword(word) {
				emit(token.Literal{Text: word})
			} else {
				emit(token.FullWord{Word: token.NewWord(word)})
			}
			i = j
			continue
		}

		if i+2 <= len(line) {
			pair := line[i : i+2]
			if _, ok := twoCharDelimiters[pair]; ok {
				switch pair {
				case "//":
					emit(token.OneLineCommentStart)
				case "/*":
					emit(token.MultilineCommentStart)
				case "*/":
					emit(token.MultilineCommentEnd)
				default:
					emit(token.Literal{Text: pair})
				}
				i += 2
				continue
			}
		}

		switch r {
		case '"':
			emit(token.Quote)
		case '\\':
			emit(token.Backslash)
		default:
			emit(token.Literal{Text: line[i : i+size]})
		}
		i += size
	}
	return out
}

// startsNumber reports whether a numeric literal may begin at line[i]. A
// sign is only taken when the previous token cannot end an operand.
func startsNumber(line string, i int, prev token.Token) bool {
	c := line[i]
	switch {
	case isDigit(c):
		return true
	case c == '.':
		return i+1 < len(line) && isDigit(line[i+1])
	case c == '+' || c == '-':
		if !signAllowed(prev) || i+1 >= len(line) {
			return false
		}
		n := line[i+1]
		return isDigit(n) || (n == '.' && i+2 < len(line) && isDigit(line[i+2]))
	default:
		return false
	}
}

func signAllowed(prev token.Token) bool {
	switch p := prev.(type) {
	case nil:
		return true
	case token.Literal:
		if _, ok := valueKeywords[p.Text]; ok {
			return false
		}
		switch p.Text {
		case ")", "]", "}", "++", "--", "'":
			return false
		}
		return true
	case token.SpecialChar:
		return p != token.Quote
	default:
		return false
	}
}

func decomposeNumber(m string) token.Number {
	var parts []token.NumberPart
	add := func(kind token.NumberPartKind, text string) {
		if text != "" {
			parts = append(parts, token.NumberPart{Kind: kind, Text: text})
		}
	}
	digitsEnd := func(s string, hex bool) int {
		j := 0
		for j < len(s) {
			c := s[j]
			if isDigit(c) || c == '_' || (hex && strings.IndexByte("abcdefABCDEF", c) >= 0) {
				j++
				continue
			}
			break
		}
		return j
	}

	rest := m
	if rest[0] == '+' || rest[0] == '-' {
		add(token.PartSign, rest[:1])
		rest = rest[1:]
	}
	if len(rest) > 1 && rest[0] == '0' && (rest[1] == 'x' || rest[1] == 'X') {
		add(token.PartHexStart, rest[:2])
		rest = rest[2:]
		j := digitsEnd(rest, true)
		add(token.PartDigits, rest[:j])
		add(token.PartSuffix, rest[j:])
		return token.Number{Parts: parts}
	}

	j := digitsEnd(rest, false)
	add(token.PartDigits, rest[:j])
	rest = rest[j:]
	if strings.HasPrefix(rest, ".") {
		add(token.PartDecimalPoint, ".")
		rest = rest[1:]
		j = digitsEnd(rest, false)
		add(token.PartDigits, rest[:j])
		rest = rest[j:]
	}
	if rest != "" && (rest[0] == 'e' || rest[0] == 'E') {
		add(token.PartExponent, rest[:1])
		rest = rest[1:]
		if rest != "" && (rest[0] == '+' || rest[0] == '-') {
			add(token.PartExponentSign, rest[:1])
			rest = rest[1:]
		}
		j = digitsEnd(rest, false)
		add(token.PartDigits, rest[:j])
		rest = rest[j:]
	}
	add(token.PartSuffix, rest)
	return token.Number{Parts: parts}
}
