// Package recognize finds method bodies and logging calls in a token stream.
//
// Both recognizers are shallow state machines over the scanner's output.
// They never fail a file: when the input does not fit the expected shape the
// tokens are returned unchanged.
package recognize

import (
	"errors"
	"fmt"

	"github.com/samcharles93/codeprep/internal/logger"
	"github.com/samcharles93/codeprep/internal/token"
)

var ErrUnbalancedBraces = errors.New("recognize: unbalanced braces")

type levelKind uint8

const (
	// classLevel is the body of a class, enum or interface.
	classLevel levelKind = iota
	// loggableLevel is code directly inside a class body: methods,
	// initializers and lambdas nested in them.
	loggableLevel
	// plainLevel is a brace pair outside any class.
	plainLevel
)

type level struct {
	kind levelKind
	// depth counts nested braces inside a loggable level.
	depth int
	// start is the output index of the first token after the opening brace.
	start int
}

// Blocks wraps method bodies in token.LoggableBlock.
type Blocks struct {
	log logger.Logger
}

func NewBlocks(log logger.Logger) *Blocks {
	return &Blocks{log: logger.OrDiscard(log)}
}

// Rewrite returns tokens with every loggable span wrapped. Unbalanced braces
// leave the input unchanged and log a warning.
func (b *Blocks) Rewrite(tokens []token.Token) []token.Token {
	out, err := findBlocks(tokens)
	if err != nil {
		b.log.Warn("skipping loggable block detection", "error", err)
		return tokens
	}
	return out
}

func findBlocks(tokens []token.Token) ([]token.Token, error) {
	out := make([]token.Token, 0, len(tokens))
	var stack []level
	waiting := false
	var prev token.Token

	for i, t := range tokens {
		switch {
		case isClassKeyword(t) && !token.IsLiteral(prev, "."):
			waiting = true
			out = append(out, t)

		case token.IsLiteral(t, "{"):
			out = append(out, t)
			switch {
			case waiting:
				stack = append(stack, level{kind: classLevel})
				waiting = false
			case len(stack) == 0:
				stack = append(stack, level{kind: plainLevel})
			default:
				top := &stack[len(stack)-1]
				switch top.kind {
				case classLevel:
					stack = append(stack, level{kind: loggableLevel, start: len(out)})
				case loggableLevel:
					top.depth++
				default:
					stack = append(stack, level{kind: plainLevel})
				}
			}

		case token.IsLiteral(t, "}"):
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: stray } at token %d", ErrUnbalancedBraces, i)
			}
			top := &stack[len(stack)-1]
			if top.kind == loggableLevel {
				if top.depth > 0 {
					top.depth--
					out = append(out, t)
					break
				}
				body := make([]token.Token, len(out)-top.start)
				copy(body, out[top.start:])
				out = append(out[:top.start], token.LoggableBlock{Tokens: body})
			}
			stack = stack[:len(stack)-1]
			out = append(out, t)

		default:
			out = append(out, t)
		}

		if !token.IsWhitespace(t) {
			prev = t
		}
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("%w: %d unclosed levels", ErrUnbalancedBraces, len(stack))
	}
	return out, nil
}

func isClassKeyword(t token.Token) bool {
	return token.IsLiteral(t, "class") || token.IsLiteral(t, "enum") || token.IsLiteral(t, "interface")
}
