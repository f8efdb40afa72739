// Package split decomposes identifiers into subwords.
//
// Strategies run in a fixed order (underscore, camel case, numbers, then one
// of dictionary same-case or byte-pair). Each strategy is applied to every
// part the previous ones produced and the results are flattened into one
// SplitContainer. Subwords carry the separators in their prefixes, so the
// container's literal is the plain concatenation of its children.
package split

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samcharles93/codeprep/internal/token"
)

var (
	// ErrNoPartitions means a word produced no scorable partition. The
	// identity partition always exists, so this is a broken invariant.
	ErrNoPartitions = errors.New("split: no valid partition")
	// ErrBrokenSplit means a strategy returned parts that do not rebuild
	// the word.
	ErrBrokenSplit = errors.New("split: parts do not rebuild word")
)

// Strategy splits one word. It returns nil when it finds no split point.
type Strategy interface {
	Name() string
	// Kind is the container kind recorded when this strategy splits first.
	Kind() token.SplitKind
	Split(w token.Word) ([]token.Word, error)
}

// fragmenting strategies produce subwords that are never split again.
func fragmenting(s Strategy) bool {
	return s.Kind() == token.SameCaseSplit
}

type part struct {
	word     token.Word
	fragment bool
}

// Apply runs strategies over a FullWord or non-fragment SubWord. It returns
// the token unchanged when nothing splits it. A FullWord becomes a
// SplitContainer; a SubWord becomes a run of SubWords so containers never
// nest.
func Apply(tok token.Token, strategies ...Strategy) ([]token.Token, error) {
	var w token.Word
	switch t := tok.(type) {
	case token.FullWord:
		w = t.Word
	case token.SubWord:
		if t.Fragment {
			return []token.Token{tok}, nil
		}
		w = t.Word
	default:
		return []token.Token{tok}, nil
	}

	parts, kind, err := splitWord(w, strategies)
	if err != nil {
		return nil, err
	}
	if len(parts) < 2 {
		return []token.Token{tok}, nil
	}

	subwords := make([]token.Token, len(parts))
	for i, p := range parts {
		subwords[i] = token.SubWord{Word: p.word, Fragment: p.fragment}
	}
	if _, ok := tok.(token.SubWord); ok {
		return subwords, nil
	}
	return []token.Token{token.NewSplitContainer(kind, subwords)}, nil
}

func splitWord(w token.Word, strategies []Strategy) ([]part, token.SplitKind, error) {
	parts := []part{{word: w}}
	var kind token.SplitKind
	split := false
	for _, s := range strategies {
		next := make([]part, 0, len(parts))
		for _, p := range parts {
			if p.fragment {
				next = append(next, p)
				continue
			}
			res, err := s.Split(p.word)
			if err != nil {
				return nil, 0, fmt.Errorf("%s split %q: %w", s.Name(), p.word.Text(), err)
			}
			if len(res) < 2 {
				next = append(next, p)
				continue
			}
			if err := checkRebuild(p.word, res); err != nil {
				return nil, 0, fmt.Errorf("%s: %w", s.Name(), err)
			}
			if !split {
				kind, split = s.Kind(), true
			}
			for _, r := range res {
				next = append(next, part{word: r, fragment: fragmenting(s)})
			}
		}
		parts = next
	}
	return parts, kind, nil
}

func checkRebuild(w token.Word, parts []token.Word) error {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Text())
	}
	if b.String() != w.Text() {
		return fmt.Errorf("%w: %q from %q", ErrBrokenSplit, b.String(), w.Text())
	}
	return nil
}

// withPrefix rebuilds source pieces of w's body as words, moving w's prefix
// onto the first piece.
func withPrefix(w token.Word, pieces []string) []token.Word {
	out := make([]token.Word, len(pieces))
	for i, p := range pieces {
		if i == 0 {
			p = w.Prefix + p
		}
		out[i] = token.NewWord(p)
	}
	return out
}

// casedPieces builds subwords from pieces of w's canonical form, carrying
// w's capitalization: a leading capital stays on the first piece, all-caps
// spreads to every piece.
func casedPieces(w token.Word, pieces []string) []token.Word {
	out := make([]token.Word, len(pieces))
	for i, p := range pieces {
		var sw token.Word
		switch w.Cap {
		case token.CapUndefined:
			sw = token.NewWord(p)
		case token.CapFirstLetter:
			sw = token.Word{Canonical: p}
			if i == 0 {
				sw.Cap = token.CapFirstLetter
			}
		default:
			sw = token.Word{Canonical: p, Cap: w.Cap}
		}
		if i == 0 {
			sw.Prefix = w.Prefix + sw.Prefix
		}
		out[i] = sw
	}
	return out
}
