package split

import (
	"errors"
	"fmt"

	"github.com/samcharles93/codeprep/internal/bpe"
	"github.com/samcharles93/codeprep/internal/token"
)

var (
	ErrInvalidLevel    = errors.New("split: invalid level")
	ErrMissingResource = errors.New("split: missing resource")
)

// Level selects the strategies a Splitter runs.
type Level int

const (
	LevelNone Level = iota
	LevelCamel
	LevelNumbers
	LevelSameCase
	LevelBPE1K
	LevelBPE5K
	LevelBPE10K
	LevelBPE20K
	LevelBPECustom
	LevelChars
)

// IsBPE reports whether the level ends with byte-pair splitting.
func (l Level) IsBPE() bool { return l >= LevelBPE1K && l <= LevelChars }

// MergeCount is the number of merges used by the fixed-size BPE levels, or
// -1 when the whole table applies.
func (l Level) MergeCount() int {
	switch l {
	case LevelBPE1K:
		return 1000
	case LevelBPE5K:
		return 5000
	case LevelBPE10K:
		return 10000
	case LevelBPE20K:
		return 20000
	default:
		return -1
	}
}

// Splitter rewrites every splittable word of a token tree.
type Splitter struct {
	strategies []Strategy
}

// New builds the strategy chain for level. sameCase is required for
// LevelSameCase and merges for the BPE levels other than LevelChars. The
// merge cache seeds the encoder only when the whole table is in use.
func New(level Level, sameCase *SameCase, merges *bpe.MergeTable, mergeCache map[string][]string) (*Splitter, error) {
	if level < LevelNone || level > LevelChars {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	s := &Splitter{}
	if level == LevelNone {
		return s, nil
	}

	s.strategies = append(s.strategies, Underscore{}, CamelCase{})
	if level >= LevelNumbers {
		s.strategies = append(s.strategies, WithNumbers{})
	}

	switch {
	case level == LevelSameCase:
		if sameCase == nil {
			return nil, fmt.Errorf("%w: same-case dictionary", ErrMissingResource)
		}
		s.strategies = append(s.strategies, sameCase)
	case level == LevelChars:
		enc, err := NewBPE(nil, nil, 0)
		if err != nil {
			return nil, err
		}
		s.strategies = append(s.strategies, enc)
	case level.IsBPE():
		if merges.Len() == 0 {
			return nil, fmt.Errorf("%w: merge table", ErrMissingResource)
		}
		table, seed := merges, mergeCache
		if n := level.MergeCount(); n >= 0 {
			table, seed = merges.Truncate(n), nil
		}
		enc, err := NewBPE(table, seed, 0)
		if err != nil {
			return nil, err
		}
		s.strategies = append(s.strategies, enc)
	}
	return s, nil
}

// Rewrite splits words everywhere in the tree, including inside comments
// and strings. Applying it to its own output changes nothing.
func (s *Splitter) Rewrite(tokens []token.Token) ([]token.Token, error) {
	if len(s.strategies) == 0 {
		return tokens, nil
	}
	return token.Rewrite(tokens, func(t token.Token) ([]token.Token, error) {
		return Apply(t, s.strategies...)
	})
}
