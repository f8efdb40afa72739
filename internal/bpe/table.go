package bpe

import "math"

// MergeTable is a ranked list of merges. Lower rank merges first.
type MergeTable struct {
	pairs []Pair
	ranks map[Pair]int
}

// NewMergeTable ranks pairs by position. A pair listed twice keeps its first
// rank.
func NewMergeTable(pairs []Pair) *MergeTable {
	t := &MergeTable{
		pairs: pairs,
		ranks: make(map[Pair]int, len(pairs)),
	}
	for i, p := range pairs {
		if _, ok := t.ranks[p]; !ok {
			t.ranks[p] = i
		}
	}
	return t
}

func (t *MergeTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.pairs)
}

func (t *MergeTable) Pairs() []Pair {
	if t == nil {
		return nil
	}
	return t.pairs
}

func (t *MergeTable) Rank(p Pair) (int, bool) {
	if t == nil {
		return 0, false
	}
	r, ok := t.ranks[p]
	return r, ok
}

// Truncate returns a table holding the first n merges.
func (t *MergeTable) Truncate(n int) *MergeTable {
	if n >= t.Len() {
		return t
	}
	return NewMergeTable(t.pairs[:n])
}

// Encode splits word into runes and repeatedly merges the adjacent pair with
// the lowest rank until no ranked pair remains. A nil or empty table yields
// single characters.
func (t *MergeTable) Encode(word string) []string {
	symbols := splitRunes(word)
	if t.Len() == 0 {
		return symbols
	}
	for len(symbols) > 1 {
		best := Pair{}
		bestRank := math.MaxInt
		for i := 0; i < len(symbols)-1; i++ {
			p := Pair{A: symbols[i], B: symbols[i+1]}
			if r, ok := t.ranks[p]; ok && r < bestRank {
				best, bestRank = p, r
			}
		}
		if bestRank == math.MaxInt {
			break
		}
		symbols = mergePair(symbols, best)
	}
	return symbols
}
