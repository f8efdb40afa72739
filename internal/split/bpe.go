package split

import (
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/samcharles93/codeprep/internal/bpe"
	"github.com/samcharles93/codeprep/internal/token"
)

const defaultEncodeCacheSize = 1 << 16

// BPE splits words with a merge table. Encodings are cached; entries from
// a merge cache file are loaded up front. BPE is safe for concurrent use.
type BPE struct {
	table *bpe.MergeTable
	cache *lru.Cache
}

// NewBPE builds a byte-pair strategy. A nil or empty table splits words into
// single characters. Seed entries whose subwords do not rebuild the word are
// skipped.
func NewBPE(table *bpe.MergeTable, seed map[string][]string, cacheSize int) (*BPE, error) {
	if cacheSize <= 0 {
		cacheSize = max(defaultEncodeCacheSize, len(seed))
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	for word, pieces := range seed {
		if strings.Join(pieces, "") == word {
			cache.Add(word, slices.Clone(pieces))
		}
	}
	return &BPE{table: table, cache: cache}, nil
}

func (*BPE) Name() string          { return "bpe" }
func (*BPE) Kind() token.SplitKind { return token.SameCaseSplit }

// Encode returns the subwords of s.
func (b *BPE) Encode(s string) []string {
	if v, ok := b.cache.Get(s); ok {
		return v.([]string)
	}
	pieces := b.table.Encode(s)
	b.cache.Add(s, pieces)
	return pieces
}

func (b *BPE) Split(w token.Word) ([]token.Word, error) {
	if w.Canonical == "" {
		return nil, nil
	}
	pieces := b.Encode(w.Canonical)
	if len(pieces) < 2 {
		return nil, nil
	}
	return casedPieces(w, pieces), nil
}
