// Package vocab counts symbols across a corpus by merging per-file partial
// vocabularies in a tree.
package vocab

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/samcharles93/codeprep/internal/corpus"
	"github.com/samcharles93/codeprep/internal/token"
)

// ErrMalformedBoundaries reports a <w> without its </w> or the reverse.
var ErrMalformedBoundaries = errors.New("vocab: malformed word boundaries")

// Snapshot records the state of a vocabulary after some number of files.
type Snapshot struct {
	Files         int   `json:"files"`
	VocabSize     int   `json:"vocab_size"`
	NonEng        int64 `json:"non_eng"`
	NonEngContent int64 `json:"non_eng_content"`
}

// PartialVocab counts the symbols of a subset of the corpus. Stats holds one
// snapshot per leaf vocabulary merged into it; the last one describes the
// vocabulary itself.
type PartialVocab struct {
	ID     string           `json:"id"`
	Counts map[string]int64 `json:"counts"`
	Files  int              `json:"files"`
	Stats  []Snapshot       `json:"stats"`
}

// FromSymbols counts one file's symbols. Word boundary markers are checked
// for balance and not counted.
func FromSymbols(symbols []string) (*PartialVocab, error) {
	b := newBuilder()
	for _, s := range symbols {
		if err := b.add(s); err != nil {
			return nil, err
		}
	}
	return b.finish()
}

// FromFile counts the whitespace-separated symbols of a rendered file.
func FromFile(path string) (*PartialVocab, error) {
	b := newBuilder()
	var bad error
	err := corpus.EachField(path, func(s string) {
		if bad == nil {
			bad = b.add(s)
		}
	})
	if err != nil {
		return nil, err
	}
	if bad != nil {
		return nil, fmt.Errorf("%s: %w", path, bad)
	}
	return b.finish()
}

type builder struct {
	counts map[string]int64
	inWord bool
}

func newBuilder() *builder {
	return &builder{counts: make(map[string]int64)}
}

func (b *builder) add(s string) error {
	switch s {
	case token.WordStart:
		if b.inWord {
			return fmt.Errorf("%w: nested %s", ErrMalformedBoundaries, token.WordStart)
		}
		b.inWord = true
	case token.WordEnd:
		if !b.inWord {
			return fmt.Errorf("%w: stray %s", ErrMalformedBoundaries, token.WordEnd)
		}
		b.inWord = false
	default:
		b.counts[s]++
	}
	return nil
}

func (b *builder) finish() (*PartialVocab, error) {
	if b.inWord {
		return nil, fmt.Errorf("%w: unclosed %s", ErrMalformedBoundaries, token.WordStart)
	}
	pv := &PartialVocab{ID: uuid.NewString(), Counts: b.counts, Files: 1}
	pv.Stats = []Snapshot{pv.Snapshot()}
	return pv, nil
}

// Snapshot describes the vocabulary as it is now.
func (pv *PartialVocab) Snapshot() Snapshot {
	return Snapshot{
		Files:         pv.Files,
		VocabSize:     len(pv.Counts),
		NonEng:        pv.Counts[token.NonEngWord],
		NonEngContent: pv.Counts[token.NonEngContent],
	}
}

// Merge sums the counts of a and b into a new vocabulary with a fresh id.
// Both inputs are consumed and must not be used afterwards.
//
// The history is a's followed by b's with b's file counts shifted by a's,
// and the final entry replaced by the merged snapshot, so a vocabulary
// built from n files always carries n snapshots.
func Merge(a, b *PartialVocab) *PartialVocab {
	dst, src := a.Counts, b.Counts
	if len(dst) < len(src) {
		dst, src = src, dst
	}
	for w, c := range src {
		dst[w] += c
	}

	out := &PartialVocab{
		ID:     uuid.NewString(),
		Counts: dst,
		Files:  a.Files + b.Files,
		Stats:  make([]Snapshot, 0, len(a.Stats)+len(b.Stats)),
	}
	out.Stats = append(out.Stats, a.Stats...)
	for _, s := range b.Stats {
		s.Files += a.Files
		out.Stats = append(out.Stats, s)
	}
	if n := len(out.Stats); n > 0 {
		out.Stats[n-1] = out.Snapshot()
	} else {
		out.Stats = append(out.Stats, out.Snapshot())
	}

	a.Counts, b.Counts = nil, nil
	a.Stats, b.Stats = nil, nil
	return out
}
