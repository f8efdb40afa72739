// Package bpe learns and applies byte-pair merge tables.
//
// Training keeps adjacent pair counts incrementally. Each merge rewrites only
// the words that contain the pair (found through a pair to word index) and
// adjusts counts only for pairs touching a merge site. The best pair is taken
// from a max-heap with lazy invalidation.
package bpe

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"golang.org/x/time/rate"

	"github.com/samcharles93/codeprep/internal/logger"
)

var ErrInvalidOptions = errors.New("bpe: invalid training options")

type Options struct {
	// NumMerges is the number of merges to learn.
	NumMerges int
	// MinFrequency stops training once the best pair occurs fewer times.
	// Values below 1 are treated as 1.
	MinFrequency int
	// ProgressEvery throttles progress logging. Zero uses 10 seconds.
	ProgressEvery time.Duration
	Log           logger.Logger
}

type Result struct {
	Merges []Pair
	// Cache maps every training word to its final split.
	Cache map[string][]string
}

// Train learns up to opts.NumMerges merges from a word frequency table.
func Train(ctx context.Context, words map[string]int, opts Options) (*Result, error) {
	if opts.NumMerges < 0 {
		return nil, fmt.Errorf("%w: negative merge count %d", ErrInvalidOptions, opts.NumMerges)
	}
	if opts.MinFrequency < 1 {
		opts.MinFrequency = 1
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = 10 * time.Second
	}
	log := logger.OrDiscard(opts.Log).With("component", "bpe")

	tr := newTrainer(words)
	progress := rate.Sometimes{Interval: opts.ProgressEvery}
	start := time.Now()

	res := &Result{Merges: make([]Pair, 0, opts.NumMerges)}
	for len(res.Merges) < opts.NumMerges {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, count, ok := tr.step(opts.MinFrequency)
		if !ok {
			log.Info("no mergeable pair left", "merges", len(res.Merges))
			break
		}
		res.Merges = append(res.Merges, p)
		progress.Do(func() {
			log.Info("training",
				"merges", len(res.Merges),
				"of", opts.NumMerges,
				"pair", p.String(),
				"count", count,
				"elapsed", time.Since(start))
		})
	}
	res.Cache = tr.cache()
	log.Info("training done", "merges", len(res.Merges), "words", len(tr.words), "elapsed", time.Since(start))
	return res, nil
}

type trainer struct {
	keys  []string
	words [][]string
	freqs []int

	counts map[Pair]int
	where  map[Pair]map[int]struct{}
	live   map[Pair]*entry
	queue  pairHeap
}

func newTrainer(words map[string]int) *trainer {
	keys := make([]string, 0, len(words))
	for w, f := range words {
		if w != "" && f > 0 {
			keys = append(keys, w)
		}
	}
	slices.Sort(keys)

	tr := &trainer{
		keys:   keys,
		words:  make([][]string, len(keys)),
		freqs:  make([]int, len(keys)),
		counts: make(map[Pair]int),
		where:  make(map[Pair]map[int]struct{}),
		live:   make(map[Pair]*entry),
	}
	for i, k := range keys {
		tr.words[i] = splitRunes(k)
		tr.freqs[i] = words[k]
		sym := tr.words[i]
		for j := 0; j+1 < len(sym); j++ {
			tr.add(Pair{A: sym[j], B: sym[j+1]}, i, tr.freqs[i])
		}
	}
	for p, c := range tr.counts {
		tr.live[p] = &entry{pair: p, count: c}
		tr.queue = append(tr.queue, tr.live[p])
	}
	heap.Init(&tr.queue)
	return tr
}

func (tr *trainer) add(p Pair, word, delta int) {
	tr.counts[p] += delta
	if delta > 0 {
		set := tr.where[p]
		if set == nil {
			set = make(map[int]struct{})
			tr.where[p] = set
		}
		set[word] = struct{}{}
	}
}

// best pops stale entries until a live one is on top.
func (tr *trainer) best() (*entry, bool) {
	for tr.queue.Len() > 0 {
		e := heap.Pop(&tr.queue).(*entry)
		if tr.live[e.pair] == e {
			return e, true
		}
	}
	return nil, false
}

// step performs one merge and reports the merged pair and its count.
func (tr *trainer) step(minFreq int) (Pair, int, bool) {
	e, ok := tr.best()
	if !ok || e.count < minFreq {
		return Pair{}, 0, false
	}
	pair := e.pair
	delete(tr.live, pair)

	touched := make(map[Pair]struct{})
	ids := make([]int, 0, len(tr.where[pair]))
	for id := range tr.where[pair] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	delete(tr.where, pair)

	for _, id := range ids {
		tr.mergeWord(id, pair, touched)
	}

	for p := range touched {
		c := tr.counts[p]
		if c <= 0 {
			delete(tr.counts, p)
			delete(tr.live, p)
			delete(tr.where, p)
			continue
		}
		ne := &entry{pair: p, count: c}
		tr.live[p] = ne
		heap.Push(&tr.queue, ne)
	}
	return pair, e.count, true
}

// mergeWord rewrites one word and applies count deltas for the pairs that
// start one position before, at, or one after each merge site, then adds the
// pairs around each merged symbol.
func (tr *trainer) mergeWord(id int, pair Pair, touched map[Pair]struct{}) {
	old := tr.words[id]
	sites := mergeSites(old, pair)
	if len(sites) == 0 {
		return
	}
	f := tr.freqs[id]

	seen := make(map[int]struct{}, len(sites)*3)
	for _, p := range sites {
		for q := p - 1; q <= p+1; q++ {
			if q < 0 || q+1 >= len(old) {
				continue
			}
			if _, dup := seen[q]; dup {
				continue
			}
			seen[q] = struct{}{}
			op := Pair{A: old[q], B: old[q+1]}
			tr.add(op, id, -f)
			touched[op] = struct{}{}
		}
	}

	merged := mergePair(old, pair)
	clear(seen)
	for k, p := range sites {
		j := p - k
		for q := j - 1; q <= j; q++ {
			if q < 0 || q+1 >= len(merged) {
				continue
			}
			if _, dup := seen[q]; dup {
				continue
			}
			seen[q] = struct{}{}
			np := Pair{A: merged[q], B: merged[q+1]}
			tr.add(np, id, f)
			touched[np] = struct{}{}
		}
	}
	tr.words[id] = merged
}

func (tr *trainer) cache() map[string][]string {
	out := make(map[string][]string, len(tr.keys))
	for i, k := range tr.keys {
		out[k] = slices.Clone(tr.words[i])
	}
	return out
}
