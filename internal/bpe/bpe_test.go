package bpe

import (
	"bytes"
	"context"
	"errors"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

var corpus = map[string]int{
	"low":     5,
	"lower":   2,
	"newest":  6,
	"widest":  3,
	"aaaa":    3,
	"aaa":     2,
	"abab":    4,
	"banana":  5,
	"bananas": 1,
	"aabaab":  2,
	"zz":      1,
}

// rescan recounts every adjacent pair from scratch.
func (tr *trainer) rescan() map[Pair]int {
	counts := make(map[Pair]int)
	for i, sym := range tr.words {
		for j := 0; j+1 < len(sym); j++ {
			counts[Pair{A: sym[j], B: sym[j+1]}] += tr.freqs[i]
		}
	}
	return counts
}

func TestIncrementalCountsMatchRescan(t *testing.T) {
	t.Parallel()

	tr := newTrainer(corpus)
	for step := 0; ; step++ {
		want := tr.rescan()
		if !maps.Equal(tr.counts, want) {
			t.Fatalf("step %d: incremental counts diverged\n got: %v\nwant: %v", step, tr.counts, want)
		}
		for p, c := range tr.counts {
			if e := tr.live[p]; e == nil || e.count != c {
				t.Fatalf("step %d: live entry for %v out of date", step, p)
			}
		}
		if _, _, ok := tr.step(1); !ok {
			break
		}
		if step > 200 {
			t.Fatal("training did not terminate")
		}
	}
}

func TestTrainFirstMerges(t *testing.T) {
	t.Parallel()

	words := map[string]int{"low": 5, "lower": 2, "newest": 6, "widest": 3}
	res, err := Train(context.Background(), words, Options{NumMerges: 3})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	want := []Pair{{"e", "s"}, {"es", "t"}, {"l", "o"}}
	if !slices.Equal(res.Merges, want) {
		t.Fatalf("got merges %v, want %v", res.Merges, want)
	}
	if got := res.Cache["widest"]; !slices.Equal(got, []string{"w", "i", "d", "est"}) {
		t.Fatalf("got cache entry %v", got)
	}
}

func TestTrainDeterministic(t *testing.T) {
	t.Parallel()

	a, err := Train(context.Background(), corpus, Options{NumMerges: 20})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Train(context.Background(), maps.Clone(corpus), Options{NumMerges: 20})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(a.Merges, b.Merges) {
		t.Fatalf("merges differ:\n%v\n%v", a.Merges, b.Merges)
	}
}

func TestTrainCacheMatchesEncode(t *testing.T) {
	t.Parallel()

	res, err := Train(context.Background(), corpus, Options{NumMerges: 15})
	if err != nil {
		t.Fatal(err)
	}
	table := NewMergeTable(res.Merges)
	for word, split := range res.Cache {
		if strings.Join(split, "") != word {
			t.Fatalf("cache split %v does not rebuild %q", split, word)
		}
		if got := table.Encode(word); !slices.Equal(got, split) {
			t.Errorf("Encode(%q) = %v, cache has %v", word, got, split)
		}
	}
}

func TestTrainMinFrequency(t *testing.T) {
	t.Parallel()

	res, err := Train(context.Background(), map[string]int{"ab": 1}, Options{NumMerges: 5, MinFrequency: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Merges) != 0 {
		t.Fatalf("got %d merges, want none", len(res.Merges))
	}
}

func TestTrainRunsOut(t *testing.T) {
	t.Parallel()

	res, err := Train(context.Background(), map[string]int{"aaaa": 1}, Options{NumMerges: 10})
	if err != nil {
		t.Fatal(err)
	}
	want := []Pair{{"a", "a"}, {"aa", "aa"}}
	if !slices.Equal(res.Merges, want) {
		t.Fatalf("got %v, want %v", res.Merges, want)
	}
	if got := res.Cache["aaaa"]; !slices.Equal(got, []string{"aaaa"}) {
		t.Fatalf("got cache %v", got)
	}
}

func TestTrainCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Train(ctx, corpus, Options{NumMerges: 5}); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if _, err := Train(context.Background(), corpus, Options{NumMerges: -1}); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("got %v, want ErrInvalidOptions", err)
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	table := NewMergeTable([]Pair{{"l", "o"}, {"lo", "w"}, {"e", "r"}})
	tests := []struct {
		word string
		want []string
	}{
		{"lower", []string{"low", "er"}},
		{"slow", []string{"s", "low"}},
		{"xyz", []string{"x", "y", "z"}},
		{"", []string{}},
	}
	for _, tc := range tests {
		if got := table.Encode(tc.word); !slices.Equal(got, tc.want) {
			t.Errorf("Encode(%q) = %v, want %v", tc.word, got, tc.want)
		}
	}

	var empty *MergeTable
	if got := empty.Encode("abc"); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("nil table: got %v", got)
	}
}

func TestEncodeLowestRankFirst(t *testing.T) {
	t.Parallel()

	// "b c" outranks "a b", so "abc" must become a + bc even though "a b"
	// appears first in the word.
	table := NewMergeTable([]Pair{{"b", "c"}, {"a", "b"}})
	if got := table.Encode("abc"); !slices.Equal(got, []string{"a", "bc"}) {
		t.Fatalf("got %v", got)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	table := NewMergeTable([]Pair{{"a", "b"}, {"c", "d"}, {"e", "f"}})
	if got := table.Truncate(2).Len(); got != 2 {
		t.Fatalf("got %d", got)
	}
	if table.Truncate(10) != table {
		t.Fatal("truncating past the end should return the table")
	}
	if _, ok := table.Truncate(1).Rank(Pair{"c", "d"}); ok {
		t.Fatal("truncated table should not rank dropped pairs")
	}
}

func TestMergeFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "merges.txt")
	merges := []Pair{{"e", "s"}, {"es", "t"}, {"l", "o"}}
	if err := SaveMerges(path, merges); err != nil {
		t.Fatal(err)
	}
	table, err := LoadMerges(path)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(table.Pairs(), merges) {
		t.Fatalf("got %v", table.Pairs())
	}
	if r, ok := table.Rank(Pair{"es", "t"}); !ok || r != 1 {
		t.Fatalf("got rank %d %v", r, ok)
	}
}

func TestReadMergesMalformed(t *testing.T) {
	t.Parallel()

	_, err := ReadMerges(strings.NewReader("a b\nabc\n"))
	if !errors.Is(err, ErrMalformedMerge) {
		t.Fatalf("got %v, want ErrMalformedMerge", err)
	}

	table, err := ReadMerges(strings.NewReader("#version: 0.2\na b\n\n"))
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 1 {
		t.Fatalf("got %d merges, want 1", table.Len())
	}
}

func TestCacheFile(t *testing.T) {
	t.Parallel()

	cache := map[string][]string{
		"lowest": {"low", "est"},
		"a|b":    {"a|", "b"},
		"x":      {"x"},
	}
	var buf bytes.Buffer
	if err := WriteCache(&buf, cache); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "a|b|a| b\n") {
		t.Fatalf("unexpected cache layout: %q", buf.String())
	}
	got, err := ReadCache(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !maps.EqualFunc(got, cache, slices.Equal) {
		t.Fatalf("got %v", got)
	}

	if _, err := ReadCache(strings.NewReader("word|wo rt\n")); !errors.Is(err, ErrMalformedCache) {
		t.Fatalf("got %v, want ErrMalformedCache", err)
	}
}
