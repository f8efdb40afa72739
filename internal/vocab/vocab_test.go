package vocab

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func mustFromSymbols(t *testing.T, s string) *PartialVocab {
	t.Helper()
	pv, err := FromSymbols(strings.Fields(s))
	if err != nil {
		t.Fatal(err)
	}
	return pv
}

func TestFromSymbols(t *testing.T) {
	t.Parallel()

	pv := mustFromSymbols(t, "<w> get <Cap> value </w> = get ; <non-en> <non-en-content>")
	want := map[string]int64{"get": 2, "<Cap>": 1, "value": 1, "=": 1, ";": 1, "<non-en>": 1, "<non-en-content>": 1}
	if !maps.Equal(pv.Counts, want) {
		t.Fatalf("got %v, want %v", pv.Counts, want)
	}
	if len(pv.Stats) != 1 || pv.Stats[0] != (Snapshot{Files: 1, VocabSize: 7, NonEng: 1, NonEngContent: 1}) {
		t.Fatalf("got stats %+v", pv.Stats)
	}

	for _, bad := range []string{"<w> a <w> b </w> </w>", "a </w>", "<w> a"} {
		if _, err := FromSymbols(strings.Fields(bad)); !errors.Is(err, ErrMalformedBoundaries) {
			t.Fatalf("%q: got %v, want ErrMalformedBoundaries", bad, err)
		}
	}
}

func TestMergeAssociative(t *testing.T) {
	t.Parallel()

	docs := []string{"a b b", "b c", "c c d a", "e"}
	build := func() []*PartialVocab {
		out := make([]*PartialVocab, len(docs))
		for i, d := range docs {
			out[i] = mustFromSymbols(t, d)
		}
		return out
	}

	v := build()
	left := Merge(Merge(Merge(v[0], v[1]), v[2]), v[3])
	v = build()
	right := Merge(v[3], Merge(v[2], Merge(v[1], v[0])))
	v = build()
	paired := Merge(Merge(v[0], v[2]), Merge(v[3], v[1]))

	want := map[string]int64{"a": 2, "b": 3, "c": 3, "d": 1, "e": 1}
	for _, pv := range []*PartialVocab{left, right, paired} {
		if !maps.Equal(pv.Counts, want) {
			t.Fatalf("got %v, want %v", pv.Counts, want)
		}
		if pv.Files != 4 || len(pv.Stats) != 4 {
			t.Fatalf("got files=%d stats=%d", pv.Files, len(pv.Stats))
		}
		if last := pv.Stats[3]; last != pv.Snapshot() {
			t.Fatalf("last snapshot %+v does not describe the vocabulary", last)
		}
	}
	if left.ID == right.ID {
		t.Fatal("merged vocabularies should get fresh ids")
	}
}

func TestMergeConsumesInputs(t *testing.T) {
	t.Parallel()

	a, b := mustFromSymbols(t, "x"), mustFromSymbols(t, "y")
	m := Merge(a, b)
	if a.Counts != nil || b.Counts != nil {
		t.Fatal("inputs should be consumed")
	}
	if m.Stats[0].Files != 1 || m.Stats[1].Files != 2 {
		t.Fatalf("got %+v", m.Stats)
	}
}

func TestFitChunks(t *testing.T) {
	t.Parallel()

	got := FitChunks([]int64{1, 2, 3, 4, 5, 6, 7, 8, 9}, 3, nil)
	want := [][]int{{0, 3, 6}, {1, 4, 7}, {2, 5, 8}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	got = FitChunks([]int64{9, 1, 5}, 2, nil)
	want = [][]int{{1, 0}, {2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pv := mustFromSymbols(t, "a b b <non-en>")
	path := Path(dir, pv.ID)
	if err := Save(path, pv); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path + tmpExt); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("temporary file left behind: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, pv) {
		t.Fatalf("got %+v, want %+v", got, pv)
	}

	bad := filepath.Join(dir, "bad"+Ext)
	if err := os.WriteFile(bad, []byte("not zstd"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("got %v, want ErrCorrupt", err)
	}
}

func TestRecover(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	save := func(pv *PartialVocab, path string) {
		t.Helper()
		if err := Save(path, pv); err != nil {
			t.Fatal(err)
		}
	}

	// A merge whose lineage file was verified but never renamed, with one
	// parent already removed.
	a, b := mustFromSymbols(t, "a"), mustFromSymbols(t, "b")
	aID, bID := a.ID, b.ID
	save(a, Path(dir, aID))
	child := Merge(a, b)
	save(child, lineagePath(dir, aID, bID, child.ID))

	// A merge that died mid-write: unreadable lineage, both parents intact.
	c, d := mustFromSymbols(t, "c"), mustFromSymbols(t, "d")
	save(c, Path(dir, c.ID))
	save(d, Path(dir, d.ID))
	broken := lineagePath(dir, c.ID, d.ID, "deadbeef")
	if err := os.WriteFile(broken, []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "x"+Ext+tmpExt), []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Recover(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	want, err := List(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) || len(got) != 3 {
		t.Fatalf("got %v", got)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 3 {
		t.Fatalf("got %d files after recovery", len(entries))
	}
	for _, id := range []string{child.ID, c.ID, d.ID} {
		if !exists(Path(dir, id)) {
			t.Fatalf("missing %s after recovery", id)
		}
	}
	if exists(Path(dir, aID)) {
		t.Fatal("consumed parent should be removed")
	}

	// Unreadable lineage with a parent gone cannot be undone.
	e := mustFromSymbols(t, "e")
	if err := os.WriteFile(lineagePath(dir, e.ID, "missing", "child"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Recover(dir, nil); !errors.Is(err, ErrBrokenLineage) {
		t.Fatalf("got %v, want ErrBrokenLineage", err)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	sorted := Sorted(map[string]int64{"a": 5, "b": 4, "c": 3, "d": 3, "e": 1})
	tests := []struct {
		limit int
		want  int
	}{
		{0, 5},
		{10, 5},
		{2, 2},
		{3, 2},
		{4, 4},
		{1, 1},
	}
	for _, tc := range tests {
		if got := len(Truncate(sorted, tc.limit)); got != tc.want {
			t.Errorf("limit %d: got %d entries, want %d", tc.limit, got, tc.want)
		}
	}
	if sorted[2].Word != "c" || sorted[3].Word != "d" {
		t.Fatalf("ties should sort by word: %v", sorted)
	}
}

func writeCorpus(t *testing.T, docs []string) []string {
	t.Helper()
	dir := t.TempDir()
	var files []string
	for i, d := range docs {
		path := filepath.Join(dir, fmt.Sprintf("f%02d.prep", i))
		if err := os.WriteFile(path, []byte(d+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		files = append(files, path)
	}
	return files
}

func TestAggregatorOneChunk(t *testing.T) {
	t.Parallel()

	docs := []string{"a", "a b", "b c", "c", "d", "a d", "<w> a </w>"}
	files := writeCorpus(t, docs)
	work := filepath.Join(t.TempDir(), "work")
	out := filepath.Join(t.TempDir(), "out")
	agg := &Aggregator{Workers: 4, Chunks: 1, WorkDir: work, OutDir: out, PartnerTimeout: 5 * time.Second}

	pv, err := agg.Run(context.Background(), files)
	if err != nil {
		t.Fatal(err)
	}
	if len(pv.Stats) != 7 || pv.Files != 7 {
		t.Fatalf("got %d snapshots over %d files, want 7", len(pv.Stats), pv.Files)
	}
	want := map[string]int64{"a": 4, "b": 2, "c": 2, "d": 2}
	if !maps.Equal(pv.Counts, want) {
		t.Fatalf("got %v, want %v", pv.Counts, want)
	}
	if _, err := os.Stat(work); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("work dir should be removed: %v", err)
	}

	entries, err := LoadVocab(filepath.Join(out, VocabFile))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 || entries[0] != (Entry{"a", 4}) || entries[1] != (Entry{"b", 2}) {
		t.Fatalf("got %v", entries)
	}
	stats, err := os.ReadFile(filepath.Join(out, VocabSizeFile))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(stats)), "\n")
	if len(lines) != 8 || lines[0] != "4" || lines[7] != "1.0000 4 0 0" {
		t.Fatalf("got %q", lines)
	}

	if _, err := agg.Run(context.Background(), files); !errors.Is(err, ErrOutputExists) {
		t.Fatalf("got %v, want ErrOutputExists", err)
	}
}

func TestAggregatorChunksAgree(t *testing.T) {
	t.Parallel()

	var docs []string
	for i := range 23 {
		docs = append(docs, strings.Repeat(fmt.Sprintf("w%d ", i%5), i+1))
	}
	files := writeCorpus(t, docs)

	var results []map[string]int64
	for _, chunks := range []int{1, 3, 8} {
		agg := &Aggregator{
			Workers:  3,
			Chunks:   chunks,
			MaxVocab: 2,
			WorkDir:  filepath.Join(t.TempDir(), "work"),
			OutDir:   filepath.Join(t.TempDir(), "out"),
			Shuffle:  chunks == 3,
			Seed:     7,
		}
		pv, err := agg.Run(context.Background(), files)
		if err != nil {
			t.Fatal(err)
		}
		if len(pv.Stats) != len(files) {
			t.Fatalf("chunks=%d: got %d snapshots", chunks, len(pv.Stats))
		}
		results = append(results, pv.Counts)

		trunc, err := LoadVocab(filepath.Join(agg.OutDir, TruncFile))
		if err != nil {
			t.Fatal(err)
		}
		if len(trunc) != 2 {
			t.Fatalf("got %d truncated entries", len(trunc))
		}
	}
	for _, r := range results[1:] {
		if !maps.Equal(r, results[0]) {
			t.Fatalf("chunking changed the result: %v vs %v", r, results[0])
		}
	}
}

func TestAggregatorResume(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	chunk := filepath.Join(work, "chunk-000")
	if err := os.MkdirAll(chunk, 0o755); err != nil {
		t.Fatal(err)
	}
	a, b, c := mustFromSymbols(t, "x y"), mustFromSymbols(t, "y"), mustFromSymbols(t, "z")
	aID, bID := a.ID, b.ID
	for _, pv := range []*PartialVocab{a, b, c} {
		if err := Save(Path(chunk, pv.ID), pv); err != nil {
			t.Fatal(err)
		}
	}
	child := Merge(a, b)
	if err := Save(lineagePath(chunk, aID, bID, child.ID), child); err != nil {
		t.Fatal(err)
	}

	agg := &Aggregator{Workers: 2, WorkDir: work, OutDir: filepath.Join(t.TempDir(), "out"), KeepWork: true}
	if _, err := agg.Run(context.Background(), []string{"unused"}); !errors.Is(err, ErrWorkDirInUse) {
		t.Fatalf("got %v, want ErrWorkDirInUse", err)
	}
	pv, err := agg.Resume(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]int64{"x": 1, "y": 2, "z": 1}
	if !maps.Equal(pv.Counts, want) {
		t.Fatalf("got %v, want %v", pv.Counts, want)
	}
}

func TestAggregatorMalformedInput(t *testing.T) {
	t.Parallel()

	files := writeCorpus(t, []string{"a", "<w> b"})
	agg := &Aggregator{Workers: 2, WorkDir: filepath.Join(t.TempDir(), "w"), OutDir: filepath.Join(t.TempDir(), "o")}
	if _, err := agg.Run(context.Background(), files); !errors.Is(err, ErrMalformedBoundaries) {
		t.Fatalf("got %v, want ErrMalformedBoundaries", err)
	}
}
