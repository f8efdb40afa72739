package vocab

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/samcharles93/codeprep/internal/version"
)

// Artifact file names written to the output directory.
const (
	VocabFile     = "vocab.txt"
	VocabSizeFile = "vocabsize.txt"
	TruncFile     = "vocab.trunc.txt"
	FieldFile     = "field.json"
)

var (
	ErrOutputExists   = errors.New("vocab: output already exists")
	ErrMalformedVocab = errors.New("vocab: malformed vocabulary file")
)

// Entry is one vocabulary line.
type Entry struct {
	Word  string
	Count int64
}

// Sorted orders counts by descending count, then by word.
func Sorted(counts map[string]int64) []Entry {
	out := make([]Entry, 0, len(counts))
	for w, c := range counts {
		out = append(out, Entry{Word: w, Count: c})
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Word, b.Word)
	})
	return out
}

// Truncate keeps at most limit entries of a sorted vocabulary. Entries tied
// with the first one cut off are dropped too. limit <= 0 keeps everything.
func Truncate(sorted []Entry, limit int) []Entry {
	if limit <= 0 || len(sorted) <= limit {
		return sorted
	}
	cutoff := sorted[limit].Count
	n := limit
	for n > 0 && sorted[n-1].Count == cutoff {
		n--
	}
	return sorted[:n]
}

// Field describes the vocabulary a downstream model is built with.
type Field struct {
	Generator string   `json:"generator"`
	Files     int      `json:"files"`
	VocabSize int      `json:"vocab_size"`
	Truncated bool     `json:"truncated"`
	Tokens    []string `json:"tokens"`
}

// checkOutDir fails if a previous run left a vocabulary in dir.
func checkOutDir(dir string) error {
	if _, err := os.Stat(filepath.Join(dir, VocabFile)); err == nil {
		return fmt.Errorf("%w: %s", ErrOutputExists, filepath.Join(dir, VocabFile))
	}
	return os.MkdirAll(dir, 0o755)
}

// WriteArtifacts writes the vocabulary, its growth statistics, and the
// truncated vocabulary with its field description.
func WriteArtifacts(dir string, pv *PartialVocab, maxVocab int) error {
	if err := checkOutDir(dir); err != nil {
		return err
	}
	sorted := Sorted(pv.Counts)
	trunc := Truncate(sorted, maxVocab)

	if err := create(filepath.Join(dir, VocabFile), func(w io.Writer) error {
		return WriteVocab(w, sorted)
	}); err != nil {
		return err
	}
	if err := create(filepath.Join(dir, VocabSizeFile), func(w io.Writer) error {
		return writeStats(w, pv)
	}); err != nil {
		return err
	}
	if err := create(filepath.Join(dir, TruncFile), func(w io.Writer) error {
		return WriteVocab(w, trunc)
	}); err != nil {
		return err
	}

	field := Field{
		Generator: version.Generator(),
		Files:     pv.Files,
		VocabSize: len(trunc),
		Truncated: len(trunc) < len(sorted),
		Tokens:    make([]string, len(trunc)),
	}
	for i, e := range trunc {
		field.Tokens[i] = e.Word
	}
	return create(filepath.Join(dir, FieldFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(field)
	})
}

func create(path string, write func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrOutputExists, path)
		}
		return err
	}
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteVocab writes "word count" lines.
func WriteVocab(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s %d\n", e.Word, e.Count); err != nil {
			return err
		}
	}
	return nil
}

func writeStats(w io.Writer, pv *PartialVocab) error {
	if _, err := fmt.Fprintf(w, "%d\n", len(pv.Counts)); err != nil {
		return err
	}
	total := float64(max(pv.Files, 1))
	for _, s := range pv.Stats {
		if _, err := fmt.Fprintf(w, "%.4f %d %d %d\n", float64(s.Files)/total, s.VocabSize, s.NonEng, s.NonEngContent); err != nil {
			return err
		}
	}
	return nil
}

// ReadVocab parses a file written by WriteVocab.
func ReadVocab(r io.Reader) ([]Entry, error) {
	var out []Entry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedVocab, line, text)
		}
		n, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: line %d: bad count %q", ErrMalformedVocab, line, fields[1])
		}
		out = append(out, Entry{Word: fields[0], Count: n})
	}
	return out, sc.Err()
}

// LoadVocab reads a vocabulary file.
func LoadVocab(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadVocab(f)
}
