package bpe

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

var (
	ErrMalformedMerge = errors.New("bpe: malformed merge line")
	ErrMalformedCache = errors.New("bpe: malformed cache line")
)

// WriteMerges writes one "left right" pair per line; the line number is the
// rank.
func WriteMerges(w io.Writer, merges []Pair) error {
	bw := bufio.NewWriter(w)
	for _, p := range merges {
		if _, err := fmt.Fprintf(bw, "%s %s\n", p.A, p.B); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadMerges parses a merge table. Blank lines and a leading "#version"
// header are skipped.
func ReadMerges(r io.Reader) (*MergeTable, error) {
	var pairs []Pair
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if text == "" || (line == 1 && strings.HasPrefix(text, "#version")) {
			continue
		}
		fields := strings.Split(text, " ")
		if len(fields) != 2 || fields[0] == "" || fields[1] == "" {
			return nil, fmt.Errorf("%w %d: %q", ErrMalformedMerge, line, text)
		}
		pairs = append(pairs, Pair{A: fields[0], B: fields[1]})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return NewMergeTable(pairs), nil
}

// WriteCache writes "word|s1 s2 ..." lines sorted by word.
func WriteCache(w io.Writer, cache map[string][]string) error {
	words := make([]string, 0, len(cache))
	for word := range cache {
		words = append(words, word)
	}
	slices.Sort(words)

	bw := bufio.NewWriter(w)
	for _, word := range words {
		if _, err := fmt.Fprintf(bw, "%s|%s\n", word, strings.Join(cache[word], " ")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadCache parses a merge cache. Words may contain '|', so each separator
// candidate is tried until the subwords concatenate back to the word.
func ReadCache(r io.Reader) (map[string][]string, error) {
	cache := make(map[string][]string)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if text == "" {
			continue
		}
		word, parts, ok := parseCacheLine(text)
		if !ok {
			return nil, fmt.Errorf("%w %d: %q", ErrMalformedCache, line, text)
		}
		cache[word] = parts
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return cache, nil
}

func parseCacheLine(text string) (string, []string, bool) {
	for i := 0; i < len(text); i++ {
		if text[i] != '|' {
			continue
		}
		word, rest := text[:i], text[i+1:]
		if word == "" || rest == "" {
			continue
		}
		parts := strings.Split(rest, " ")
		if strings.Join(parts, "") == word {
			return word, parts, true
		}
	}
	return "", nil, false
}

func LoadMerges(path string) (*MergeTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open merges: %w", err)
	}
	defer f.Close()
	t, err := ReadMerges(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func SaveMerges(path string, merges []Pair) error {
	return writeFile(path, func(w io.Writer) error { return WriteMerges(w, merges) })
}

func LoadCache(path string) (map[string][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open merge cache: %w", err)
	}
	defer f.Close()
	c, err := ReadCache(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func SaveCache(path string, cache map[string][]string) error {
	return writeFile(path, func(w io.Writer) error { return WriteCache(w, cache) })
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
