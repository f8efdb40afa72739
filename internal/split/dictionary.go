package split

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Dictionary maps lowercase words to corpus frequencies.
type Dictionary struct {
	freq   map[string]int
	avgLen float64
}

// NewDictionary builds a dictionary from a frequency table.
func NewDictionary(freq map[string]int) *Dictionary {
	d := &Dictionary{freq: make(map[string]int, len(freq))}
	total := 0
	for w, f := range freq {
		w = strings.ToLower(w)
		d.freq[w] += f
	}
	for w := range d.freq {
		total += utf8.RuneCountInString(w)
	}
	if len(d.freq) > 0 {
		d.avgLen = float64(total) / float64(len(d.freq))
	}
	return d
}

// ReadDictionary parses "word count" lines. A line holding only a word
// counts once.
func ReadDictionary(r io.Reader) (*Dictionary, error) {
	freq := make(map[string]int)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		switch len(fields) {
		case 0:
			continue
		case 1:
			freq[fields[0]]++
		default:
			n, err := strconv.Atoi(fields[len(fields)-1])
			if err != nil {
				return nil, fmt.Errorf("dictionary line %d: %w", line, err)
			}
			freq[fields[0]] += n
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return NewDictionary(freq), nil
}

func LoadDictionary(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()
	return ReadDictionary(f)
}

// Freq returns the frequency of w and whether it is a dictionary word.
func (d *Dictionary) Freq(w string) (int, bool) {
	f, ok := d.freq[w]
	return f, ok
}

func (d *Dictionary) Len() int { return len(d.freq) }

// AvgLen is the mean word length in runes.
func (d *Dictionary) AvgLen() float64 { return d.avgLen }
