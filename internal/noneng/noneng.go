// Package noneng marks words, subwords and comment or string contents that
// are not English.
package noneng

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/samcharles93/codeprep/internal/logger"
	"github.com/samcharles93/codeprep/internal/token"
)

const (
	// A container is wrapped whole when more than contentRatio of its words
	// are non-English and at least contentMinWords of them are.
	contentRatio    = 0.2
	contentMinWords = 4
)

// Dictionary is a case-folded set of known non-English words.
type Dictionary struct {
	words map[string]struct{}
}

func NewDictionary(words []string) *Dictionary {
	d := &Dictionary{words: make(map[string]struct{}, len(words))}
	fold := cases.Fold()
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			d.words[fold.String(w)] = struct{}{}
		}
	}
	return d
}

// ReadDictionary reads one word per line.
func ReadDictionary(r io.Reader) (*Dictionary, error) {
	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		words = append(words, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return NewDictionary(words), nil
}

func LoadDictionary(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open non-English dictionary: %w", err)
	}
	defer f.Close()
	return ReadDictionary(f)
}

// Contains reports whether w, case-folded, is in the dictionary.
func (d *Dictionary) Contains(w string) bool {
	if d == nil {
		return false
	}
	_, ok := d.words[cases.Fold().String(w)]
	return ok
}

func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.words)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// Marker wraps non-English tokens in token.NonEng. It holds no mutable
// state and may be shared between goroutines.
type Marker struct {
	dict *Dictionary
	log  logger.Logger
}

// NewMarker builds a marker. A nil dictionary leaves only the ASCII test.
func NewMarker(dict *Dictionary, log logger.Logger) *Marker {
	return &Marker{dict: dict, log: logger.OrDiscard(log)}
}

// IsNonEng reports whether s is non-English: any non-ASCII text is, and
// ASCII text is when the dictionary lists it.
func (m *Marker) IsNonEng(s string) bool {
	if s == "" {
		return false
	}
	return !isASCII(s) || m.dict.Contains(s)
}

// Mark rewrites tokens bottom-up. Words are wrapped individually; a comment
// or string whose words are mostly non-English is wrapped as a whole.
func (m *Marker) Mark(tokens []token.Token) ([]token.Token, error) {
	return token.Rewrite(tokens, m.mark)
}

func (m *Marker) mark(t token.Token) ([]token.Token, error) {
	switch v := t.(type) {
	case token.FullWord, token.SubWord:
		w, _ := token.WordOf(v)
		if m.IsNonEng(w.Body()) {
			return []token.Token{token.NonEng{Wrapped: t}}, nil
		}
	case token.TextContainer:
		v.WordCount, v.NonEngCount = countWords(v.Tokens)
		if v.NonEngRatio() > contentRatio && v.NonEngCount >= contentMinWords {
			v.Tokens = unwrap(v.Tokens)
			m.log.Debug("non-English content", "kind", v.Kind().String(), "words", v.WordCount, "non_eng", v.NonEngCount)
			return []token.Token{token.NonEng{Wrapped: v}}, nil
		}
		return []token.Token{v}, nil
	}
	return []token.Token{t}, nil
}

func countWords(tokens []token.Token) (words, nonEng int) {
	token.Walk(tokens, func(t token.Token) bool {
		switch v := t.(type) {
		case token.FullWord, token.SubWord:
			words++
		case token.NonEng:
			if _, ok := token.WordOf(v.Wrapped); ok {
				words++
				nonEng++
			}
			return false
		}
		return true
	})
	return words, nonEng
}

func unwrap(tokens []token.Token) []token.Token {
	out, _ := token.Rewrite(tokens, func(t token.Token) ([]token.Token, error) {
		if n, ok := t.(token.NonEng); ok {
			if _, isWord := token.WordOf(n.Wrapped); isWord {
				return []token.Token{n.Wrapped}, nil
			}
		}
		return []token.Token{t}, nil
	})
	return out
}
