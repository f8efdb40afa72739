package split

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"unicode"

	lru "github.com/hashicorp/golang-lru"

	"github.com/samcharles93/codeprep/internal/logger"
	"github.com/samcharles93/codeprep/internal/token"
)

var ErrInvalidParams = errors.New("split: invalid scorer parameters")

// ScorerParams tune the same-case partition score
//
//	score = (Σ f(freq(p), p∈dict, n==1)·l(p)) / n^Lambda / (f(freq(w), w∈dict, true)·l(w))
//	f(freq, inDict, whole) = log(freq+Alpha)^Theta · (D if inDict && whole)
//	l(p) = 1 / log(adjusted(|p|-avgLen, Beta) + Gamma)
//
// where adjusted(x, Beta) is x for x >= 0 and -x·Beta otherwise. The
// identity partition always scores 1.
type ScorerParams struct {
	Alpha  float64
	Beta   float64
	Gamma  float64
	Theta  float64
	Lambda float64
	D      float64

	// Unknown words at least MinTypoLength long whose best split scores
	// below TypoThreshold are counted as possible typos and left whole.
	TypoThreshold float64
	MinTypoLength int
	// Longer words are not split.
	MaxWordLength int
}

func DefaultScorerParams() ScorerParams {
	return ScorerParams{
		Alpha:         2,
		Beta:          2,
		Gamma:         math.E,
		Theta:         1,
		Lambda:        1.5,
		D:             1.5,
		TypoThreshold: 1,
		MinTypoLength: 5,
		MaxWordLength: 30,
	}
}

func (p ScorerParams) validate() error {
	switch {
	case p.Alpha <= 1:
		return fmt.Errorf("%w: alpha %v must exceed 1", ErrInvalidParams, p.Alpha)
	case p.Gamma <= 1:
		return fmt.Errorf("%w: gamma %v must exceed 1", ErrInvalidParams, p.Gamma)
	case p.Beta < 0 || p.Lambda < 0:
		return fmt.Errorf("%w: beta and lambda must not be negative", ErrInvalidParams)
	case p.Theta <= 0 || p.D <= 0:
		return fmt.Errorf("%w: theta and d must be positive", ErrInvalidParams)
	case p.MaxWordLength < 1:
		return fmt.Errorf("%w: max word length %d", ErrInvalidParams, p.MaxWordLength)
	}
	return nil
}

// maxSubwords bounds the number of parts considered for a word of n runes.
func maxSubwords(n int) int {
	switch {
	case n <= 10:
		return 5
	case n <= 15:
		return 6
	case n <= 20:
		return 7
	default:
		return 8
	}
}

type sameCaseResult struct {
	pieces []string
	typo   bool
}

// SameCase splits single-case words using dictionary frequencies. Results
// are memoised; SameCase is safe for concurrent use.
type SameCase struct {
	dict   *Dictionary
	params ScorerParams
	memo   *lru.Cache
	typos  atomic.Int64
	log    logger.Logger
}

func NewSameCase(dict *Dictionary, params ScorerParams, memoSize int, log logger.Logger) (*SameCase, error) {
	if dict == nil {
		return nil, errors.New("split: same-case splitting needs a dictionary")
	}
	if err := params.validate(); err != nil {
		return nil, err
	}
	if memoSize <= 0 {
		memoSize = 1 << 16
	}
	memo, err := lru.New(memoSize)
	if err != nil {
		return nil, err
	}
	return &SameCase{dict: dict, params: params, memo: memo, log: logger.OrDiscard(log)}, nil
}

func (*SameCase) Name() string          { return "same-case" }
func (*SameCase) Kind() token.SplitKind { return token.SameCaseSplit }

// Typos returns how many possible typos have been seen.
func (s *SameCase) Typos() int64 { return s.typos.Load() }

func (s *SameCase) Split(w token.Word) ([]token.Word, error) {
	if w.Cap == token.CapUndefined || !isLetters(w.Canonical) {
		return nil, nil
	}
	n := len([]rune(w.Canonical))
	if n < 2 || n > s.params.MaxWordLength {
		return nil, nil
	}

	var res sameCaseResult
	if v, ok := s.memo.Get(w.Canonical); ok {
		res = v.(sameCaseResult)
	} else {
		pieces, score, err := s.Best(w.Canonical)
		if err != nil {
			return nil, err
		}
		_, known := s.dict.Freq(w.Canonical)
		if len(pieces) < 2 && !known && n >= s.params.MinTypoLength && score < s.params.TypoThreshold {
			res.typo = true
		}
		if len(pieces) > 1 {
			res.pieces = pieces
		}
		s.memo.Add(w.Canonical, res)
	}

	if res.typo {
		s.typos.Add(1)
		s.log.Debug("possible typo", "word", w.Canonical)
		return nil, nil
	}
	if res.pieces == nil {
		return nil, nil
	}
	return casedPieces(w, res.pieces), nil
}

// Best returns the highest scoring partition of word and the best score of
// any partition into two or more parts. A one-element result means the
// word is best left whole.
func (s *SameCase) Best(word string) ([]string, float64, error) {
	runes := []rune(word)
	n := len(runes)
	if n == 0 {
		return nil, 0, ErrNoPartitions
	}
	whole := s.term(word, n, true)
	if !valid(whole) {
		return nil, 0, fmt.Errorf("%w: %q", ErrNoPartitions, word)
	}

	// term[i][j] scores runes[i:j] as a non-whole part.
	term := make([][]float64, n+1)
	for i := 0; i < n; i++ {
		term[i] = make([]float64, n+1)
		for j := i + 1; j <= n; j++ {
			term[i][j] = s.term(string(runes[i:j]), j-i, false)
		}
	}

	maxK := min(maxSubwords(n), n)
	// dp[j] holds the best sum splitting runes[:j] into k parts; back
	// records the start of the last part.
	dp := make([]float64, n+1)
	for j := 1; j <= n; j++ {
		dp[j] = term[0][j]
	}
	back := make([][]int, maxK+1)

	best := []string{word}
	bestScore := math.Inf(-1)
	for k := 2; k <= maxK; k++ {
		next := make([]float64, n+1)
		back[k] = make([]int, n+1)
		for j := range next {
			next[j] = math.Inf(-1)
		}
		for j := k; j <= n; j++ {
			for i := k - 1; i < j; i++ {
				if v := dp[i] + term[i][j]; v > next[j] {
					next[j], back[k][j] = v, i
				}
			}
		}
		dp = next

		score := dp[n] / math.Pow(float64(k), s.params.Lambda) / whole
		if !valid(score) || score <= bestScore {
			continue
		}
		bestScore = score
		if score > 1 {
			best = rebuild(runes, back, k)
		}
	}
	return best, bestScore, nil
}

func rebuild(runes []rune, back [][]int, k int) []string {
	pieces := make([]string, k)
	j := len(runes)
	for ; k >= 2; k-- {
		i := back[k][j]
		pieces[k-1] = string(runes[i:j])
		j = i
	}
	pieces[0] = string(runes[:j])
	return pieces
}

func (s *SameCase) term(part string, length int, whole bool) float64 {
	freq, inDict := s.dict.Freq(part)
	f := math.Pow(math.Log(float64(freq)+s.params.Alpha), s.params.Theta)
	if inDict && whole {
		f *= s.params.D
	}
	x := float64(length) - s.dict.AvgLen()
	if x < 0 {
		x = -x * s.params.Beta
	}
	return f / math.Log(x+s.params.Gamma)
}

func valid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
