package bpe

// Pair is an adjacent symbol pair.
type Pair struct {
	A string
	B string
}

func (p Pair) String() string {
	return p.A + " " + p.B
}

func (p Pair) less(q Pair) bool {
	if p.A != q.A {
		return p.A < q.A
	}
	return p.B < q.B
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// mergePair replaces every non-overlapping occurrence of pair, scanning left
// to right.
func mergePair(word []string, pair Pair) []string {
	out := make([]string, 0, len(word))
	for i := 0; i < len(word); i++ {
		if i < len(word)-1 && word[i] == pair.A && word[i+1] == pair.B {
			out = append(out, word[i]+word[i+1])
			i++
			continue
		}
		out = append(out, word[i])
	}
	return out
}

// mergeSites returns the start indexes mergePair would merge.
func mergeSites(word []string, pair Pair) []int {
	var sites []int
	for i := 0; i < len(word)-1; i++ {
		if word[i] == pair.A && word[i+1] == pair.B {
			sites = append(sites, i)
			i++
		}
	}
	return sites
}
