package vocab

import (
	"cmp"
	"math/rand/v2"
	"slices"
)

// FitChunks deals file indices into n chunks round robin. Without rng the
// files are dealt smallest first, otherwise in a random order.
func FitChunks(sizes []int64, n int, rng *rand.Rand) [][]int {
	if n < 1 {
		n = 1
	}
	order := make([]int, len(sizes))
	for i := range order {
		order[i] = i
	}
	if rng != nil {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	} else {
		slices.SortStableFunc(order, func(a, b int) int { return cmp.Compare(sizes[a], sizes[b]) })
	}

	chunks := make([][]int, n)
	for i, idx := range order {
		chunks[i%n] = append(chunks[i%n], idx)
	}
	return chunks
}
