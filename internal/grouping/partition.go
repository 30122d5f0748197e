package grouping

import (
	"math/rand"

	"classgroup-service/internal/domain"
)

// Shuffle returns a uniformly random permutation of names. The input slice is
// left untouched.
func Shuffle(rnd *rand.Rand, names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Partition shuffles names and slices the permutation into contiguous groups
// of size members. The final group may be smaller. The requested size is
// clamped to [1, max(1, len(names))]; callers never need to pre-validate it.
func Partition(rnd *rand.Rand, names []string, size int) []domain.Group {
	if len(names) == 0 {
		return []domain.Group{}
	}
	size = clampSize(size, len(names))

	shuffled := Shuffle(rnd, names)
	groups := make([]domain.Group, 0, (len(shuffled)+size-1)/size)
	for i := 0; i < len(shuffled); i += size {
		end := i + size
		if end > len(shuffled) {
			end = len(shuffled)
		}
		groups = append(groups, domain.Group(shuffled[i:end]))
	}
	return groups
}

// SamplePairs draws up to n pairs from the pool without replacement,
// or the whole pool in random order when it holds fewer than n.
func SamplePairs(rnd *rand.Rand, pairs []domain.QAPair, n int) []domain.QAPair {
	perm := rnd.Perm(len(pairs))
	if n > len(pairs) {
		n = len(pairs)
	}
	out := make([]domain.QAPair, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, pairs[idx])
	}
	return out
}

func clampSize(size, n int) int {
	if size < 1 {
		return 1
	}
	if size > n {
		return n
	}
	return size
}
