package rng

import "fmt"

// maxSampleAttempts bounds the collision-retry loop in
// SampleWithoutReplacement. The label changes on every attempt so collisions
// cannot repeat forever, but a bug upstream (k beyond the set size after a
// filter, for example) must surface as an error rather than an infinite loop.
const maxSampleAttempts = 1024

// SampleWithoutReplacement returns k distinct elements of set. The draw order
// is deterministic for a given (seed, label) but carries no semantic meaning.
// Each attempt rolls with the label suffixed by an attempt counter
// ("label#0", "label#1", ...) and skips indices already chosen.
//
// k >= len(set) returns a copy of the whole set; k <= 0 returns an empty
// slice.
func SampleWithoutReplacement(seed, label string, set []string, k int) ([]string, error) {
	if k <= 0 {
		return []string{}, nil
	}
	if k >= len(set) {
		out := make([]string, len(set))
		copy(out, set)
		return out, nil
	}

	picked := make([]string, 0, k)
	used := make(map[int]bool, k)

	for attempt := 0; len(picked) < k; attempt++ {
		if attempt >= maxSampleAttempts {
			return nil, fmt.Errorf("rng: sample %q: exhausted %d attempts picking %d of %d elements", label, attempt, k, len(set))
		}

		idx, err := RollIndex(seed, fmt.Sprintf("%s#%d", label, attempt), len(set))
		if err != nil {
			return nil, err
		}
		if used[idx] {
			continue
		}
		used[idx] = true
		picked = append(picked, set[idx])
	}

	return picked, nil
}
