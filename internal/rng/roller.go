// Package rng implements the deterministic hash roller that drives every
// procedural decision in quiz generation. One seed fans out into many
// uncorrelated choices by namespacing each decision with a label: the roll
// for "tone" can never perturb the roll for "categoryMix". All functions are
// pure and safe for concurrent use.
package rng

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// RollIndex maps (seed, label) to a uniformly distributed integer in [0, max).
// The value is HMAC-SHA256 with the seed as key and the label as message,
// reduced modulo max. Identical inputs always yield the identical result.
// max <= 0 is a programmer error and fails fast rather than clamping.
func RollIndex(seed, label string, max int) (int, error) {
	if max <= 0 {
		return 0, fmt.Errorf("rng: roll %q: max must be positive, got %d", label, max)
	}

	h := hmac.New(sha256.New, []byte(seed))
	h.Write([]byte(label))
	digest := h.Sum(nil)

	v := binary.BigEndian.Uint64(digest[:8])
	return int(v % uint64(max)), nil
}

// RollFrom picks one element of set deterministically.
func RollFrom(seed, label string, set []string) (string, error) {
	idx, err := RollIndex(seed, label, len(set))
	if err != nil {
		return "", err
	}
	return set[idx], nil
}

// RollNumberInRange picks a number in [min, max] stepping by step.
// Both endpoints are inclusive when (max-min) divides evenly by step.
func RollNumberInRange(seed, label string, min, max, step int) (int, error) {
	if step <= 0 {
		return 0, fmt.Errorf("rng: roll %q: step must be positive, got %d", label, step)
	}
	if max < min {
		return 0, fmt.Errorf("rng: roll %q: max %d is below min %d", label, max, min)
	}

	count := (max-min)/step + 1
	idx, err := RollIndex(seed, label, count)
	if err != nil {
		return 0, err
	}
	return min + idx*step, nil
}
