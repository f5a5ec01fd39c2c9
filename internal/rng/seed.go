package rng

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SeedLength is the required length of a seed in hex characters (32 bytes).
const SeedLength = 64

// ValidateSeed rejects anything that is not a 64-character lowercase hex
// string. Seeds are never repaired or truncated; a malformed seed fails at
// the boundary before any roll is attempted.
func ValidateSeed(seed string) error {
	if len(seed) != SeedLength {
		return fmt.Errorf("rng: seed must be %d hex characters, got %d", SeedLength, len(seed))
	}
	for i := 0; i < len(seed); i++ {
		c := seed[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return fmt.Errorf("rng: seed contains non-hex character %q at position %d", c, i)
		}
	}
	return nil
}

// NewSeed generates a cryptographically random seed for freeplay quizzes.
func NewSeed() (string, error) {
	b := make([]byte, SeedLength/2)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rng: generate seed: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// DailySeed derives the deterministic seed for a daily challenge from the
// date (formatted 2006-01-02) and category. Everyone playing the same daily
// gets the same seed, hence the same recipe.
func DailySeed(date, category string) string {
	sum := sha256.Sum256([]byte(date + category))
	return hex.EncodeToString(sum[:])
}

// SeedHash returns the SHA-256 hash of a seed for logging. Raw seeds never
// appear in logs.
func SeedHash(seed string) string {
	if seed == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}
