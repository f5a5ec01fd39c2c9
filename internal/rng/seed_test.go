package rng

import (
	"strings"
	"testing"
)

func TestValidateSeed(t *testing.T) {
	tests := []struct {
		name    string
		seed    string
		wantErr bool
	}{
		{"valid all a", strings.Repeat("a", 64), false},
		{"valid mixed hex", strings.Repeat("0f", 32), false},
		{"too short", strings.Repeat("a", 63), true},
		{"too long", strings.Repeat("a", 65), true},
		{"empty", "", true},
		{"uppercase hex", strings.Repeat("A", 64), true},
		{"non-hex character", strings.Repeat("a", 63) + "z", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSeed(tt.seed)
			if tt.wantErr && err == nil {
				t.Errorf("Expected error for seed %q", tt.seed)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestNewSeed(t *testing.T) {
	a, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed failed: %v", err)
	}
	if err := ValidateSeed(a); err != nil {
		t.Errorf("Generated seed is invalid: %v", err)
	}

	b, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed failed: %v", err)
	}
	if a == b {
		t.Error("Two generated seeds are identical")
	}
}

func TestDailySeed(t *testing.T) {
	a := DailySeed("2026-09-01", "science")
	b := DailySeed("2026-09-01", "science")
	if a != b {
		t.Error("Daily seed is not deterministic")
	}
	if err := ValidateSeed(a); err != nil {
		t.Errorf("Daily seed is invalid: %v", err)
	}

	if DailySeed("2026-09-01", "science") == DailySeed("2026-09-02", "science") {
		t.Error("Different dates produced the same daily seed")
	}
	if DailySeed("2026-09-01", "science") == DailySeed("2026-09-01", "history") {
		t.Error("Different categories produced the same daily seed")
	}
}

func TestSeedHash(t *testing.T) {
	seed := strings.Repeat("a", 64)
	if SeedHash(seed) == seed {
		t.Error("SeedHash returned the raw seed")
	}
	if SeedHash("") != "" {
		t.Error("SeedHash of empty string should be empty")
	}
	if SeedHash(seed) != SeedHash(seed) {
		t.Error("SeedHash is not deterministic")
	}
}
