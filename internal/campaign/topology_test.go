package campaign

import (
	"testing"

	"github.com/quizforge/quizforge/internal/recipe"
)

func TestResolveFloorInvalid(t *testing.T) {
	for _, floor := range []int{0, -1, -11} {
		if _, err := ResolveFloor(floor); err == nil {
			t.Errorf("Expected error for floor %d", floor)
		}
	}
}

func TestResolveFloorDeterministic(t *testing.T) {
	for _, floor := range []int{1, 7, 11, 23, 33, 100} {
		a, err := ResolveFloor(floor)
		if err != nil {
			t.Fatalf("ResolveFloor(%d) failed: %v", floor, err)
		}
		b, err := ResolveFloor(floor)
		if err != nil {
			t.Fatalf("ResolveFloor(%d) failed: %v", floor, err)
		}

		if a.Category != b.Category || a.Difficulty != b.Difficulty || a.IsMiniBoss != b.IsMiniBoss {
			t.Errorf("ResolveFloor(%d) not consistent under reapplication", floor)
		}
	}
}

func TestMiniBossPlacement(t *testing.T) {
	for floor := 1; floor <= 200; floor++ {
		topo, err := ResolveFloor(floor)
		if err != nil {
			t.Fatalf("ResolveFloor(%d) failed: %v", floor, err)
		}

		wantBoss := floor%BlockSize == 0
		if topo.IsMiniBoss != wantBoss {
			t.Errorf("Floor %d: IsMiniBoss = %t, want %t", floor, topo.IsMiniBoss, wantBoss)
		}
		if wantBoss && topo.Category != "" {
			t.Errorf("Boss floor %d has single category %q", floor, topo.Category)
		}
		if !wantBoss && len(topo.BossCategories) != 0 {
			t.Errorf("Regular floor %d has boss categories", floor)
		}
	}
}

// Regular-floor categories must cycle the full list exactly once per tier,
// never skipping or repeating a category within a tier.
func TestCategoryCycling(t *testing.T) {
	categoryCount := len(recipe.Categories)
	var regulars []*FloorTopology

	for floor := 1; len(regulars) < 3*categoryCount; floor++ {
		topo, err := ResolveFloor(floor)
		if err != nil {
			t.Fatalf("ResolveFloor(%d) failed: %v", floor, err)
		}
		if !topo.IsMiniBoss {
			regulars = append(regulars, topo)
		}
	}

	for tier := 0; tier < 3; tier++ {
		seen := make(map[string]bool)
		for i := 0; i < categoryCount; i++ {
			topo := regulars[tier*categoryCount+i]
			if topo.Category != recipe.Categories[i] {
				t.Errorf("Tier %d position %d: category %q, want %q", tier, i, topo.Category, recipe.Categories[i])
			}
			if seen[topo.Category] {
				t.Errorf("Tier %d repeats category %q", tier, topo.Category)
			}
			seen[topo.Category] = true
		}
	}
}

func TestTierDifficulties(t *testing.T) {
	tests := []struct {
		floor int
		want  string
	}{
		{1, recipe.DifficultyEasy},
		{10, recipe.DifficultyEasy},
		{12, recipe.DifficultyMedium}, // 11th regular floor
		{21, recipe.DifficultyMedium}, // 19th regular floor
		{23, recipe.DifficultyHard},   // 21st regular floor
		{32, recipe.DifficultyHard},
		{100, recipe.DifficultyHard}, // beyond the third tier stays hard
	}

	for _, tt := range tests {
		topo, err := ResolveFloor(tt.floor)
		if err != nil {
			t.Fatalf("ResolveFloor(%d) failed: %v", tt.floor, err)
		}
		if topo.Difficulty != tt.want {
			t.Errorf("Floor %d difficulty %q, want %q", tt.floor, topo.Difficulty, tt.want)
		}
	}
}

func TestFirstMiniBoss(t *testing.T) {
	topo, err := ResolveFloor(11)
	if err != nil {
		t.Fatalf("ResolveFloor(11) failed: %v", err)
	}

	if !topo.IsMiniBoss {
		t.Fatal("Floor 11 should be a mini-boss")
	}
	if len(topo.BossCategories) != RegularPerBlock {
		t.Fatalf("Floor 11 boss categories: %d, want %d", len(topo.BossCategories), RegularPerBlock)
	}
	// One tier above the easy floors 1-10.
	if topo.Difficulty != recipe.DifficultyMedium {
		t.Errorf("Floor 11 difficulty %q, want %q", topo.Difficulty, recipe.DifficultyMedium)
	}
	// Boss categories are the floors 1-10 categories in floor order.
	for i, category := range topo.BossCategories {
		if category != recipe.Categories[i] {
			t.Errorf("Boss category %d is %q, want %q", i, category, recipe.Categories[i])
		}
	}
}

func TestLaterBossesEscalate(t *testing.T) {
	tests := []struct {
		floor int
		want  string
	}{
		{11, recipe.DifficultyMedium},
		{22, recipe.DifficultyHard},
		{33, recipe.DifficultyHard},
		{44, recipe.DifficultyHard},
	}

	for _, tt := range tests {
		topo, err := ResolveFloor(tt.floor)
		if err != nil {
			t.Fatalf("ResolveFloor(%d) failed: %v", tt.floor, err)
		}
		if !topo.IsMiniBoss {
			t.Fatalf("Floor %d should be a mini-boss", tt.floor)
		}
		if topo.Difficulty != tt.want {
			t.Errorf("Boss floor %d difficulty %q, want %q", tt.floor, topo.Difficulty, tt.want)
		}
		if len(topo.BossCategories) != RegularPerBlock {
			t.Errorf("Boss floor %d has %d categories, want %d", tt.floor, len(topo.BossCategories), RegularPerBlock)
		}
	}
}
