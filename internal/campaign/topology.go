package campaign

import (
	"fmt"

	"github.com/quizforge/quizforge/internal/recipe"
)

// ResolveFloor computes the topology of a floor from its number. Pure and
// total for floorNumber >= 1: calling it twice always yields identical
// output, and regular-floor categories cycle through the full category list
// exactly once per tier.
//
// Floors are 1-indexed. Every 11th floor is a mini-boss covering the
// categories of the ten regular floors before it, one difficulty tier above
// its block's base tier. Regular floors walk the category list in order;
// tiers (easy, medium, hard) each span one full cycle. Floors beyond the
// third tier stay hard.
func ResolveFloor(floorNumber int) (*FloorTopology, error) {
	if floorNumber <= 0 {
		return nil, fmt.Errorf("campaign: floor number must be >= 1, got %d", floorNumber)
	}

	if floorNumber%BlockSize == 0 {
		return resolveBossFloor(floorNumber)
	}

	regularCount := regularFloorsThrough(floorNumber)
	categoryCount := len(recipe.Categories)

	return &FloorTopology{
		FloorNumber: floorNumber,
		Category:    recipe.Categories[(regularCount-1)%categoryCount],
		Difficulty:  tierFor(regularCount),
	}, nil
}

// regularFloorsThrough counts the regular (non-boss) floors at or before the
// given floor.
func regularFloorsThrough(floorNumber int) int {
	return floorNumber - floorNumber/BlockSize
}

// tierFor maps a regular-floor ordinal onto a difficulty tier. Each tier is
// one full category cycle wide.
func tierFor(regularCount int) string {
	tierSize := len(recipe.Categories)
	switch {
	case regularCount <= tierSize:
		return recipe.DifficultyEasy
	case regularCount <= 2*tierSize:
		return recipe.DifficultyMedium
	default:
		return recipe.DifficultyHard
	}
}

func resolveBossFloor(floorNumber int) (*FloorTopology, error) {
	// Collect the categories of the ten regular floors immediately before
	// this boss, walking backward and skipping earlier bosses.
	bossCategories := make([]string, 0, RegularPerBlock)
	for f := floorNumber - 1; f >= 1 && len(bossCategories) < RegularPerBlock; f-- {
		if f%BlockSize == 0 {
			continue
		}
		topo, err := ResolveFloor(f)
		if err != nil {
			return nil, err
		}
		bossCategories = append(bossCategories, topo.Category)
	}

	// Walked backward, so flip into floor order.
	for i, j := 0, len(bossCategories)-1; i < j; i, j = i+1, j-1 {
		bossCategories[i], bossCategories[j] = bossCategories[j], bossCategories[i]
	}

	base := tierFor(regularFloorsThrough(floorNumber))
	difficulty := recipe.DifficultyHard
	if base == recipe.DifficultyEasy {
		difficulty = recipe.DifficultyMedium
	}

	return &FloorTopology{
		FloorNumber:    floorNumber,
		IsMiniBoss:     true,
		BossCategories: bossCategories,
		Difficulty:     difficulty,
	}, nil
}
