// Package achievements implements the campaign achievement engine: a static
// catalog of independent rules, each a pure predicate over the post-update
// ledger and attempt history, awarded through one idempotent upsert. Adding
// an achievement is a pure addition to the catalog, never an edit to a
// cascade.
package achievements

import (
	"sort"
	"time"

	"github.com/quizforge/quizforge/internal/campaign"
)

// Rule families, for display grouping and monitoring.
const (
	FamilyMilestone   = "milestone"
	FamilyPerformance = "performance"
	FamilyCategory    = "category"
	FamilySpecial     = "special"
	FamilyLifetime    = "lifetime"
)

// Context carries everything a rule may inspect. Ledger is the post-commit
// state; History is the bounded recent-attempt window, newest first, and
// includes the attempt that triggered evaluation. LifetimeCorrect and
// ClutchPasses are store aggregates spanning all game modes and the full
// attempt history respectively.
type Context struct {
	Ledger          *campaign.Ledger
	Attempt         *campaign.FloorAttempt
	History         []*campaign.FloorAttempt
	Now             time.Time
	LifetimeCorrect int
	ClutchPasses    int
}

// Def is one achievement definition. Check must be a pure function of the
// context.
type Def struct {
	ID     string
	Family string
	Tier   int
	Check  func(*Context) bool
}

// Catalog returns the full achievement catalog. Display metadata (names,
// descriptions, icons) is owned by the product layer; this engine reasons
// about ids only.
func Catalog() []Def {
	defs := []Def{
		{
			ID: "first_victory", Family: FamilyMilestone, Tier: 1,
			Check: func(c *Context) bool { return c.Attempt.Passed },
		},
	}

	// Highest-floor thresholds.
	floorTiers := []struct {
		id    string
		floor int
		tier  int
	}{
		{"floor_5", 5, 1},
		{"floor_10", 10, 1},
		{"floor_15", 15, 2},
		{"floor_20", 20, 2},
		{"floor_25", 25, 3},
		{"floor_30", 30, 3},
		{"floor_33", 33, 3},
	}
	for _, ft := range floorTiers {
		threshold := ft.floor
		defs = append(defs, Def{
			ID: ft.id, Family: FamilyMilestone, Tier: ft.tier,
			Check: func(c *Context) bool { return c.Ledger.HighestFloor >= threshold },
		})
	}

	defs = append(defs,
		Def{
			ID: "flawless", Family: FamilyPerformance, Tier: 1,
			Check: func(c *Context) bool { return len(c.Ledger.PerfectFloors) > 0 },
		},
		Def{
			ID: "perfectionist", Family: FamilyPerformance, Tier: 2,
			Check: func(c *Context) bool { return len(c.Ledger.PerfectFloors) >= 10 },
		},
		Def{
			ID: "immaculate_run", Family: FamilyPerformance, Tier: 3,
			Check: func(c *Context) bool { return hasConsecutivePerfects(c.Ledger, 5) },
		},
		Def{
			ID: "on_fire", Family: FamilyPerformance, Tier: 2,
			Check: func(c *Context) bool { return passStreak(c.History) >= 10 },
		},

		Def{
			ID: "specialist", Family: FamilyCategory, Tier: 2,
			Check: func(c *Context) bool { return specialistCount(c.Ledger) >= 1 },
		},
		Def{
			ID: "polymath", Family: FamilyCategory, Tier: 3,
			Check: func(c *Context) bool { return specialistCount(c.Ledger) >= 3 },
		},
		Def{
			ID: "well_rounded", Family: FamilyCategory, Tier: 1,
			Check: func(c *Context) bool { return perfectCategories(c.Ledger) >= 3 },
		},
		Def{
			ID: "renaissance", Family: FamilyCategory, Tier: 2,
			Check: func(c *Context) bool { return perfectCategories(c.Ledger) >= 6 },
		},
		Def{
			ID: "omniscient", Family: FamilyCategory, Tier: 3,
			Check: func(c *Context) bool { return perfectCategories(c.Ledger) >= 10 },
		},

		Def{
			ID: "night_owl", Family: FamilySpecial, Tier: 1,
			Check: func(c *Context) bool {
				return c.Attempt.Passed && c.Attempt.CreatedAt.Hour() < 4
			},
		},
		Def{
			ID: "marathon", Family: FamilySpecial, Tier: 2,
			Check: func(c *Context) bool { return passesWithin(c, 2*time.Hour) >= 10 },
		},
		Def{
			ID: "blitz", Family: FamilySpecial, Tier: 3,
			Check: func(c *Context) bool { return passesWithin(c, 15*time.Minute) >= 10 },
		},
		Def{
			ID: "persistence", Family: FamilySpecial, Tier: 1,
			Check: func(c *Context) bool {
				// Pass after at least 5 prior attempts on the same floor.
				return c.Attempt.Passed && c.Ledger.FloorAttempts[c.Attempt.FloorNumber] >= 6
			},
		},
		Def{
			ID: "clutch", Family: FamilySpecial, Tier: 2,
			Check: func(c *Context) bool { return c.ClutchPasses >= 10 },
		},

		Def{
			ID: "scholar", Family: FamilyLifetime, Tier: 1,
			Check: func(c *Context) bool { return c.LifetimeCorrect >= 100 },
		},
		Def{
			ID: "sage", Family: FamilyLifetime, Tier: 2,
			Check: func(c *Context) bool { return c.LifetimeCorrect >= 500 },
		},
		Def{
			ID: "oracle", Family: FamilyLifetime, Tier: 3,
			Check: func(c *Context) bool { return c.LifetimeCorrect >= 1000 },
		},
	)

	return defs
}

// hasConsecutivePerfects reports whether the perfect-floor set contains a run
// of n consecutive floor numbers.
func hasConsecutivePerfects(l *campaign.Ledger, n int) bool {
	if len(l.PerfectFloors) < n {
		return false
	}

	floors := make([]int, 0, len(l.PerfectFloors))
	for f := range l.PerfectFloors {
		floors = append(floors, f)
	}
	sort.Ints(floors)

	run := 1
	for i := 1; i < len(floors); i++ {
		if floors[i] == floors[i-1]+1 {
			run++
			if run >= n {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}

// passStreak counts consecutive passed attempts scanning newest first,
// stopping at the first failure.
func passStreak(history []*campaign.FloorAttempt) int {
	streak := 0
	for _, att := range history {
		if !att.Passed {
			break
		}
		streak++
	}
	return streak
}

// specialistCount counts categories cleared perfectly at all three
// difficulty tiers.
func specialistCount(l *campaign.Ledger) int {
	count := 0
	for _, stat := range l.CategoryStats {
		if stat.PerfectTiers["easy"] && stat.PerfectTiers["medium"] && stat.PerfectTiers["hard"] {
			count++
		}
	}
	return count
}

// perfectCategories counts distinct categories with at least one perfect
// clear.
func perfectCategories(l *campaign.Ledger) int {
	count := 0
	for _, stat := range l.CategoryStats {
		if stat.Perfect > 0 {
			count++
		}
	}
	return count
}

// passesWithin counts passed attempts created inside the trailing window.
func passesWithin(c *Context, window time.Duration) int {
	cutoff := c.Now.Add(-window)
	count := 0
	for _, att := range c.History {
		if att.Passed && att.CreatedAt.After(cutoff) {
			count++
		}
	}
	return count
}
