package achievements

import (
	"fmt"
	"log"
	"time"
)

// AwardStore is the persistence surface the evaluator needs. Award must be
// an idempotent upsert keyed by (userID, achievementID): it reports whether
// the row was newly created, and re-awarding is a no-op, not an error.
type AwardStore interface {
	EarnedAchievements(userID string) (map[string]bool, error)
	Award(userID, achievementID string, floorEarned int, earnedAt time.Time) (bool, error)
}

// Evaluator runs the catalog against a context and awards what newly
// applies. Awarding is best-effort per rule: one rule's failure is logged
// and never blocks the others or the scoring response.
type Evaluator struct {
	store  AwardStore
	defs   []Def
	logger *log.Logger
}

// NewEvaluator creates an evaluator over the full catalog.
func NewEvaluator(store AwardStore, logger *log.Logger) *Evaluator {
	return &Evaluator{
		store:  store,
		defs:   Catalog(),
		logger: logger,
	}
}

// Evaluate returns the ids of achievements that newly apply, in catalog
// order. Already-earned achievements are skipped; concurrent double
// evaluation is harmless because Award is idempotent.
func (e *Evaluator) Evaluate(ctx *Context) []string {
	earned, err := e.store.EarnedAchievements(ctx.Ledger.UserID)
	if err != nil {
		// Fall back to evaluating everything; the idempotent upsert keeps
		// re-awards harmless.
		e.logger.Printf("achievement_earned_lookup_failed user=%s error=%q", ctx.Ledger.UserID, err)
		earned = map[string]bool{}
	}

	var newlyEarned []string
	for _, def := range e.defs {
		if earned[def.ID] {
			continue
		}
		if !e.check(def, ctx) {
			continue
		}

		isNew, err := e.store.Award(ctx.Ledger.UserID, def.ID, ctx.Attempt.FloorNumber, ctx.Now)
		if err != nil {
			// Best effort: the id is simply absent from this response and
			// will be re-evaluated on the next qualifying submission.
			e.logger.Printf("achievement_award_failed user=%s achievement=%s error=%q", ctx.Ledger.UserID, def.ID, err)
			continue
		}
		if isNew {
			newlyEarned = append(newlyEarned, def.ID)
		}
	}

	return newlyEarned
}

// check runs one rule, containing any panic so a broken rule cannot take the
// rest of the catalog down with it.
func (e *Evaluator) check(def Def, ctx *Context) (applies bool) {
	defer func() {
		if rvr := recover(); rvr != nil {
			e.logger.Printf("achievement_rule_panic achievement=%s panic=%q", def.ID, fmt.Sprintf("%v", rvr))
			applies = false
		}
	}()
	return def.Check(ctx)
}
