package campaign

// Apply folds one floor attempt into the ledger. Persistence is the store's
// problem: this is the pure next-state computation, applied inside whatever
// transaction the store runs.
//
// Rules:
//   - attempt counts and question totals accumulate unconditionally
//   - HighestFloor only increases, and only when the passed floor is at or
//     beyond the previous highest (replaying old floors never re-advances)
//   - CurrentFloor moves to floor+1 on a pass, otherwise stays on the floor
//     for a retry
//   - PerfectFloors insertion is idempotent
//   - mini-boss questions and correct answers are split across the boss
//     categories by integer division, remainder attributed to the first
//     boss category so no questions vanish from the stats
func (l *Ledger) Apply(att *FloorAttempt) {
	l.FloorAttempts[att.FloorNumber]++
	l.TotalQuestions += att.Total
	l.TotalCorrect += att.Score

	if att.Passed {
		l.CurrentFloor = att.FloorNumber + 1
		if att.FloorNumber >= l.HighestFloor {
			l.HighestFloor = att.FloorNumber
		}
	} else {
		l.CurrentFloor = att.FloorNumber
	}

	if att.IsPerfect {
		l.PerfectFloors[att.FloorNumber] = true
	}

	if att.IsMiniBoss {
		l.applyBossStats(att)
	} else {
		l.applyRegularStats(att)
	}
}

func (l *Ledger) applyRegularStats(att *FloorAttempt) {
	stat := l.categoryStat(att.Category)
	stat.Attempts += att.Total
	stat.Correct += att.Score
	if att.IsPerfect {
		stat.Perfect++
		if stat.PerfectTiers == nil {
			stat.PerfectTiers = make(map[string]bool)
		}
		stat.PerfectTiers[att.Difficulty] = true
	}
}

func (l *Ledger) applyBossStats(att *FloorAttempt) {
	n := len(att.BossCategories)
	if n == 0 {
		return
	}

	questionsPer := att.Total / n
	correctPer := att.Score / n
	questionsRem := att.Total % n
	correctRem := att.Score % n

	for i, category := range att.BossCategories {
		stat := l.categoryStat(category)
		stat.Attempts += questionsPer
		stat.Correct += correctPer
		if i == 0 {
			stat.Attempts += questionsRem
			stat.Correct += correctRem
		}
	}
}

func (l *Ledger) categoryStat(category string) *CategoryStat {
	stat, ok := l.CategoryStats[category]
	if !ok {
		stat = &CategoryStat{}
		l.CategoryStats[category] = stat
	}
	return stat
}
