package achievements

import (
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/quizforge/quizforge/internal/campaign"
)

// fakeStore is an in-memory AwardStore.
type fakeStore struct {
	awarded map[string]map[string]bool
	failIDs map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		awarded: make(map[string]map[string]bool),
		failIDs: make(map[string]bool),
	}
}

func (f *fakeStore) EarnedAchievements(userID string) (map[string]bool, error) {
	out := make(map[string]bool)
	for id := range f.awarded[userID] {
		out[id] = true
	}
	return out, nil
}

func (f *fakeStore) Award(userID, achievementID string, floorEarned int, earnedAt time.Time) (bool, error) {
	if f.failIDs[achievementID] {
		return false, errors.New("transient write failure")
	}
	if f.awarded[userID] == nil {
		f.awarded[userID] = make(map[string]bool)
	}
	if f.awarded[userID][achievementID] {
		return false, nil
	}
	f.awarded[userID][achievementID] = true
	return true, nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func baseContext(t *testing.T) *Context {
	t.Helper()
	ledger := campaign.NewLedger("user-1")
	att := attempt(1, 4, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	ledger.Apply(att)

	return &Context{
		Ledger:  ledger,
		Attempt: att,
		History: []*campaign.FloorAttempt{att},
		Now:     att.CreatedAt,
	}
}

func attempt(floor, score int, at time.Time) *campaign.FloorAttempt {
	topo, err := campaign.ResolveFloor(floor)
	if err != nil {
		panic(err)
	}
	return &campaign.FloorAttempt{
		UserID:         "user-1",
		FloorNumber:    floor,
		Category:       topo.Category,
		BossCategories: topo.BossCategories,
		IsMiniBoss:     topo.IsMiniBoss,
		Difficulty:     topo.Difficulty,
		Score:          score,
		Total:          campaign.QuestionsPerFloor,
		Passed:         score >= campaign.PassingScore,
		IsPerfect:      score == campaign.QuestionsPerFloor,
		CreatedAt:      at,
	}
}

func TestCatalogShape(t *testing.T) {
	defs := Catalog()
	if len(defs) != 25 {
		t.Errorf("Catalog has %d achievements, want 25", len(defs))
	}

	seen := make(map[string]bool)
	for _, def := range defs {
		if def.ID == "" {
			t.Error("Achievement with empty id")
		}
		if seen[def.ID] {
			t.Errorf("Duplicate achievement id %q", def.ID)
		}
		seen[def.ID] = true
		if def.Check == nil {
			t.Errorf("Achievement %q has no predicate", def.ID)
		}
	}
}

func TestFirstVictory(t *testing.T) {
	store := newFakeStore()
	ev := NewEvaluator(store, testLogger())

	earned := ev.Evaluate(baseContext(t))
	if !contains(earned, "first_victory") {
		t.Errorf("Expected first_victory in %v", earned)
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	store := newFakeStore()
	ev := NewEvaluator(store, testLogger())
	ctx := baseContext(t)

	first := ev.Evaluate(ctx)
	if len(first) == 0 {
		t.Fatal("Expected at least one achievement on first evaluation")
	}

	// Processing the same submission twice (client retry) must not re-award.
	second := ev.Evaluate(ctx)
	for _, id := range second {
		if contains(first, id) {
			t.Errorf("Achievement %q awarded twice", id)
		}
	}
}

func TestAwardFailureIsolated(t *testing.T) {
	store := newFakeStore()
	store.failIDs["first_victory"] = true
	ev := NewEvaluator(store, testLogger())

	ctx := baseContext(t)
	ctx.Attempt = attempt(1, 5, ctx.Now)
	ctx.Ledger = campaign.NewLedger("user-1")
	ctx.Ledger.Apply(ctx.Attempt)

	earned := ev.Evaluate(ctx)
	if contains(earned, "first_victory") {
		t.Error("Failed award should not be reported as earned")
	}
	// Independent rules still evaluated and awarded.
	if !contains(earned, "flawless") {
		t.Errorf("Expected flawless despite first_victory failure, got %v", earned)
	}

	// Next qualifying submission re-awards the failed id.
	store.failIDs = map[string]bool{}
	earned = ev.Evaluate(ctx)
	if !contains(earned, "first_victory") {
		t.Errorf("Expected first_victory on retry, got %v", earned)
	}
}

func TestFloorThresholds(t *testing.T) {
	store := newFakeStore()
	ev := NewEvaluator(store, testLogger())

	ledger := campaign.NewLedger("user-1")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var last *campaign.FloorAttempt
	for floor := 1; floor <= 10; floor++ {
		last = attempt(floor, 4, now)
		ledger.Apply(last)
	}

	earned := ev.Evaluate(&Context{Ledger: ledger, Attempt: last, History: []*campaign.FloorAttempt{last}, Now: now})
	if !contains(earned, "floor_5") || !contains(earned, "floor_10") {
		t.Errorf("Expected floor_5 and floor_10, got %v", earned)
	}
	if contains(earned, "floor_15") {
		t.Errorf("floor_15 awarded at highest floor 10: %v", earned)
	}
}

func TestConsecutivePerfects(t *testing.T) {
	ledger := campaign.NewLedger("user-1")
	now := time.Now()

	// Perfect floors 2,3,4,6,7: no run of 5.
	for _, floor := range []int{2, 3, 4, 6, 7} {
		ledger.Apply(attempt(floor, 5, now))
	}
	if hasConsecutivePerfects(ledger, 5) {
		t.Error("No run of 5 exists yet")
	}

	// Filling floor 5 closes the gap: 2..7 holds a run of 5.
	ledger.Apply(attempt(5, 5, now))
	if !hasConsecutivePerfects(ledger, 5) {
		t.Error("Run of 5 consecutive perfect floors not detected")
	}
}

func TestPassStreak(t *testing.T) {
	now := time.Now()
	history := []*campaign.FloorAttempt{
		attempt(5, 4, now),
		attempt(4, 3, now),
		attempt(3, 5, now),
		attempt(3, 1, now), // streak stops here
		attempt(2, 4, now),
	}

	if got := passStreak(history); got != 3 {
		t.Errorf("passStreak = %d, want 3", got)
	}
	if got := passStreak(nil); got != 0 {
		t.Errorf("passStreak(nil) = %d, want 0", got)
	}
}

func TestNightOwl(t *testing.T) {
	defs := Catalog()
	var nightOwl Def
	for _, def := range defs {
		if def.ID == "night_owl" {
			nightOwl = def
		}
	}

	at := time.Date(2026, 3, 1, 2, 30, 0, 0, time.UTC)
	ctx := &Context{Attempt: attempt(1, 4, at)}
	if !nightOwl.Check(ctx) {
		t.Error("Pass at 02:30 should qualify")
	}

	ctx.Attempt = attempt(1, 4, time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC))
	if nightOwl.Check(ctx) {
		t.Error("Pass at 14:00 should not qualify")
	}

	ctx.Attempt = attempt(1, 2, at)
	if nightOwl.Check(ctx) {
		t.Error("Failed attempt should not qualify regardless of hour")
	}
}

func TestTimedWindows(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var history []*campaign.FloorAttempt
	for i := 0; i < 10; i++ {
		history = append(history, attempt(1+i%3, 4, now.Add(-time.Duration(i)*10*time.Minute)))
	}

	ctx := &Context{History: history, Now: now}
	if got := passesWithin(ctx, 2*time.Hour); got != 10 {
		t.Errorf("passesWithin(2h) = %d, want 10", got)
	}
	if got := passesWithin(ctx, 15*time.Minute); got != 2 {
		// Attempts at t-0 and t-10m fall inside the window.
		t.Errorf("passesWithin(15m) = %d, want 2", got)
	}
}

func TestPersistence(t *testing.T) {
	store := newFakeStore()
	ev := NewEvaluator(store, testLogger())

	ledger := campaign.NewLedger("user-1")
	now := time.Now()
	// Five failures, then a pass on the same floor.
	for i := 0; i < 5; i++ {
		ledger.Apply(attempt(4, 1, now))
	}
	winning := attempt(4, 3, now)
	ledger.Apply(winning)

	earned := ev.Evaluate(&Context{Ledger: ledger, Attempt: winning, History: []*campaign.FloorAttempt{winning}, Now: now})
	if !contains(earned, "persistence") {
		t.Errorf("Expected persistence after 5 prior attempts, got %v", earned)
	}
}

func TestSpecialistAndSpread(t *testing.T) {
	ledger := campaign.NewLedger("user-1")

	stat := &campaign.CategoryStat{
		Perfect:      3,
		PerfectTiers: map[string]bool{"easy": true, "medium": true, "hard": true},
	}
	ledger.CategoryStats["science"] = stat

	if specialistCount(ledger) != 1 {
		t.Errorf("specialistCount = %d, want 1", specialistCount(ledger))
	}

	ledger.CategoryStats["history"] = &campaign.CategoryStat{Perfect: 1}
	ledger.CategoryStats["music"] = &campaign.CategoryStat{Perfect: 2}
	if perfectCategories(ledger) != 3 {
		t.Errorf("perfectCategories = %d, want 3", perfectCategories(ledger))
	}

	// Missing one tier is not a specialist.
	stat.PerfectTiers["hard"] = false
	if specialistCount(ledger) != 0 {
		t.Errorf("specialistCount = %d, want 0", specialistCount(ledger))
	}
}

func TestLifetimeAndClutch(t *testing.T) {
	store := newFakeStore()
	ev := NewEvaluator(store, testLogger())

	ctx := baseContext(t)
	ctx.LifetimeCorrect = 500
	ctx.ClutchPasses = 10

	earned := ev.Evaluate(ctx)
	if !contains(earned, "scholar") || !contains(earned, "sage") {
		t.Errorf("Expected scholar and sage at 500 lifetime correct, got %v", earned)
	}
	if contains(earned, "oracle") {
		t.Errorf("oracle awarded below threshold: %v", earned)
	}
	if !contains(earned, "clutch") {
		t.Errorf("Expected clutch at 10 minimum-score passes, got %v", earned)
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
