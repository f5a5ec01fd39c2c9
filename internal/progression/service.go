// Package progression orchestrates a campaign submission end to end: answer
// key lookup, scoring, the transactional ledger update, and post-commit
// achievement evaluation.
package progression

import (
	"fmt"
	"log"
	"time"

	"github.com/quizforge/quizforge/internal/achievements"
	"github.com/quizforge/quizforge/internal/campaign"
	"github.com/quizforge/quizforge/internal/store"
)

const (
	// KeyTTL is how long an answer key stays valid after quiz creation.
	KeyTTL = 24 * time.Hour

	// historyWindow bounds the recent-attempt slice handed to achievement
	// rules. Streak and timed-window rules never look further back.
	historyWindow = 50

	// applyRetries bounds optimistic-concurrency retries on the ledger write.
	applyRetries = 3
)

// Service wires the scoring pipeline together. All state lives in the store;
// the service itself is stateless and safe for concurrent use.
type Service struct {
	db        store.DB
	evaluator *achievements.Evaluator
	logger    *log.Logger
	now       func() time.Time
}

// NewService creates a progression service over a store.
func NewService(db store.DB, logger *log.Logger) *Service {
	return &Service{
		db:        db,
		evaluator: achievements.NewEvaluator(db, logger),
		logger:    logger,
		now:       time.Now,
	}
}

// SubmitRequest is one campaign floor submission.
type SubmitRequest struct {
	UserID       string                     `json:"user_id"`
	FloorNumber  int                        `json:"floor"`
	QuizID       string                     `json:"quiz_id"`
	Answers      []campaign.SubmittedAnswer `json:"answers"`
	TimeTakenSec int                        `json:"time_taken_sec,omitempty"`
}

// SubmitResult is everything the client needs after a submission: the graded
// outcome, floor-local context, the updated ledger, and any achievements the
// attempt newly earned.
type SubmitResult struct {
	Passed                    bool                      `json:"passed"`
	Score                     int                       `json:"score"`
	Total                     int                       `json:"total"`
	IsPerfect                 bool                      `json:"is_perfect"`
	PerQuestion               []campaign.QuestionResult `json:"per_question_results,omitempty"`
	BestScoreForFloor         int                       `json:"best_score_for_floor"`
	AttemptCountForFloor      int                       `json:"attempt_count_for_floor"`
	UpdatedProgression        *campaign.Ledger          `json:"updated_progression"`
	NextFloorUnlocked         bool                      `json:"next_floor_unlocked"`
	NewlyEarnedAchievementIDs []string                  `json:"newly_earned_achievement_ids"`
	Duplicate                 bool                      `json:"duplicate,omitempty"`
}

// CreateQuiz registers an answer key under a fresh quiz id with the standard
// TTL. The returned key carries the assigned id and expiry.
func (s *Service) CreateQuiz(seed, mode string, entries []campaign.KeyEntry) (*campaign.AnswerKey, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("progression: quiz needs at least one answer key entry")
	}

	key := &campaign.AnswerKey{
		Seed:      seed,
		Mode:      mode,
		Entries:   entries,
		ExpiresAt: s.now().Add(KeyTTL),
	}
	if err := s.db.SaveAnswerKey(key); err != nil {
		return nil, fmt.Errorf("progression: save answer key: %w", err)
	}
	return key, nil
}

// SubmitFloor grades a campaign submission and folds it into the user's
// progression. Retrying the same quiz id replays the committed result instead
// of double-counting; achievement evaluation runs strictly after the ledger
// commit and is best-effort.
func (s *Service) SubmitFloor(req *SubmitRequest) (*SubmitResult, error) {
	topo, err := campaign.ResolveFloor(req.FloorNumber)
	if err != nil {
		return nil, err
	}

	// A committed attempt for this quiz means the client is retrying a
	// submission that already landed. Replay it.
	if prior, err := s.db.GetAttemptByQuiz(req.UserID, req.QuizID); err == nil {
		return s.replay(req, prior)
	} else if err != store.ErrQuizNotFound {
		return nil, err
	}

	key, err := s.db.GetAnswerKey(req.QuizID)
	if err != nil {
		return nil, err
	}

	scored := campaign.Score(key, req.Answers)
	att := &campaign.FloorAttempt{
		UserID:         req.UserID,
		QuizID:         req.QuizID,
		FloorNumber:    topo.FloorNumber,
		Category:       topo.Category,
		BossCategories: topo.BossCategories,
		IsMiniBoss:     topo.IsMiniBoss,
		Difficulty:     topo.Difficulty,
		Score:          scored.Correct,
		Total:          scored.Total,
		Passed:         scored.Passed,
		IsPerfect:      scored.IsPerfect,
		DurationSec:    req.TimeTakenSec,
		CreatedAt:      s.now().UTC(),
	}

	ledger, duplicate, err := s.applyWithRetry(att)
	if err != nil {
		return nil, err
	}
	if duplicate {
		// Lost the race against a concurrent identical submission.
		prior, err := s.db.GetAttemptByQuiz(req.UserID, req.QuizID)
		if err != nil {
			return nil, err
		}
		return s.replay(req, prior)
	}

	newlyEarned := s.evaluateAchievements(ledger, att)

	best, err := s.db.BestScoreForFloor(req.UserID, req.FloorNumber)
	if err != nil {
		return nil, err
	}

	return &SubmitResult{
		Passed:                    scored.Passed,
		Score:                     scored.Correct,
		Total:                     scored.Total,
		IsPerfect:                 scored.IsPerfect,
		PerQuestion:               scored.PerQuestion,
		BestScoreForFloor:         best,
		AttemptCountForFloor:      ledger.FloorAttempts[req.FloorNumber],
		UpdatedProgression:        ledger,
		NextFloorUnlocked:         scored.Passed && ledger.HighestFloor == req.FloorNumber,
		NewlyEarnedAchievementIDs: newlyEarned,
	}, nil
}

// GradeQuiz scores a non-campaign (freeplay or daily) quiz. The result feeds
// the lifetime aggregates but never the campaign ledger.
func (s *Service) GradeQuiz(userID, quizID string, answers []campaign.SubmittedAnswer) (*campaign.ScoreResult, error) {
	key, err := s.db.GetAnswerKey(quizID)
	if err != nil {
		return nil, err
	}

	scored := campaign.Score(key, answers)
	if userID != "" {
		if err := s.db.AddQuizStats(userID, scored.Total, scored.Correct); err != nil {
			// Grading succeeded; a failed aggregate bump costs lifetime
			// achievement progress, not the user's result.
			s.logger.Printf("quiz_stats_update_failed user=%s quiz=%s error=%q", userID, quizID, err)
		}
	}
	return scored, nil
}

// Progress returns the user's current ledger.
func (s *Service) Progress(userID string) (*campaign.Ledger, error) {
	return s.db.GetLedger(userID)
}

// Achievements returns the user's earned achievements, oldest first.
func (s *Service) Achievements(userID string) ([]store.EarnedAchievement, error) {
	return s.db.ListAchievements(userID)
}

func (s *Service) applyWithRetry(att *campaign.FloorAttempt) (*campaign.Ledger, bool, error) {
	var lastErr error
	for i := 0; i < applyRetries; i++ {
		ledger, duplicate, err := s.db.ApplyAttempt(att)
		if err == store.ErrConflict {
			lastErr = err
			continue
		}
		return ledger, duplicate, err
	}
	return nil, false, lastErr
}

// replay rebuilds a SubmitResult from an already-committed attempt. Nothing
// is re-scored and no achievements re-fire; per-question detail is omitted
// because the answer key may be gone by the time of the retry.
func (s *Service) replay(req *SubmitRequest, prior *campaign.FloorAttempt) (*SubmitResult, error) {
	ledger, err := s.db.GetLedger(req.UserID)
	if err != nil {
		return nil, err
	}
	best, err := s.db.BestScoreForFloor(req.UserID, prior.FloorNumber)
	if err != nil {
		return nil, err
	}

	return &SubmitResult{
		Passed:               prior.Passed,
		Score:                prior.Score,
		Total:                prior.Total,
		IsPerfect:            prior.IsPerfect,
		BestScoreForFloor:    best,
		AttemptCountForFloor: ledger.FloorAttempts[prior.FloorNumber],
		UpdatedProgression:   ledger,
		NextFloorUnlocked:    prior.Passed && ledger.HighestFloor == prior.FloorNumber,
		Duplicate:            true,
	}, nil
}

// evaluateAchievements runs the catalog after a committed attempt. Every
// input here is best-effort: a failed read narrows the context instead of
// failing the submission.
func (s *Service) evaluateAchievements(ledger *campaign.Ledger, att *campaign.FloorAttempt) []string {
	history, err := s.db.RecentAttempts(att.UserID, historyWindow)
	if err != nil {
		s.logger.Printf("achievement_history_read_failed user=%s error=%q", att.UserID, err)
		history = []*campaign.FloorAttempt{att}
	}
	lifetime, err := s.db.LifetimeCorrect(att.UserID)
	if err != nil {
		s.logger.Printf("achievement_lifetime_read_failed user=%s error=%q", att.UserID, err)
	}
	clutch, err := s.db.CountClutchPasses(att.UserID)
	if err != nil {
		s.logger.Printf("achievement_clutch_read_failed user=%s error=%q", att.UserID, err)
	}

	return s.evaluator.Evaluate(&achievements.Context{
		Ledger:          ledger,
		Attempt:         att,
		History:         history,
		Now:             att.CreatedAt,
		LifetimeCorrect: lifetime,
		ClutchPasses:    clutch,
	})
}
