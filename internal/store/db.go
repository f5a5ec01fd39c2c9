package store

import (
	"errors"
	"time"

	"github.com/quizforge/quizforge/internal/campaign"
)

// Sentinel errors surfaced to callers. The API layer maps these onto HTTP
// statuses.
var (
	// ErrQuizNotFound covers both an unknown quiz id and an expired answer
	// key; the two are indistinguishable by design.
	ErrQuizNotFound = errors.New("store: quiz not found or expired")

	// ErrDuplicateAttempt means this (user, quiz) pair already has a
	// committed attempt; the caller should replay the stored result.
	ErrDuplicateAttempt = errors.New("store: attempt already recorded for this quiz")

	// ErrConflict means the optimistic ledger update lost a race and retries
	// were exhausted; transient from the caller's point of view.
	ErrConflict = errors.New("store: ledger version conflict")
)

// EarnedAchievement is one awarded achievement row. EarnedAt and FloorEarned
// are immutable once set.
type EarnedAchievement struct {
	AchievementID string    `json:"achievement_id"`
	FloorEarned   int       `json:"floor_earned"`
	EarnedAt      time.Time `json:"earned_at"`
}

// DB is the persistence interface for progression state, attempts,
// achievements, answer keys, and lifetime quiz aggregates. Implementations
// must serialize the ledger read-modify-write per user; everything else is
// idempotent or append-only.
type DB interface {
	Close() error
	Migrate() error

	// Answer keys.
	SaveAnswerKey(key *campaign.AnswerKey) error
	GetAnswerKey(quizID string) (*campaign.AnswerKey, error)
	PurgeExpiredKeys(now time.Time) (int, error)

	// Ledger + attempts. ApplyAttempt runs as one transaction: it records
	// the attempt, folds it into the ledger, and bumps the lifetime
	// aggregates. A duplicate (user, quiz) submission returns the stored
	// attempt and the current ledger with duplicate=true and changes
	// nothing.
	ApplyAttempt(att *campaign.FloorAttempt) (ledger *campaign.Ledger, duplicate bool, err error)
	GetLedger(userID string) (*campaign.Ledger, error)
	GetAttemptByQuiz(userID, quizID string) (*campaign.FloorAttempt, error)
	RecentAttempts(userID string, limit int) ([]*campaign.FloorAttempt, error)
	BestScoreForFloor(userID string, floorNumber int) (int, error)

	// Achievements. Award is an idempotent upsert keyed by
	// (userID, achievementID); it reports whether the row is new.
	EarnedAchievements(userID string) (map[string]bool, error)
	Award(userID, achievementID string, floorEarned int, earnedAt time.Time) (bool, error)
	ListAchievements(userID string) ([]EarnedAchievement, error)

	// Lifetime aggregates across all game modes, read by the lifetime
	// achievement rules.
	AddQuizStats(userID string, questions, correct int) error
	LifetimeCorrect(userID string) (int, error)
	CountClutchPasses(userID string) (int, error)
}
