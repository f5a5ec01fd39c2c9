// Package campaign implements the deterministic campaign progression engine:
// floor topology, attempt scoring, and the per-user progression ledger.
package campaign

import "time"

// Campaign geometry. Floors come in blocks of 11: ten regular floors, each a
// single category, then one mini-boss covering the categories of the ten
// floors before it.
const (
	BlockSize         = 11
	RegularPerBlock   = 10
	QuestionsPerFloor = 5
	PassingScore      = 3
	TierCount         = 3
)

// FloorTopology is derived, never stored: everything a floor is, computed
// from its number alone.
type FloorTopology struct {
	FloorNumber    int      `json:"floor_number"`
	IsMiniBoss     bool     `json:"is_mini_boss"`
	Category       string   `json:"category,omitempty"`
	BossCategories []string `json:"boss_categories,omitempty"`
	Difficulty     string   `json:"difficulty"`
}

// SubmittedAnswer is one user answer keyed by question id.
type SubmittedAnswer struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// KeyEntry is the canonical answer for one question.
type KeyEntry struct {
	QuestionID  string `json:"question_id"`
	Answer      string `json:"answer"`
	Type        string `json:"type"`
	Explanation string `json:"explanation,omitempty"`
}

// AnswerKey holds the canonical answers for one generated quiz. Keys expire;
// an expired key is indistinguishable from an absent one.
type AnswerKey struct {
	QuizID    string     `json:"quiz_id"`
	Seed      string     `json:"seed"`
	Mode      string     `json:"mode"`
	Entries   []KeyEntry `json:"entries"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// QuestionResult is the graded outcome of a single question.
type QuestionResult struct {
	QuestionID    string `json:"question_id"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation,omitempty"`
}

// ScoreResult aggregates per-question grading for one submission.
type ScoreResult struct {
	PerQuestion []QuestionResult `json:"per_question"`
	Correct     int              `json:"correct"`
	Total       int              `json:"total"`
	Passed      bool             `json:"passed"`
	IsPerfect   bool             `json:"is_perfect"`
}

// FloorAttempt is the immutable record of one campaign submission.
type FloorAttempt struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	QuizID         string    `json:"quiz_id"`
	FloorNumber    int       `json:"floor_number"`
	Category       string    `json:"category,omitempty"`
	BossCategories []string  `json:"boss_categories,omitempty"`
	IsMiniBoss     bool      `json:"is_mini_boss"`
	Difficulty     string    `json:"difficulty"`
	Score          int       `json:"score"`
	Total          int       `json:"total"`
	Passed         bool      `json:"passed"`
	IsPerfect      bool      `json:"is_perfect"`
	DurationSec    int       `json:"duration_sec"`
	CreatedAt      time.Time `json:"created_at"`
}

// CategoryStat accumulates per-category performance. Attempts counts
// questions attempted in the category, Correct counts correct answers,
// Perfect counts perfect regular-floor clears, and PerfectTiers records
// which difficulty tiers the user has cleared perfectly in this category.
type CategoryStat struct {
	Attempts     int             `json:"attempts"`
	Correct      int             `json:"correct"`
	Perfect      int             `json:"perfect"`
	PerfectTiers map[string]bool `json:"perfect_tiers,omitempty"`
}

// Ledger is the durable per-user progression state. It grows monotonically
// and is mutated only by Apply.
type Ledger struct {
	UserID         string                   `json:"user_id"`
	CurrentFloor   int                      `json:"current_floor"`
	HighestFloor   int                      `json:"highest_floor"`
	FloorAttempts  map[int]int              `json:"floor_attempts"`
	TotalQuestions int                      `json:"total_questions"`
	TotalCorrect   int                      `json:"total_correct"`
	PerfectFloors  map[int]bool             `json:"perfect_floors"`
	CategoryStats  map[string]*CategoryStat `json:"category_stats"`
	Version        int64                    `json:"version"`
}

// NewLedger returns the initial ledger for a first-time user.
func NewLedger(userID string) *Ledger {
	return &Ledger{
		UserID:        userID,
		CurrentFloor:  1,
		FloorAttempts: make(map[int]int),
		PerfectFloors: make(map[int]bool),
		CategoryStats: make(map[string]*CategoryStat),
	}
}
