package api

import (
	"time"

	"github.com/quizforge/quizforge/internal/campaign"
	"github.com/quizforge/quizforge/internal/store"
)

// EngineError represents a structured error response with context
type EngineError struct {
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp,omitempty"`
}

// Error implements the error interface
func (e EngineError) Error() string {
	return e.Message
}

// Error types with proper categorization
const (
	// Input validation errors
	ErrTypeInvalidSeed   = "invalid_seed"
	ErrTypeInvalidFloor  = "invalid_floor"
	ErrTypeInvalidParams = "invalid_params"
	ErrTypeValidation    = "validation_error"

	// Quiz-related errors
	ErrTypeQuizNotFound = "quiz_not_found"
	ErrTypeQuizExpired  = "quiz_expired"

	// System errors
	ErrTypeTimeout            = "timeout"
	ErrTypeInternal           = "internal_error"
	ErrTypeServiceUnavailable = "service_unavailable"
)

// ErrorCategory represents error categories for monitoring
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryQuiz       ErrorCategory = "quiz"
	CategorySystem     ErrorCategory = "system"
	CategoryTimeout    ErrorCategory = "timeout"
)

// GetErrorCategory returns the category for an error type
func GetErrorCategory(errType string) ErrorCategory {
	switch errType {
	case ErrTypeInvalidSeed, ErrTypeInvalidFloor, ErrTypeInvalidParams, ErrTypeValidation:
		return CategoryValidation
	case ErrTypeQuizNotFound, ErrTypeQuizExpired:
		return CategoryQuiz
	case ErrTypeTimeout:
		return CategoryTimeout
	default:
		return CategorySystem
	}
}

// VersionInfo contains engine version information
type VersionInfo struct {
	EngineVersion string `json:"engine_version"`
	GitCommit     string `json:"git_commit,omitempty"`
	BuildTime     string `json:"build_time,omitempty"`
}

// RecipeRequest asks for the recipe derived from a seed
type RecipeRequest struct {
	Seed         string `json:"seed"`
	NumQuestions int    `json:"num_questions,omitempty"`
	Difficulty   string `json:"difficulty,omitempty"`
}

// SeedResponse returns a freshly generated seed
type SeedResponse struct {
	Seed          string `json:"seed"`
	SeedHash      string `json:"seed_hash"`
	EngineVersion string `json:"engine_version"`
}

// DailySeedResponse returns the deterministic daily seed for a date/category
type DailySeedResponse struct {
	Seed          string `json:"seed"`
	Date          string `json:"date"`
	Category      string `json:"category"`
	EngineVersion string `json:"engine_version"`
}

// CreateQuizRequest registers an answer key for a generated quiz
type CreateQuizRequest struct {
	Seed    string              `json:"seed,omitempty"`
	Mode    string              `json:"mode"`
	Entries []campaign.KeyEntry `json:"entries"`
}

// CreateQuizResponse returns the issued quiz id and key expiry
type CreateQuizResponse struct {
	QuizID        string    `json:"quiz_id"`
	ExpiresAt     time.Time `json:"expires_at"`
	EngineVersion string    `json:"engine_version"`
}

// GradeQuizRequest submits answers for a non-campaign quiz
type GradeQuizRequest struct {
	UserID  string                     `json:"user_id,omitempty"`
	Answers []campaign.SubmittedAnswer `json:"answers"`
}

// AchievementsResponse lists a user's earned achievements
type AchievementsResponse struct {
	UserID        string                    `json:"user_id"`
	Achievements  []store.EarnedAchievement `json:"achievements"`
	EngineVersion string                    `json:"engine_version"`
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status        string `json:"status"`
	EngineVersion string `json:"engine_version"`
	Timestamp     string `json:"timestamp"`
}
