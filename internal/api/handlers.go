package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quizforge/quizforge/internal/campaign"
	"github.com/quizforge/quizforge/internal/progression"
	"github.com/quizforge/quizforge/internal/recipe"
	"github.com/quizforge/quizforge/internal/rng"
	"github.com/quizforge/quizforge/internal/store"
)

// handleCreateRecipe derives the generation recipe for a seed
func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req RecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "Invalid JSON format", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := rng.ValidateSeed(req.Seed); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeInvalidSeed, err.Error(), map[string]interface{}{
			"seed_hash": rng.SeedHash(req.Seed),
		})
		return
	}

	rec, err := recipe.Build(req.Seed, &recipe.Options{
		FixedNumQuestions: req.NumQuestions,
		Difficulty:        req.Difficulty,
	})
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeInvalidParams, err.Error(), nil)
		return
	}

	s.logger.Printf(
		"recipe_created seed_hash=%s num_questions=%d curve_id=%d categories=%d",
		rng.SeedHash(req.Seed), rec.NumQuestions, rec.DifficultyCurveID, len(rec.CategoryMix),
	)

	s.writeJSON(w, http.StatusOK, rec)
}

// handleNewSeed issues a fresh random seed
func (s *Server) handleNewSeed(w http.ResponseWriter, r *http.Request) {
	seed, err := rng.NewSeed()
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, "Seed generation failed", nil)
		return
	}

	s.logger.Printf("seed_issued seed_hash=%s", rng.SeedHash(seed))

	s.writeJSON(w, http.StatusOK, SeedResponse{
		Seed:          seed,
		SeedHash:      rng.SeedHash(seed),
		EngineVersion: EngineVersion,
	})
}

// handleDailySeed derives the shared daily-challenge seed
func (s *Server) handleDailySeed(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeInvalidParams, "date must be formatted YYYY-MM-DD", map[string]interface{}{
			"date": date,
		})
		return
	}
	category := r.URL.Query().Get("category")

	seed := rng.DailySeed(date, category)

	s.writeJSON(w, http.StatusOK, DailySeedResponse{
		Seed:          seed,
		Date:          date,
		Category:      category,
		EngineVersion: EngineVersion,
	})
}

// handleCreateQuiz registers an answer key and issues a quiz id
func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req CreateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "Invalid JSON format", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if len(req.Entries) == 0 {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "Quiz needs at least one answer key entry", nil)
		return
	}
	if req.Mode == "" {
		req.Mode = "freeplay"
	}

	key, err := s.svc.CreateQuiz(req.Seed, req.Mode, req.Entries)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, "Quiz registration failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	s.logger.Printf(
		"quiz_created quiz=%s mode=%s questions=%d seed_hash=%s",
		key.QuizID, key.Mode, len(key.Entries), rng.SeedHash(key.Seed),
	)

	s.writeJSON(w, http.StatusOK, CreateQuizResponse{
		QuizID:        key.QuizID,
		ExpiresAt:     key.ExpiresAt,
		EngineVersion: EngineVersion,
	})
}

// handleFloorInfo returns the derived topology for a campaign floor
func (s *Server) handleFloorInfo(w http.ResponseWriter, r *http.Request) {
	floor, err := strconv.Atoi(chi.URLParam(r, "floor"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeInvalidFloor, "Floor must be an integer", nil)
		return
	}

	topo, err := campaign.ResolveFloor(floor)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeInvalidFloor, err.Error(), map[string]interface{}{
			"floor": floor,
		})
		return
	}

	s.writeJSON(w, http.StatusOK, topo)
}

// handleCampaignSubmit grades a campaign submission and updates progression
func (s *Server) handleCampaignSubmit(w http.ResponseWriter, r *http.Request) {
	var req progression.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "Invalid JSON format", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if req.UserID == "" || req.QuizID == "" {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "user_id and quiz_id are required", nil)
		return
	}

	result, err := s.svc.SubmitFloor(&req)
	if err != nil {
		s.writeSubmitError(w, r, &req, err)
		return
	}

	s.logger.Printf(
		"floor_submitted user=%s quiz=%s floor=%d score=%d/%d passed=%t duplicate=%t achievements=%d",
		req.UserID, req.QuizID, req.FloorNumber, result.Score, result.Total,
		result.Passed, result.Duplicate, len(result.NewlyEarnedAchievementIDs),
	)

	s.writeJSON(w, http.StatusOK, result)
}

// handleGradeQuiz grades a freeplay or daily quiz
func (s *Server) handleGradeQuiz(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizID")

	var req GradeQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "Invalid JSON format", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	result, err := s.svc.GradeQuiz(req.UserID, quizID, req.Answers)
	if err != nil {
		if err == store.ErrQuizNotFound {
			s.writeError(w, r, http.StatusNotFound, ErrTypeQuizNotFound, "Quiz not found or expired", map[string]interface{}{
				"quiz_id": quizID,
			})
			return
		}
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, "Grading failed", map[string]interface{}{
			"quiz_id": quizID,
		})
		return
	}

	s.logger.Printf("quiz_graded quiz=%s score=%d/%d", quizID, result.Correct, result.Total)

	s.writeJSON(w, http.StatusOK, result)
}

// handleProgress returns a user's current campaign ledger
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	ledger, err := s.svc.Progress(userID)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, "Progress lookup failed", map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	s.writeJSON(w, http.StatusOK, ledger)
}

// handleAchievements lists a user's earned achievements
func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	earned, err := s.svc.Achievements(userID)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, "Achievement lookup failed", map[string]interface{}{
			"user_id": userID,
		})
		return
	}
	if earned == nil {
		earned = []store.EarnedAchievement{}
	}

	s.writeJSON(w, http.StatusOK, AchievementsResponse{
		UserID:        userID,
		Achievements:  earned,
		EngineVersion: EngineVersion,
	})
}

// writeSubmitError maps submission errors onto HTTP statuses
func (s *Server) writeSubmitError(w http.ResponseWriter, r *http.Request, req *progression.SubmitRequest, err error) {
	switch err {
	case store.ErrQuizNotFound:
		s.writeError(w, r, http.StatusNotFound, ErrTypeQuizExpired, "Quiz not found or expired", map[string]interface{}{
			"quiz_id": req.QuizID,
		})
	case store.ErrConflict:
		// Transient: the ledger write lost its optimistic race repeatedly.
		s.writeError(w, r, http.StatusServiceUnavailable, ErrTypeServiceUnavailable, "Submission conflicted, retry", map[string]interface{}{
			"quiz_id": req.QuizID,
		})
	default:
		status := http.StatusInternalServerError
		errType := ErrTypeInternal
		if req.FloorNumber <= 0 {
			status = http.StatusBadRequest
			errType = ErrTypeInvalidFloor
		}
		s.writeError(w, r, status, errType, err.Error(), map[string]interface{}{
			"floor": req.FloorNumber,
		})
	}
}
