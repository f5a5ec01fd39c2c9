// Package api exposes the quiz engine over HTTP: recipe derivation, seed
// issuance, quiz registration, campaign submission, and progression reads.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quizforge/quizforge/internal/progression"
	"github.com/quizforge/quizforge/internal/store"
)

// Server handles HTTP requests
type Server struct {
	db           store.DB
	svc          *progression.Service
	errorHandler *ErrorHandler
	logger       *log.Logger
	startTime    time.Time
}

// NewServer creates a new API server
func NewServer(db store.DB) *Server {
	logger := log.New(os.Stdout, "[API] ", log.LstdFlags|log.Lshortfile)

	return &Server{
		db:           db,
		svc:          progression.NewService(db, logger),
		errorHandler: NewErrorHandler(logger),
		logger:       logger,
		startTime:    time.Now(),
	}
}

// Routes sets up the HTTP routes with proper middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.RequestLoggingMiddleware)
	r.Use(s.errorHandler.RecoveryHandler)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(s.CORSMiddleware)

	// Health and monitoring endpoints
	r.Get("/health", s.handleHealthCheck)
	r.Get("/health/ready", s.handleReadiness)
	r.Get("/health/live", s.handleLiveness)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/recipes", s.handleCreateRecipe)
		r.Post("/seeds", s.handleNewSeed)
		r.Get("/seeds/daily", s.handleDailySeed)
		r.Post("/quizzes", s.handleCreateQuiz)
		r.Post("/quizzes/{quizID}/submit", s.handleGradeQuiz)
		r.Get("/campaign/floors/{floor}", s.handleFloorInfo)
		r.Post("/campaign/submit", s.handleCampaignSubmit)
		r.Get("/campaign/progress/{userID}", s.handleProgress)
		r.Get("/campaign/achievements/{userID}", s.handleAchievements)
	})

	return r
}

// writeJSON writes a JSON response with proper headers
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Engine-Version", EngineVersion)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// If encoding fails, try to write a simple error response
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeError writes a structured error response
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, errType, message string, context map[string]interface{}) {
	engineErr := NewError(errType, message).
		WithRequestID(middleware.GetReqID(r.Context())).
		Build()
	for k, v := range context {
		engineErr.Context[k] = v
	}

	s.errorHandler.logError(r, engineErr, status)
	s.errorHandler.writeErrorResponse(w, status, engineErr)
}
