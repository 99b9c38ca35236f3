package api

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/bidouilles/multimaster/internal/difficulty"
	"github.com/bidouilles/multimaster/internal/errors"
	"github.com/bidouilles/multimaster/internal/logger"
	"github.com/bidouilles/multimaster/internal/models"
)

type recordAttemptRequest struct {
	Table      int  `json:"table"`
	Multiplier int  `json:"multiplier"`
	IsCorrect  bool `json:"is_correct"`
}

func (s *Server) handleRecordAttempt(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		handleError(w, r, errors.NewUnauthorizedError("must be authenticated to record attempts"))
		return
	}

	var req recordAttemptRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.DifficultyService.RecordAttempt(r.Context(), user.ID, req.Table, req.Multiplier, req.IsCorrect); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWeakPoints(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	user := userFromContext(r.Context())
	if user == nil {
		// Reads degrade instead of failing.
		writeJSON(w, http.StatusOK, map[string]any{
			"weak_points":   []models.FactDifficulty{},
			"probabilities": map[string]float64{},
		})
		return
	}

	weakPoints, err := s.DifficultyService.GetWeakPoints(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if weakPoints == nil {
		weakPoints = []models.FactDifficulty{}
	}

	log.Debug("found %d weak points", len(weakPoints))
	writeJSON(w, http.StatusOK, map[string]any{
		"weak_points":   weakPoints,
		"probabilities": difficulty.CalculateProbability(weakPoints),
	})
}

// handleNextPracticeQuestion serves the standalone practice flow used by the
// learning page; quiz games hold their own generator.
func (s *Server) handleNextPracticeQuestion(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		handleError(w, r, errors.NewUnauthorizedError("must be authenticated to practice"))
		return
	}

	tables := parseTables(r.URL.Query().Get("tables"))
	for _, t := range tables {
		if t < 1 || t > 10 {
			handleError(w, r, errors.NewValidationError("tables", "entries must be between 1 and 10"))
			return
		}
	}

	weakPoints, err := s.DifficultyService.GetWeakPoints(r.Context(), user.ID)
	if err != nil {
		weakPoints = nil
	}

	gen := difficulty.NewGenerator(rand.NewSource(time.Now().UnixNano()))
	writeJSON(w, http.StatusOK, gen.Next(weakPoints, tables, nil))
}
