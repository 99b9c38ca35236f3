package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bidouilles/multimaster/internal/errors"
	"github.com/bidouilles/multimaster/internal/logger"
	"github.com/bidouilles/multimaster/internal/models"
	"github.com/bidouilles/multimaster/internal/services"
)

func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	user := userFromContext(r.Context())

	var input services.SessionInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.StatsService.SaveSession(r.Context(), user, input); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("session saved: score=%d, difficulty=%s", input.Score, input.Difficulty)
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleRecentSessions(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		writeJSON(w, http.StatusOK, []models.GameSession{})
		return
	}

	limit := queryInt(r, "limit", s.RecentSessionsDefault)
	sessions := s.StatsService.GetRecentSessions(r.Context(), user.ID, limit)
	if sessions == nil {
		sessions = []models.GameSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleSessionsByDifficulty(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		writeJSON(w, http.StatusOK, []models.GameSession{})
		return
	}

	difficulty := r.URL.Query().Get("difficulty")
	if !models.ValidDifficulty(difficulty) {
		handleError(w, r, errors.NewValidationError("difficulty", "must be 'easy', 'medium', or 'hard'"))
		return
	}

	sessions := s.StatsService.GetSessionsByDifficulty(r.Context(), user.ID, difficulty)
	if sessions == nil {
		sessions = []models.GameSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleAverageScoreForTable(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		writeJSON(w, http.StatusOK, map[string]float64{"average_score": 0})
		return
	}

	table, err := strconv.Atoi(chi.URLParam(r, "table"))
	if err != nil || table < 1 || table > 10 {
		handleError(w, r, errors.NewValidationError("table", "must be between 1 and 10"))
		return
	}

	avg := s.StatsService.GetAverageScoreForTable(r.Context(), user.ID, table)
	writeJSON(w, http.StatusOK, map[string]float64{"average_score": avg})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", s.LeaderboardLimit)
	rankings := s.StatsService.GetTopPlayers(r.Context(), limit)
	if rankings == nil {
		rankings = []models.UserRanking{}
	}
	writeJSON(w, http.StatusOK, rankings)
}
