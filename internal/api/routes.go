package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(s.userMiddleware)

	r.Post("/users", s.handleRegisterUser)
	r.Post("/users/select", s.handleSelectUser)
	r.Get("/me", s.handleMe)

	r.Post("/attempts", s.handleRecordAttempt)
	r.Get("/weak-points", s.handleWeakPoints)
	r.Get("/questions/next", s.handleNextPracticeQuestion)

	r.Post("/sessions", s.handleSaveSession)
	r.Get("/sessions/recent", s.handleRecentSessions)
	r.Get("/sessions", s.handleSessionsByDifficulty)
	r.Get("/tables/{table}/average", s.handleAverageScoreForTable)
	r.Get("/leaderboard", s.handleLeaderboard)

	r.Post("/quiz/start", s.handleStartQuiz)
	r.Get("/quiz/question", s.handleQuizQuestion)
	r.Post("/quiz/answer", s.handleQuizAnswer)
	r.Get("/quiz/board", s.handleQuizBoard)
	r.Post("/quiz/match", s.handleQuizMatch)
	r.Post("/quiz/end", s.handleEndQuiz)
	r.Get("/quiz/state", s.handleQuizState)

	return r
}
