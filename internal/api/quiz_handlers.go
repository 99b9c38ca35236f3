package api

import (
	"net/http"

	"github.com/bidouilles/multimaster/internal/errors"
)

type startQuizRequest struct {
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
	Tables     []int  `json:"tables"`
}

func (s *Server) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req startQuizRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	state, err := s.QuizService.Start(r.Context(), user, req.Mode, req.Difficulty, req.Tables)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleQuizQuestion(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		handleError(w, r, errors.NewUnauthorizedError("no authenticated user"))
		return
	}

	question, err := s.QuizService.NextQuestion(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

type quizAnswerRequest struct {
	Answer       int     `json:"answer"`
	ResponseTime float64 `json:"response_time"`
}

func (s *Server) handleQuizAnswer(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		handleError(w, r, errors.NewUnauthorizedError("no authenticated user"))
		return
	}

	var req quizAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.QuizService.SubmitAnswer(r.Context(), user.ID, req.Answer, req.ResponseTime)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleQuizBoard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		handleError(w, r, errors.NewUnauthorizedError("no authenticated user"))
		return
	}

	board, err := s.QuizService.Board(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

type quizMatchRequest struct {
	FirstID  int `json:"first_id"`
	SecondID int `json:"second_id"`
}

func (s *Server) handleQuizMatch(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		handleError(w, r, errors.NewUnauthorizedError("no authenticated user"))
		return
	}

	var req quizMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.QuizService.MatchCards(r.Context(), user.ID, req.FirstID, req.SecondID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleEndQuiz(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		handleError(w, r, errors.NewUnauthorizedError("no authenticated user"))
		return
	}

	summary, err := s.QuizService.End(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleQuizState(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		handleError(w, r, errors.NewUnauthorizedError("no authenticated user"))
		return
	}

	state, err := s.QuizService.State(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
