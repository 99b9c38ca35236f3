package api

import (
	"net/http"

	"github.com/bidouilles/multimaster/internal/errors"
	"github.com/bidouilles/multimaster/internal/logger"
)

type registerUserRequest struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req registerUserRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.UserService.RegisterUser(r.Context(), req.ID, req.DisplayName)
	if err != nil {
		handleError(w, r, err)
		return
	}

	setUserCookie(w, user.ID)
	log.Info("user registered: id=%s", user.ID)
	writeJSON(w, http.StatusOK, user)
}

type selectUserRequest struct {
	ID string `json:"id"`
}

// handleSelectUser switches the cookie identity to an existing user.
func (s *Server) handleSelectUser(w http.ResponseWriter, r *http.Request) {
	var req selectUserRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.UserService.GetUser(r.Context(), req.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	setUserCookie(w, user.ID)
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		handleError(w, r, errors.NewUnauthorizedError("no authenticated user"))
		return
	}
	writeJSON(w, http.StatusOK, user)
}
