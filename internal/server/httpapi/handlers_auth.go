package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gallery/internal/common"
	"github.com/dmitrijs2005/gallery/internal/server/services"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.users.Register(r.Context(), req.Username, req.Password, req.Email); err != nil {
		if services.IsValidationError(err) {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		s.internalError(w, r, "registration failed", err)
		return
	}

	writeSuccess(w, nil, "registration successful")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if services.IsValidationError(err) {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		s.internalError(w, r, "login failed", err)
		return
	}

	writeSuccess(w, loginResponse{Token: token, User: newUserView(user)}, "login successful")
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeFail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := s.users.CurrentUser(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeFail(w, http.StatusNotFound, "user not found")
			return
		}
		s.internalError(w, r, "current user lookup failed", err)
		return
	}

	writeSuccess(w, newUserView(user), "ok")
}

// internalError logs the cause server-side and returns the opaque 500
// envelope.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.logger.Error(r.Context(), msg, "path", r.URL.Path, "error", err.Error())
	writeFail(w, http.StatusInternalServerError, "internal server error")
}
