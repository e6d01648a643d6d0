package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/skill-log/internal/apperror"
	"github.com/sakif/skill-log/internal/model"
	"github.com/sakif/skill-log/internal/service"
)

// AuthHandler serves sign-up, sign-in and the public account directory.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// HandleSignUp handles POST /api/auth/signup.
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := decodeJSON(r, &creds, false); err != nil {
		writeError(w, err)
		return
	}

	account, err := h.auth.SignUp(r.Context(), creds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account.Public())
}

// HandleLogin handles POST /api/auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := decodeJSON(r, &creds, false); err != nil {
		writeError(w, err)
		return
	}

	account, err := h.auth.SignIn(r.Context(), creds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account.Public())
}

// HandleListUsers handles GET /api/users.
func (h *AuthHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.ListAllUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleGetUser handles GET /api/users/{name}. Only id and name are returned.
func (h *AuthHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")

	account, err := h.auth.GetUserByName(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	if account == nil {
		writeError(w, apperror.NotFound("user", name))
		return
	}
	writeJSON(w, http.StatusOK, model.Account{ID: account.ID, Name: account.Name})
}
