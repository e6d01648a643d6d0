package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/skill-log/internal/model"
	"github.com/sakif/skill-log/internal/service"
)

// AdminHandler serves account management under /api/admin/users.
type AdminHandler struct {
	admin  *service.AdminService
	logger *slog.Logger
}

func NewAdminHandler(admin *service.AdminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, logger: logger}
}

func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var input model.NewAccount
	if err := decodeJSON(r, &input, false); err != nil {
		writeError(w, err)
		return
	}

	account, err := h.admin.CreateUser(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// HandleUpdateUser handles PATCH /api/admin/users/{id}. The body may carry
// only name, password and role; any other field is a 400.
func (h *AdminHandler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var patch model.AccountPatch
	if err := decodeJSON(r, &patch, true); err != nil {
		writeError(w, err)
		return
	}

	account, err := h.admin.UpdateUser(r.Context(), pathParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *AdminHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteUser(r.Context(), pathParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w)
}
