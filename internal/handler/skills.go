package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/skill-log/internal/service"
)

// SkillHandler serves the catalog and the derived skill reports.
type SkillHandler struct {
	skills *service.SkillService
	logger *slog.Logger
}

func NewSkillHandler(skills *service.SkillService, logger *slog.Logger) *SkillHandler {
	return &SkillHandler{skills: skills, logger: logger}
}

// HandleCatalog handles GET /api/skills/catalog.
func (h *SkillHandler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.skills.Catalog())
}

// HandleProfile handles GET /api/users/{name}/skills.
func (h *SkillHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	skills, err := h.skills.Profile(r.Context(), pathParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, skills)
}

// HandleAdminOverview handles GET /api/admin/skills.
func (h *SkillHandler) HandleAdminOverview(w http.ResponseWriter, r *http.Request) {
	skills, err := h.skills.AdminOverview(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, skills)
}
