package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/skill-log/internal/middleware"
	"github.com/sakif/skill-log/internal/model"
	"github.com/sakif/skill-log/internal/service"
)

// LogHandler serves practice logs for owners (/api/logs) and moderators
// (/api/admin/logs).
type LogHandler struct {
	logs   *service.LogService
	logger *slog.Logger
}

func NewLogHandler(logs *service.LogService, logger *slog.Logger) *LogHandler {
	return &LogHandler{logs: logs, logger: logger}
}

// HandleList handles GET /api/logs?user_id=...&skill_name=...
func (h *LogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	logs, err := h.logs.List(r.Context(), q.Get("user_id"), q.Get("skill_name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// HandleCreate handles POST /api/logs. A status in the body is ignored.
func (h *LogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input model.NewPracticeLog
	if err := decodeJSON(r, &input, false); err != nil {
		writeError(w, err)
		return
	}

	log, err := h.logs.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

// HandleDelete handles DELETE /api/logs/{id} with body {"user_id": ...}.
func (h *LogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	var owner model.OwnerRef
	if err := decodeJSON(r, &owner, false); err != nil {
		writeError(w, err)
		return
	}

	if err := h.logs.Delete(r.Context(), pathParam(r, "id"), owner.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w)
}

// HandleListAll handles GET /api/admin/logs?skill_name=...&status=...
func (h *LogHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	logs, err := h.logs.ListAll(r.Context(), q.Get("skill_name"), model.LogStatus(q.Get("status")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// HandleUpdateStatus handles PATCH /api/admin/logs/{id}/status.
func (h *LogHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var change model.StatusChange
	if err := decodeJSON(r, &change, false); err != nil {
		writeError(w, err)
		return
	}

	id := pathParam(r, "id")
	if err := h.logs.UpdateStatus(r.Context(), id, change.Status); err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("moderation decision",
		slog.String("log_id", id),
		slog.String("status", string(change.Status)),
		slog.String("moderator_id", moderatorID(r)),
	)
	writeSuccess(w)
}

// HandleAdminDelete handles DELETE /api/admin/logs/{id}.
func (h *LogHandler) HandleAdminDelete(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if err := h.logs.AdminDelete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("moderation decision",
		slog.String("log_id", id),
		slog.String("status", "deleted"),
		slog.String("moderator_id", moderatorID(r)),
	)
	writeSuccess(w)
}

// moderatorID is the admin resolved by middleware.RequireAdmin. It is empty
// when the admin guard is not enforced.
func moderatorID(r *http.Request) string {
	if account, ok := middleware.AccountFromContext(r.Context()); ok {
		return account.ID
	}
	return ""
}
