package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"loadestimator/internal/middleware"
	"loadestimator/internal/models"
	"loadestimator/internal/services"
)

type ProjectHandler struct {
	projects *services.ProjectService
	logr     *zap.Logger
}

func NewProjectHandler(svc *services.ProjectService, logr *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projects: svc, logr: logr}
}

// List handles GET /projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	username := middleware.Username(r.Context())

	summaries, err := h.projects.List(r.Context(), username)
	if err != nil {
		h.logr.Error("failed to list projects", zap.Error(err), zap.String("username", username))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"projects": summaries,
		"count":    len(summaries),
	})
}

// Save handles PUT /projects/{name}: create on first save, update
// (preserving created_at) on re-save.
func (h *ProjectHandler) Save(w http.ResponseWriter, r *http.Request) {
	username := middleware.Username(r.Context())
	name := chi.URLParam(r, "name")

	var cfg models.ProjectConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	cfg.ID = name

	saved, err := h.projects.Save(r.Context(), username, cfg)
	if err != nil {
		h.logr.Warn("save failed", zap.Error(err),
			zap.String("username", username), zap.String("project", name))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, saved)
}

// Load handles GET /projects/{name}. Legacy records are rejected with a
// clear cannot-restore signal.
func (h *ProjectHandler) Load(w http.ResponseWriter, r *http.Request) {
	username := middleware.Username(r.Context())
	name := chi.URLParam(r, "name")

	cfg, err := h.projects.Load(r.Context(), username, name)
	if err != nil {
		h.logr.Warn("load failed", zap.Error(err),
			zap.String("username", username), zap.String("project", name))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}

// Delete handles DELETE /projects/{name}. Without a confirm token it
// opens the two-step gate and answers 409 with the token; with a valid
// token it deletes the record.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := middleware.Username(r.Context())
	name := chi.URLParam(r, "name")
	confirm := r.URL.Query().Get("confirm")

	if confirm == "" {
		token, err := h.projects.RequestDelete(r.Context(), username, name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusConflict, map[string]string{
			"code":          "CONFIRMATION_REQUIRED",
			"message":       "repeat the delete with the confirm token to proceed",
			"confirm_token": token,
		})
		return
	}

	if err := h.projects.ConfirmDelete(r.Context(), username, name, confirm); err != nil {
		h.logr.Warn("delete failed", zap.Error(err),
			zap.String("username", username), zap.String("project", name))
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CancelDelete handles POST /projects/{name}/delete-cancel. The record
// stays untouched and retrievable.
func (h *ProjectHandler) CancelDelete(w http.ResponseWriter, r *http.Request) {
	username := middleware.Username(r.Context())
	name := chi.URLParam(r, "name")

	h.projects.CancelDelete(username, name)
	writeJSON(w, http.StatusOK, map[string]string{"message": "delete cancelled"})
}
