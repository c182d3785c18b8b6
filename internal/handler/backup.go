package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/dukerupert/leanfuel/internal/backup"
)

type BackupHandler struct {
	manager    *backup.Manager
	passphrase string
	logger     *slog.Logger
}

func NewBackupHandler(m *backup.Manager, passphrase string, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{manager: m, passphrase: passphrase, logger: logger}
}

// Status handles GET /api/backups/status
func (h *BackupHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.Status())
}

// List handles GET /api/backups
func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	backups, err := h.manager.List()
	if err != nil {
		h.logger.Error("list backups", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list backups")
		return
	}
	writeJSON(w, http.StatusOK, backups)
}

// Run handles POST /api/backups. It blocks until the backup finishes.
func (h *BackupHandler) Run(w http.ResponseWriter, r *http.Request) {
	b, err := h.manager.RunNow(r.Context(), h.passphrase)
	switch {
	case errors.Is(err, backup.ErrNotConfigured), errors.Is(err, backup.ErrNoPassphrase):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case errors.Is(err, backup.ErrInProgress):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "backup failed")
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// Download handles GET /api/backups/{id}/download. The file stays encrypted.
func (h *BackupHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	body, rec, err := h.manager.Download(r.Context(), id)
	switch {
	case errors.Is(err, backup.ErrBackupNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, backup.ErrNotCompleted):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, backup.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		h.logger.Error("download backup", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to download backup")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.Filename))
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("stream backup", "id", id, "error", err)
	}
}
