package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/leanfuel/internal/model"
	"github.com/dukerupert/leanfuel/internal/reminder"
	"github.com/dukerupert/leanfuel/internal/store"
	ws "github.com/dukerupert/leanfuel/internal/websocket"
)

type ReminderHandler struct {
	reminderStore *store.ReminderStore
	hub           ws.Broadcaster
	loc           *time.Location
	logger        *slog.Logger
	now           func() time.Time
}

func NewReminderHandler(rs *store.ReminderStore, hub ws.Broadcaster, loc *time.Location, logger *slog.Logger) *ReminderHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ReminderHandler{reminderStore: rs, hub: broadcasterOrNop(hub), loc: loc, logger: logger, now: time.Now}
}

type reminderView struct {
	model.Reminder
	NextFire *time.Time `json:"next_fire,omitempty"`
}

type reminderRequest struct {
	Enabled   *bool   `json:"enabled"`
	Times     *string `json:"times"`
	Days      *[]int  `json:"days"`
	Frequency *string `json:"frequency"`
	Message   *string `json:"message"`
}

func (h *ReminderHandler) view(r model.Reminder) reminderView {
	v := reminderView{Reminder: r}
	if r.Enabled {
		if next, ok := reminder.NextFire(r, h.now().In(h.loc)); ok {
			v.NextFire = &next
		}
	}
	return v
}

// List handles GET /api/reminders
func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.reminderStore.List()
	if err != nil {
		h.logger.Error("list reminders", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list reminders")
		return
	}
	views := make([]reminderView, len(reminders))
	for i, rem := range reminders {
		views[i] = h.view(rem)
	}
	writeJSON(w, http.StatusOK, views)
}

// Update handles PATCH /api/reminders/{id}. Omitted fields keep their value.
func (h *ReminderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req reminderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.reminderStore.GetByID(id)
	if err != nil {
		h.logger.Error("get reminder", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update reminder")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "reminder not found")
		return
	}

	rem := *existing
	if req.Enabled != nil {
		rem.Enabled = *req.Enabled
	}
	if req.Times != nil {
		rem.Times = *req.Times
	}
	if req.Days != nil {
		rem.Days = *req.Days
	}
	if req.Frequency != nil {
		rem.Frequency = *req.Frequency
	}
	if req.Message != nil {
		rem.Message = *req.Message
	}
	if err := reminder.Validate(rem); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.reminderStore.Update(rem)
	if err != nil {
		h.logger.Error("update reminder", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update reminder")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "reminder not found")
		return
	}

	h.hub.Broadcast(ws.NewMessage(ws.EntityReminder, "updated", updated.ID, nil))
	writeJSON(w, http.StatusOK, h.view(*updated))
}
