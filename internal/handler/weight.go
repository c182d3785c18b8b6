package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/leanfuel/internal/model"
	"github.com/dukerupert/leanfuel/internal/store"
	"github.com/dukerupert/leanfuel/internal/tracking"
	ws "github.com/dukerupert/leanfuel/internal/websocket"
)

type WeightHandler struct {
	weightStore  *store.WeightStore
	profileStore *store.ProfileStore
	hub          ws.Broadcaster
	logger       *slog.Logger
	now          func() time.Time
}

func NewWeightHandler(wst *store.WeightStore, ps *store.ProfileStore, hub ws.Broadcaster, logger *slog.Logger) *WeightHandler {
	return &WeightHandler{weightStore: wst, profileStore: ps, hub: broadcasterOrNop(hub), logger: logger, now: time.Now}
}

type weightRequest struct {
	Weight float64 `json:"weight"`
	Date   string  `json:"date"`
}

type weightProgress struct {
	Entries []model.WeightEntry `json:"entries"`
	Unit    model.WeightUnit    `json:"unit"`
	Current *float64            `json:"current,omitempty"`
	Goal    *float64            `json:"goal,omitempty"`
	ToGoal  *float64            `json:"to_goal,omitempty"`
}

type weightTrends struct {
	Weeks []model.WeeklyWeight `json:"weeks"`
	Trend model.WeightTrend    `json:"trend"`
}

// goal reads the target weight and unit from onboarding. An unreadable
// profile means no goal.
func (h *WeightHandler) goal() (float64, model.WeightUnit) {
	p, err := h.profileStore.Get()
	if errors.Is(err, store.ErrCorruptProfile) {
		h.logger.Warn("ignoring unreadable profile for weight goal", "error", err)
		return 0, model.UnitKg
	}
	if err != nil {
		h.logger.Error("get profile", "error", err)
		return 0, model.UnitKg
	}
	if p == nil {
		return 0, model.UnitKg
	}
	unit := p.Data.WeightUnit
	if unit == "" {
		unit = model.UnitKg
	}
	return p.Data.TargetWeight, unit
}

// List handles GET /api/weights
func (h *WeightHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.weightStore.List()
	if err != nil {
		h.logger.Error("list weights", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list weights")
		return
	}

	goal, unit := h.goal()
	resp := weightProgress{Entries: entries, Unit: unit}
	if len(entries) > 0 {
		current := entries[len(entries)-1].Weight
		resp.Current = &current
	}
	if goal > 0 {
		resp.Goal = &goal
	}
	if remaining, ok := tracking.ToGoal(entries, goal); ok {
		resp.ToGoal = &remaining
	}
	writeJSON(w, http.StatusOK, resp)
}

// Record handles POST /api/weights. Date defaults to today; a second
// weigh-in on the same date replaces the first.
func (h *WeightHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req weightRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Date == "" {
		req.Date = h.now().Format(tracking.DateLayout)
	}
	date, err := tracking.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := tracking.ValidateWeight(req.Weight); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.weightStore.Record(date, req.Weight)
	if err != nil {
		h.logger.Error("record weight", "date", date, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record weight")
		return
	}

	h.hub.Broadcast(ws.NewMessage(ws.EntityWeight, "recorded", entry.Date, entry))
	writeJSON(w, http.StatusCreated, entry)
}

// Delete handles DELETE /api/weights/{date}
func (h *WeightHandler) Delete(w http.ResponseWriter, r *http.Request) {
	date, err := tracking.ParseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	removed, err := h.weightStore.Delete(date)
	if err != nil {
		h.logger.Error("delete weight", "date", date, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete weight")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "weight entry not found")
		return
	}

	h.hub.Broadcast(ws.NewMessage(ws.EntityWeight, "deleted", date, nil))
	w.WriteHeader(http.StatusNoContent)
}

// Trends handles GET /api/weights/trends
func (h *WeightHandler) Trends(w http.ResponseWriter, r *http.Request) {
	entries, err := h.weightStore.List()
	if err != nil {
		h.logger.Error("list weights", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list weights")
		return
	}
	weeks := tracking.WeeklyAverages(entries)
	writeJSON(w, http.StatusOK, weightTrends{Weeks: weeks, Trend: tracking.Trend(weeks)})
}
