package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/leanfuel/internal/mealplan"
	"github.com/dukerupert/leanfuel/internal/model"
	"github.com/dukerupert/leanfuel/internal/store"
	"github.com/dukerupert/leanfuel/internal/tracking"
	ws "github.com/dukerupert/leanfuel/internal/websocket"
)

type FoodLogHandler struct {
	logStore *store.FoodLogStore
	plans    mealplan.Repository
	hub      ws.Broadcaster
	logger   *slog.Logger
	now      func() time.Time
}

func NewFoodLogHandler(fs *store.FoodLogStore, plans mealplan.Repository, hub ws.Broadcaster, logger *slog.Logger) *FoodLogHandler {
	return &FoodLogHandler{logStore: fs, plans: plans, hub: broadcasterOrNop(hub), logger: logger, now: time.Now}
}

type foodLogView struct {
	model.FoodLog
	Totals model.NutritionTotals `json:"totals"`
}

type burnedRequest struct {
	CaloriesBurned int `json:"calories_burned"`
}

type addMealRequest struct {
	PlanID string `json:"plan_id"`
	Day    int    `json:"day"`
	Slot   string `json:"slot"`
	Index  int    `json:"index"`
}

type weeklyReport struct {
	Start  string                `json:"start"`
	End    string                `json:"end"`
	Totals model.NutritionTotals `json:"totals"`
	Days   []model.FoodLog       `json:"days"`
}

func (h *FoodLogHandler) dateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	date, err := tracking.ParseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return date, true
}

// Dates handles GET /api/food-logs
func (h *FoodLogHandler) Dates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.logStore.Dates()
	if err != nil {
		h.logger.Error("list log dates", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list logs")
		return
	}
	writeJSON(w, http.StatusOK, dates)
}

// Get handles GET /api/food-logs/{date}
func (h *FoodLogHandler) Get(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}
	h.writeLog(w, http.StatusOK, date)
}

// AddFood handles POST /api/food-logs/{date}/foods
func (h *FoodLogHandler) AddFood(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	var req model.FoodItem
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	food, err := tracking.NewFood(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.addFood(w, date, food)
}

// AddMeal handles POST /api/food-logs/{date}/meals. Day is 1-based.
func (h *FoodLogHandler) AddMeal(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	var req addMealRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	days, err := h.plans.Days(req.PlanID)
	if errors.Is(err, mealplan.ErrPlanNotFound) {
		writeError(w, http.StatusNotFound, "meal plan not found")
		return
	}
	if err != nil {
		h.logger.Error("get meal plan days", "id", req.PlanID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get meal plan")
		return
	}
	if req.Day < 1 || req.Day > len(days) {
		writeError(w, http.StatusBadRequest, "day is out of range")
		return
	}
	meal, ok := days[req.Day-1].Slot(req.Slot, req.Index)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown meal slot")
		return
	}
	h.addFood(w, date, tracking.FoodFromMeal(meal))
}

func (h *FoodLogHandler) addFood(w http.ResponseWriter, date string, food model.FoodItem) {
	if _, err := h.logStore.AddFood(date, food); err != nil {
		h.logger.Error("add food", "date", date, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add food")
		return
	}
	h.hub.Broadcast(ws.NewMessage(ws.EntityFoodLog, "food_added", date, food))
	h.writeLog(w, http.StatusCreated, date)
}

// RemoveFood handles DELETE /api/food-logs/{date}/foods/{id}
func (h *FoodLogHandler) RemoveFood(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	removed, err := h.logStore.RemoveFood(date, id)
	if err != nil {
		h.logger.Error("remove food", "date", date, "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to remove food")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "food not found")
		return
	}

	h.hub.Broadcast(ws.NewMessage(ws.EntityFoodLog, "food_removed", date, map[string]string{"food_id": id}))
	h.writeLog(w, http.StatusOK, date)
}

// SetCaloriesBurned handles PUT /api/food-logs/{date}/calories-burned
func (h *FoodLogHandler) SetCaloriesBurned(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	var req burnedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.CaloriesBurned < 0 {
		writeError(w, http.StatusBadRequest, "calories_burned must not be negative")
		return
	}

	if err := h.logStore.SetCaloriesBurned(date, req.CaloriesBurned); err != nil {
		h.logger.Error("set calories burned", "date", date, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update log")
		return
	}

	h.hub.Broadcast(ws.NewMessage(ws.EntityFoodLog, "updated", date, nil))
	h.writeLog(w, http.StatusOK, date)
}

// Weekly handles GET /api/reports/weekly?start=&end=. Without start the
// report covers the seven days ending on end, which defaults to today.
func (h *FoodLogHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	endDay := h.now()
	if v := q.Get("end"); v != "" {
		t, err := time.Parse(tracking.DateLayout, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, tracking.ErrInvalidDate.Error())
			return
		}
		endDay = t
	}
	start, end := tracking.WeekRange(endDay)
	if v := q.Get("start"); v != "" {
		s, err := tracking.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		start = s
	}
	if start > end {
		writeError(w, http.StatusBadRequest, tracking.ErrInvalidRange.Error())
		return
	}

	logs, err := h.logStore.ListRange(start, end)
	if err != nil {
		h.logger.Error("list food logs", "start", start, "end", end, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	writeJSON(w, http.StatusOK, weeklyReport{
		Start:  start,
		End:    end,
		Totals: tracking.WeeklyTotals(logs, start, end),
		Days:   logs,
	})
}

func (h *FoodLogHandler) writeLog(w http.ResponseWriter, status int, date string) {
	log, err := h.logStore.Get(date)
	if err != nil {
		h.logger.Error("get food log", "date", date, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get log")
		return
	}
	writeJSON(w, status, foodLogView{FoodLog: *log, Totals: tracking.DayTotals(*log)})
}
