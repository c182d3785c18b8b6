package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/leanfuel/internal/entitlement"
	"github.com/dukerupert/leanfuel/internal/grocery"
	"github.com/dukerupert/leanfuel/internal/mealplan"
	"github.com/dukerupert/leanfuel/internal/model"
)

type MealPlanHandler struct {
	plans  mealplan.Repository
	ent    Entitlements
	logger *slog.Logger
}

func NewMealPlanHandler(plans mealplan.Repository, ent Entitlements, logger *slog.Logger) *MealPlanHandler {
	return &MealPlanHandler{plans: plans, ent: ent, logger: logger}
}

type planDetail struct {
	mealplan.Plan
	Days []mealplan.DayMeals `json:"days"`
}

type groceryListResponse struct {
	PlanID     string              `json:"plan_id"`
	Items      []model.GroceryItem `json:"items"`
	Categories []string            `json:"categories"`
}

// List handles GET /api/meal-plans
func (h *MealPlanHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.plans.List())
}

// Get handles GET /api/meal-plans/{id}
func (h *MealPlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	plan, days, ok := h.loadPlan(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, planDetail{Plan: *plan, Days: days})
}

// GroceryList handles POST /api/meal-plans/{id}/grocery-list. The list is
// generated but not saved.
func (h *MealPlanHandler) GroceryList(w http.ResponseWriter, r *http.Request) {
	plan, days, ok := h.loadPlan(w, r)
	if !ok {
		return
	}
	items := grocery.FromDays(days)
	writeJSON(w, http.StatusOK, groceryListResponse{
		PlanID:     plan.ID,
		Items:      items,
		Categories: grocery.CategoriesWithItems(items),
	})
}

// loadPlan resolves the {id} path value. See resolvePlan.
func (h *MealPlanHandler) loadPlan(w http.ResponseWriter, r *http.Request) (*mealplan.Plan, []mealplan.DayMeals, bool) {
	return resolvePlan(w, r.PathValue("id"), h.plans, h.ent, h.logger)
}

// resolvePlan looks up a plan and its days and enforces the premium gate. It
// writes the error response itself and reports whether to continue.
func resolvePlan(w http.ResponseWriter, id string, plans mealplan.Repository, ent Entitlements, logger *slog.Logger) (*mealplan.Plan, []mealplan.DayMeals, bool) {
	plan, err := plans.Get(id)
	if errors.Is(err, mealplan.ErrPlanNotFound) {
		writeError(w, http.StatusNotFound, "meal plan not found")
		return nil, nil, false
	}
	if err != nil {
		logger.Error("get meal plan", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get meal plan")
		return nil, nil, false
	}

	if plan.Premium {
		ok, err := ent.IsEntitled(entitlement.FeaturePremiumMealPlans)
		if err != nil {
			logger.Error("check entitlement", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to check subscription")
			return nil, nil, false
		}
		if !ok {
			writePremiumRequired(w, entitlement.FeaturePremiumMealPlans)
			return nil, nil, false
		}
	}

	days, err := plans.Days(id)
	if err != nil {
		logger.Error("get meal plan days", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get meal plan")
		return nil, nil, false
	}
	return plan, days, true
}
