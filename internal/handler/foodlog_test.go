package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/dukerupert/leanfuel/internal/model"
)

func newFoodLogHandler(env *testEnv) *FoodLogHandler {
	h := NewFoodLogHandler(env.foodLog, env.plans, env.hub, env.logger)
	h.now = func() time.Time { return time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC) }
	return h
}

func TestFoodLogAddAndRemove(t *testing.T) {
	env := setupHandlerTest(t)
	h := newFoodLogHandler(env)

	rec := do(t, h.Get, "GET", "/api/food-logs/2024-03-01", "", "date", "2024-03-01")
	wantStatus(t, rec, http.StatusOK)
	empty := decode[foodLogView](t, rec)
	if len(empty.Foods) != 0 || empty.Date != "2024-03-01" {
		t.Errorf("unexpected empty log %+v", empty)
	}

	rec = do(t, h.AddFood, "POST", "/api/food-logs/2024-03-01/foods",
		`{"name":"Greek yogurt","calories":150,"carbs":8,"protein":15,"fat":4}`, "date", "2024-03-01")
	wantStatus(t, rec, http.StatusCreated)
	log := decode[foodLogView](t, rec)
	if len(log.Foods) != 1 {
		t.Fatalf("foods = %d, want 1", len(log.Foods))
	}
	food := log.Foods[0]
	if food.ServingSize != model.DefaultServingSize {
		t.Errorf("serving size = %q, want default", food.ServingSize)
	}
	if log.Totals.Calories != 150 || log.Totals.Protein != 15 {
		t.Errorf("totals = %+v", log.Totals)
	}

	rec = do(t, h.RemoveFood, "DELETE", "/api/food-logs/2024-03-01/foods/"+food.ID, "", "date", "2024-03-01", "id", food.ID)
	wantStatus(t, rec, http.StatusOK)
	rec = do(t, h.RemoveFood, "DELETE", "/api/food-logs/2024-03-01/foods/"+food.ID, "", "date", "2024-03-01", "id", food.ID)
	wantStatus(t, rec, http.StatusNotFound)

	rec = do(t, h.Dates, "GET", "/api/food-logs", "")
	wantStatus(t, rec, http.StatusOK)
	if dates := decode[[]string](t, rec); len(dates) != 1 || dates[0] != "2024-03-01" {
		t.Errorf("dates = %v", dates)
	}
}

func TestFoodLogValidation(t *testing.T) {
	env := setupHandlerTest(t)
	h := newFoodLogHandler(env)

	tests := []struct {
		name string
		fn   http.HandlerFunc
		date string
		body string
	}{
		{"bad date", h.Get, "03/01/2024", ""},
		{"blank food name", h.AddFood, "2024-03-01", `{"name":" ","calories":100}`},
		{"negative calories", h.AddFood, "2024-03-01", `{"name":"Apple","calories":-5}`},
		{"negative burned", h.SetCaloriesBurned, "2024-03-01", `{"calories_burned":-1}`},
		{"unknown slot", h.AddMeal, "2024-03-01", `{"plan_id":"clean-eating","day":1,"slot":"brunch"}`},
		{"day out of range", h.AddMeal, "2024-03-01", `{"plan_id":"clean-eating","day":8,"slot":"lunch"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, tt.fn, "POST", "/", tt.body, "date", tt.date)
			wantStatus(t, rec, http.StatusBadRequest)
		})
	}
}

func TestFoodLogAddMeal(t *testing.T) {
	env := setupHandlerTest(t)
	h := newFoodLogHandler(env)

	days, _ := env.plans.Days("clean-eating")
	want := days[1].Lunch

	rec := do(t, h.AddMeal, "POST", "/api/food-logs/2024-03-02/meals",
		`{"plan_id":"clean-eating","day":2,"slot":"lunch"}`, "date", "2024-03-02")
	wantStatus(t, rec, http.StatusCreated)
	log := decode[foodLogView](t, rec)
	if len(log.Foods) != 1 {
		t.Fatalf("foods = %d, want 1", len(log.Foods))
	}
	got := log.Foods[0]
	if got.Name != want.Name || got.Calories != want.Calories || got.ServingSize != "1 serving" {
		t.Errorf("food = %+v, want meal %q (%d kcal)", got, want.Name, want.Calories)
	}

	rec = do(t, h.AddMeal, "POST", "/", `{"plan_id":"paleo","day":1,"slot":"lunch"}`, "date", "2024-03-02")
	wantStatus(t, rec, http.StatusNotFound)
}

func TestFoodLogWeekly(t *testing.T) {
	env := setupHandlerTest(t)
	h := newFoodLogHandler(env)

	env.foodLog.AddFood("2024-02-29", model.FoodItem{ID: "old", Name: "Pizza", Calories: 900, ServingSize: "2 slices"})
	env.foodLog.AddFood("2024-03-01", model.FoodItem{ID: "a", Name: "Oats", Calories: 300, Carbs: 54, ServingSize: "1 bowl"})
	env.foodLog.AddFood("2024-03-07", model.FoodItem{ID: "b", Name: "Salmon", Calories: 400, Protein: 40, ServingSize: "1 fillet"})
	env.foodLog.SetCaloriesBurned("2024-03-07", 200)

	rec := do(t, h.Weekly, "GET", "/api/reports/weekly", "")
	wantStatus(t, rec, http.StatusOK)
	report := decode[weeklyReport](t, rec)
	if report.Start != "2024-03-01" || report.End != "2024-03-07" {
		t.Errorf("range = %s..%s", report.Start, report.End)
	}
	want := model.NutritionTotals{Calories: 700, CaloriesBurned: 200, NetCalories: 500, Carbs: 54, Protein: 40, DaysLogged: 2}
	if report.Totals != want {
		t.Errorf("totals = %+v, want %+v", report.Totals, want)
	}

	rec = do(t, h.Weekly, "GET", "/api/reports/weekly?start=2024-02-29&end=2024-03-01", "")
	wantStatus(t, rec, http.StatusOK)
	if got := decode[weeklyReport](t, rec).Totals.Calories; got != 1200 {
		t.Errorf("calories = %d, want 1200", got)
	}

	rec = do(t, h.Weekly, "GET", "/api/reports/weekly?start=2024-03-08&end=2024-03-01", "")
	wantStatus(t, rec, http.StatusBadRequest)
	rec = do(t, h.Weekly, "GET", "/api/reports/weekly?end=yesterday", "")
	wantStatus(t, rec, http.StatusBadRequest)
}
