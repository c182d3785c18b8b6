// Package tracking holds the pure food-log calculations.
package tracking

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/leanfuel/internal/mealplan"
	"github.com/dukerupert/leanfuel/internal/model"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidDate  = errors.New("date must be YYYY-MM-DD")
	ErrInvalidRange = errors.New("start date is after end date")
	ErrInvalidFood  = errors.New("food needs a name and non-negative values")
)

// ParseDate validates a YYYY-MM-DD date and returns it unchanged.
func ParseDate(s string) (string, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", ErrInvalidDate
	}
	return s, nil
}

// WeekRange returns the seven days ending on end, inclusive.
func WeekRange(end time.Time) (string, string) {
	return end.AddDate(0, 0, -6).Format(DateLayout), end.Format(DateLayout)
}

// WeeklyTotals sums the logs whose date falls within [start, end]. Dates
// compare as strings, which orders correctly for YYYY-MM-DD.
func WeeklyTotals(logs []model.FoodLog, start, end string) model.NutritionTotals {
	var t model.NutritionTotals
	for _, l := range logs {
		if l.Date < start || l.Date > end {
			continue
		}
		t.DaysLogged++
		t.CaloriesBurned += l.CaloriesBurned
		for _, f := range l.Foods {
			t.Calories += f.Calories
			t.Carbs += f.Carbs
			t.Protein += f.Protein
			t.Fat += f.Fat
		}
	}
	t.NetCalories = t.Calories - t.CaloriesBurned
	return t
}

// DayTotals sums a single day's foods.
func DayTotals(l model.FoodLog) model.NutritionTotals {
	return WeeklyTotals([]model.FoodLog{l}, l.Date, l.Date)
}

// NewFood normalizes a food entered by the user and gives it an id.
func NewFood(f model.FoodItem) (model.FoodItem, error) {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" || f.Calories < 0 || f.Carbs < 0 || f.Protein < 0 || f.Fat < 0 {
		return model.FoodItem{}, ErrInvalidFood
	}
	if strings.TrimSpace(f.ServingSize) == "" {
		f.ServingSize = model.DefaultServingSize
	}
	f.ID = uuid.NewString()
	return f, nil
}

// FoodFromMeal converts a plan meal into a log entry. Plan meals carry no
// macros, so those start at zero.
func FoodFromMeal(m mealplan.Meal) model.FoodItem {
	return model.FoodItem{
		ID:          uuid.NewString(),
		Name:        m.Name,
		Calories:    m.Calories,
		ServingSize: model.DefaultServingSize,
	}
}
