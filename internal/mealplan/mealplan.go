package mealplan

import "errors"

var ErrPlanNotFound = errors.New("meal plan not found")

// Meal is a single recipe within a plan day. PrepTime is in minutes.
type Meal struct {
	Name         string   `json:"name" yaml:"name"`
	Calories     int      `json:"calories" yaml:"calories"`
	PrepTime     int      `json:"prep_time" yaml:"prep_time"`
	Ingredients  []string `json:"ingredients" yaml:"ingredients"`
	Instructions []string `json:"instructions,omitempty" yaml:"instructions"`
}

// DayMeals is one day of a plan. Snacks may be empty.
type DayMeals struct {
	Breakfast Meal   `json:"breakfast" yaml:"breakfast"`
	Lunch     Meal   `json:"lunch" yaml:"lunch"`
	Dinner    Meal   `json:"dinner" yaml:"dinner"`
	Snacks    []Meal `json:"snacks" yaml:"snacks"`
}

// Slot returns the meal in the named slot. index selects the snack and is
// ignored for the other slots.
func (d DayMeals) Slot(slot string, index int) (Meal, bool) {
	switch slot {
	case "breakfast":
		return d.Breakfast, true
	case "lunch":
		return d.Lunch, true
	case "dinner":
		return d.Dinner, true
	case "snack":
		if index < 0 || index >= len(d.Snacks) {
			return Meal{}, false
		}
		return d.Snacks[index], true
	}
	return Meal{}, false
}

// Plan is a catalog entry. Calories is a display range such as "1500-1800".
type Plan struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Premium     bool     `json:"premium" yaml:"premium"`
	Calories    string   `json:"calories" yaml:"calories"`
	Duration    string   `json:"duration" yaml:"duration"`
	Category    string   `json:"category" yaml:"category"`
	Tags        []string `json:"tags" yaml:"tags"`
}

// Repository provides read access to meal plans.
type Repository interface {
	// List returns every plan in catalog order.
	List() []Plan
	// Get returns ErrPlanNotFound for an unknown id.
	Get(id string) (*Plan, error)
	// Days returns the plan's days in order. A catalog plan without day data
	// yields an empty slice.
	Days(id string) ([]DayMeals, error)
}
