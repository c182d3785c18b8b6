package onboarding

import (
	"fmt"
	"strings"

	"github.com/dukerupert/leanfuel/internal/model"
)

// FieldError is one failed field on the current step.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is returned by Next when a step gate fails.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Fields maps field name to message.
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for _, fe := range v {
		out[fe.Field] = fe.Message
	}
	return out
}

type weightBounds struct {
	min, max float64
}

var weightLimits = map[model.WeightUnit]weightBounds{
	model.UnitKg:  {40, 200},
	model.UnitLbs: {88, 440},
}

var (
	validGenders = map[model.Gender]bool{
		model.GenderMale: true, model.GenderFemale: true, model.GenderOther: true,
	}
	validDiets = map[model.DietaryPreference]bool{
		model.DietStandard: true, model.DietLowCarb: true, model.DietKeto: true,
		model.DietVegetarian: true, model.DietVegan: true, model.DietFasting: true,
	}
	validFrequencies = map[model.MealFrequency]bool{
		model.MealsThree: true, model.MealsTwoPlusSnack: true,
		model.MealsFiveSmall: true, model.MealsOneMealADay: true,
	}
)

func validateStep(step int, d model.OnboardingData) ValidationErrors {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, FieldError{Field: field, Message: msg})
	}

	switch step {
	case StepBasicInfo:
		if strings.TrimSpace(d.Name) == "" {
			add("name", "Name is required")
		}
		if d.Age < 18 || d.Age > 100 {
			add("age", "Age must be between 18 and 100")
		}
		if !validGenders[d.Gender] {
			add("gender", "Please select a gender")
		}
		if d.Height < 120 || d.Height > 220 {
			add("height", "Height must be between 120 and 220 cm")
		}

	case StepWeightGoals:
		b, ok := weightLimits[d.WeightUnit]
		if !ok {
			add("weight_unit", "Weight unit must be kg or lbs")
			break
		}
		rangeMsg := fmt.Sprintf("must be between %g and %g %s", b.min, b.max, d.WeightUnit)
		if d.CurrentWeight < b.min || d.CurrentWeight > b.max {
			add("current_weight", "Current weight "+rangeMsg)
		}
		if d.TargetWeight < b.min || d.TargetWeight > b.max {
			add("target_weight", "Target weight "+rangeMsg)
		} else if d.TargetWeight >= d.CurrentWeight {
			add("target_weight", "Target weight must be less than current weight")
		}

	case StepDietaryPreferences:
		if !validDiets[d.DietaryPreference] {
			add("dietary_preference", "Please select a dietary preference")
		}
		if !validFrequencies[d.MealFrequency] {
			add("meal_frequency", "Please select a meal frequency")
		}
	}

	return errs
}
