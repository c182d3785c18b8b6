// Package onboarding implements the five-step signup wizard: basic info,
// weight goals, dietary preferences, allergies, results.
package onboarding

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dukerupert/leanfuel/internal/model"
	"github.com/dukerupert/leanfuel/internal/nutrition"
)

const (
	StepBasicInfo = iota + 1
	StepWeightGoals
	StepDietaryPreferences
	StepAllergies
	StepResults

	FirstStep = StepBasicInfo
	LastStep  = StepResults
)

var (
	ErrFirstStep    = errors.New("already at first step")
	ErrLastStep     = errors.New("already at last step")
	ErrNotFinalStep = errors.New("finish is only allowed on the results step")
	ErrCompleted    = errors.New("onboarding already completed")
	ErrInvalidUnit  = errors.New("weight unit must be kg or lbs")
)

// Wizard is the onboarding state machine. Moves are strictly linear and
// forward moves are gated on the current step's validation.
type Wizard struct {
	step      int
	data      model.OnboardingData
	completed bool
}

// New returns a wizard on step 1 with metric units.
func New() *Wizard {
	return &Wizard{
		step: FirstStep,
		data: normalize(model.OnboardingData{}),
	}
}

// FromProfile restores a persisted wizard. Out-of-range steps are clamped.
func FromProfile(p model.Profile) *Wizard {
	return &Wizard{
		step:      min(max(p.Step, FirstStep), LastStep),
		data:      normalize(p.Data),
		completed: p.Completed,
	}
}

// Profile snapshots the wizard for persistence.
func (w *Wizard) Profile() model.Profile {
	d := w.data
	d.Allergies = slices.Clone(w.data.Allergies)
	return model.Profile{Step: w.step, Data: d, Completed: w.completed}
}

func (w *Wizard) Step() int                  { return w.step }
func (w *Wizard) Completed() bool            { return w.completed }
func (w *Wizard) Data() model.OnboardingData { return w.Profile().Data }

// Update replaces the entered data. An empty unit keeps the current one.
func (w *Wizard) Update(d model.OnboardingData) error {
	if w.completed {
		return ErrCompleted
	}
	if d.WeightUnit == "" {
		d.WeightUnit = w.data.WeightUnit
	}
	if d.WeightUnit != model.UnitKg && d.WeightUnit != model.UnitLbs {
		return ErrInvalidUnit
	}
	w.data = normalize(d)
	return nil
}

// CanProceed reports whether the current step's gate passes.
func (w *Wizard) CanProceed() bool {
	return len(w.Validate()) == 0
}

// Validate returns the field errors blocking the current step.
func (w *Wizard) Validate() ValidationErrors {
	return validateStep(w.step, w.data)
}

// Next advances one step. It returns the step's ValidationErrors when the
// gate fails.
func (w *Wizard) Next() error {
	if w.completed {
		return ErrCompleted
	}
	if w.step >= LastStep {
		return ErrLastStep
	}
	if errs := w.Validate(); len(errs) > 0 {
		return errs
	}
	w.step++
	return nil
}

// Back returns to the previous step. No validation applies.
func (w *Wizard) Back() error {
	if w.completed {
		return ErrCompleted
	}
	if w.step <= FirstStep {
		return ErrFirstStep
	}
	w.step--
	return nil
}

// Finish marks onboarding complete. It is only valid on the results step and
// cannot be undone.
func (w *Wizard) Finish() error {
	if w.completed {
		return ErrCompleted
	}
	if w.step != LastStep {
		return ErrNotFinalStep
	}
	w.completed = true
	return nil
}

// SetWeightUnit switches units, converting any entered weights and rounding
// them to whole numbers.
func (w *Wizard) SetWeightUnit(unit model.WeightUnit) error {
	if w.completed {
		return ErrCompleted
	}
	if unit != model.UnitKg && unit != model.UnitLbs {
		return ErrInvalidUnit
	}
	from := w.data.WeightUnit
	if from == unit {
		return nil
	}
	if w.data.CurrentWeight > 0 {
		w.data.CurrentWeight = nutrition.ConvertWeight(w.data.CurrentWeight, from, unit)
	}
	if w.data.TargetWeight > 0 {
		w.data.TargetWeight = nutrition.ConvertWeight(w.data.TargetWeight, from, unit)
	}
	w.data.WeightUnit = unit
	return nil
}

// Results is what the final step shows.
type Results struct {
	CalorieGoal     int                     `json:"calorie_goal"`
	RecommendedPlan string                  `json:"recommended_plan"`
	WeightToLose    float64                 `json:"weight_to_lose"`
	WeightUnit      model.WeightUnit        `json:"weight_unit"`
	Dietary         model.DietaryPreference `json:"dietary_preference"`
	Allergies       []string                `json:"allergies"`
}

func (w *Wizard) Results() Results {
	d := w.Data()
	lose := 0.0
	if d.CurrentWeight > 0 && d.TargetWeight > 0 && d.TargetWeight < d.CurrentWeight {
		lose = d.CurrentWeight - d.TargetWeight
	}
	return Results{
		CalorieGoal:     nutrition.CalorieGoal(nutrition.InputFrom(d)),
		RecommendedPlan: RecommendedPlan(d.DietaryPreference),
		WeightToLose:    lose,
		WeightUnit:      d.WeightUnit,
		Dietary:         d.DietaryPreference,
		Allergies:       d.Allergies,
	}
}

var recommendedPlans = map[model.DietaryPreference]string{
	model.DietStandard:   "Balanced Nutrition Plan",
	model.DietLowCarb:    "Low Carb Success Plan",
	model.DietKeto:       "Ketogenic Fat Burner",
	model.DietVegetarian: "Plant-Powered Slim Down",
	model.DietVegan:      "Vegan Weight Loss Plan",
	model.DietFasting:    "Intermittent Fasting Schedule",
}

// RecommendedPlan names the plan suggested for a dietary preference.
func RecommendedPlan(pref model.DietaryPreference) string {
	if name, ok := recommendedPlans[pref]; ok {
		return name
	}
	return "Standard Weight Loss Plan"
}

func normalize(d model.OnboardingData) model.OnboardingData {
	if d.WeightUnit == "" {
		d.WeightUnit = model.UnitKg
	}
	if d.Allergies == nil {
		d.Allergies = []string{}
	} else {
		d.Allergies = slices.Clone(d.Allergies)
	}
	return d
}

// StepName is a label for logs and responses.
func StepName(step int) string {
	switch step {
	case StepBasicInfo:
		return "basic_info"
	case StepWeightGoals:
		return "weight_goals"
	case StepDietaryPreferences:
		return "dietary_preferences"
	case StepAllergies:
		return "allergies"
	case StepResults:
		return "results"
	}
	return fmt.Sprintf("step_%d", step)
}
