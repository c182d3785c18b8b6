// Package nutrition holds the calorie-goal arithmetic.
package nutrition

import (
	"math"

	"github.com/dukerupert/leanfuel/internal/model"
)

const (
	lbsToKg = 0.453592
	kgToLbs = 2.20462

	activityFactor = 1.375 // lightly active
	minimumGoal    = 1200
)

// Input is the subset of onboarding data the goal depends on. Zero values are
// treated as missing.
type Input struct {
	Gender   model.Gender
	Age      int
	HeightCm float64
	Weight   float64
	Unit     model.WeightUnit
}

// InputFrom extracts an Input from onboarding data.
func InputFrom(d model.OnboardingData) Input {
	return Input{
		Gender:   d.Gender,
		Age:      d.Age,
		HeightCm: d.Height,
		Weight:   d.CurrentWeight,
		Unit:     d.WeightUnit,
	}
}

// BMR is the Mifflin-St Jeor basal metabolic rate. Any gender other than
// male uses the female constant.
func BMR(gender model.Gender, age int, heightCm, weightKg float64) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == model.GenderMale {
		return bmr + 5
	}
	return bmr - 161
}

// CalorieGoal returns the daily calorie target for weight loss, or 0 when
// gender, age, height or weight is missing. The deficit is 500 kcal under
// 70 kg and 750 kcal otherwise, and the goal never drops below 1200.
func CalorieGoal(in Input) int {
	if in.Gender == "" || in.Age <= 0 || in.HeightCm <= 0 || in.Weight <= 0 {
		return 0
	}

	kg := in.Weight
	if in.Unit == model.UnitLbs {
		kg *= lbsToKg
	}

	tdee := BMR(in.Gender, in.Age, in.HeightCm, kg) * activityFactor

	deficit := 750.0
	if kg < 70 {
		deficit = 500
	}

	goal := int(math.Round(tdee - deficit))
	return max(minimumGoal, goal)
}

// ConvertWeight converts w between units and rounds to a whole number.
// Converting to the same unit returns w unchanged.
func ConvertWeight(w float64, from, to model.WeightUnit) float64 {
	switch {
	case from == to:
		return w
	case from == model.UnitKg && to == model.UnitLbs:
		return math.Round(w * kgToLbs)
	case from == model.UnitLbs && to == model.UnitKg:
		return math.Round(w * lbsToKg)
	}
	return w
}
