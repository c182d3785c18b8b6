package model

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type WeightUnit string

const (
	UnitKg  WeightUnit = "kg"
	UnitLbs WeightUnit = "lbs"
)

type DietaryPreference string

const (
	DietStandard   DietaryPreference = "standard"
	DietLowCarb    DietaryPreference = "low-carb"
	DietKeto       DietaryPreference = "keto"
	DietVegetarian DietaryPreference = "vegetarian"
	DietVegan      DietaryPreference = "vegan"
	DietFasting    DietaryPreference = "fasting"
)

type MealFrequency string

const (
	MealsThree        MealFrequency = "three_meals"
	MealsTwoPlusSnack MealFrequency = "two_meals_one_snack"
	MealsFiveSmall    MealFrequency = "five_small_meals"
	MealsOneMealADay  MealFrequency = "omad"
)

// OnboardingData is what the user enters across the wizard. Zero values mean
// "not provided yet". Height is always centimetres; weights are in WeightUnit.
type OnboardingData struct {
	Name              string            `json:"name"`
	Age               int               `json:"age"`
	Gender            Gender            `json:"gender"`
	Height            float64           `json:"height"`
	CurrentWeight     float64           `json:"current_weight"`
	TargetWeight      float64           `json:"target_weight"`
	WeightUnit        WeightUnit        `json:"weight_unit"`
	DietaryPreference DietaryPreference `json:"dietary_preference"`
	MealFrequency     MealFrequency     `json:"meal_frequency"`
	Allergies         []string          `json:"allergies"`
}

// Profile is the persisted wizard state.
type Profile struct {
	Step      int            `json:"step"`
	Data      OnboardingData `json:"data"`
	Completed bool           `json:"completed"`
}
