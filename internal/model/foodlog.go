package model

const DefaultServingSize = "1 serving"

type FoodItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Calories    int     `json:"calories"`
	Carbs       float64 `json:"carbs"`
	Protein     float64 `json:"protein"`
	Fat         float64 `json:"fat"`
	ServingSize string  `json:"serving_size"`
}

// FoodLog is one day of tracked food. Date is YYYY-MM-DD.
type FoodLog struct {
	Date           string     `json:"date"`
	Foods          []FoodItem `json:"foods"`
	CaloriesBurned int        `json:"calories_burned"`
}

type NutritionTotals struct {
	Calories       int     `json:"calories"`
	CaloriesBurned int     `json:"calories_burned"`
	NetCalories    int     `json:"net_calories"`
	Carbs          float64 `json:"carbs"`
	Protein        float64 `json:"protein"`
	Fat            float64 `json:"fat"`
	DaysLogged     int     `json:"days_logged"`
}
