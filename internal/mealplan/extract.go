package mealplan

// FlattenMeals lists every meal of every day: breakfast, lunch, dinner, then
// the snacks in order.
func FlattenMeals(days []DayMeals) []Meal {
	meals := make([]Meal, 0, len(days)*4)
	for _, d := range days {
		meals = append(meals, d.Breakfast, d.Lunch, d.Dinner)
		meals = append(meals, d.Snacks...)
	}
	return meals
}

// Ingredients concatenates the ingredient lists of meals, keeping order.
func Ingredients(meals []Meal) []string {
	var n int
	for _, m := range meals {
		n += len(m.Ingredients)
	}
	out := make([]string, 0, n)
	for _, m := range meals {
		out = append(out, m.Ingredients...)
	}
	return out
}
