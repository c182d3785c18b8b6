package grocery

import (
	"cmp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/dukerupert/leanfuel/internal/mealplan"
	"github.com/dukerupert/leanfuel/internal/model"
)

// Generate turns raw ingredient strings into a grocery list. Each distinct
// trimmed string becomes one unchecked item with a fresh id; the first
// occurrence wins and comparison is case-sensitive. A blank string trims to ""
// and is kept as one item like any other. The result is ordered by category,
// then name.
func Generate(ingredients []string) []model.GroceryItem {
	seen := make(map[string]struct{}, len(ingredients))
	items := make([]model.GroceryItem, 0, len(ingredients))

	for _, raw := range ingredients {
		name := strings.TrimSpace(raw)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		items = append(items, model.GroceryItem{
			ID:       uuid.NewString(),
			Name:     name,
			Category: Categorize(name),
		})
	}

	slices.SortStableFunc(items, func(a, b model.GroceryItem) int {
		if c := cmp.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return items
}

// FromDays builds the grocery list for a run of plan days.
func FromDays(days []mealplan.DayMeals) []model.GroceryItem {
	return Generate(mealplan.Ingredients(mealplan.FlattenMeals(days)))
}

// FilterByCategory returns the items in category, or all items when category
// is empty or "All".
func FilterByCategory(items []model.GroceryItem, category string) []model.GroceryItem {
	if category == "" || category == "All" {
		return items
	}
	out := make([]model.GroceryItem, 0, len(items))
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// CategoriesWithItems lists the categories that have at least one item, in
// model.Categories order.
func CategoriesWithItems(items []model.GroceryItem) []string {
	present := make(map[string]bool)
	for _, it := range items {
		present[it.Category] = true
	}
	out := []string{}
	for _, c := range model.Categories {
		if present[c] {
			out = append(out, c)
		}
	}
	return out
}
