package grocery

import (
	"slices"
	"testing"

	"github.com/dukerupert/leanfuel/internal/model"
)

func TestCategorizeKeywords(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"spinach", "Vegetables"},
		{"2 cups fresh Spinach", "Vegetables"},
		{"1 medium apple, sliced", "Fruits"},
		{"1/2 cup mixed berries", "Fruits"},
		{"Chicken Breast", "Meat"},
		{"5 oz wild-caught salmon fillet", "Meat"},
		{"1 cup Greek yogurt (plain, low-fat)", "Dairy"},
		{"3 eggs", "Dairy"},
		{"1 cup cooked quinoa", "Grains"},
		{"1/2 cup rolled oats", "Grains"},
		{"1 whole wheat tortilla", "Grains"},
		{"2 tbsp olive oil", "Oils"},
		{"Cinnamon to taste", "Spices"},
		{"Salt and pepper to taste", "Spices"},
	}
	for _, tt := range tests {
		got := Categorize(tt.input)
		if got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCategorizeOverlapPriority(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1/4 cup diced bell peppers", "Vegetables"},
		{"black pepper", "Spices"},
		{"1 tsp avocado oil", "Oils"},
		{"1/4 avocado, sliced", "Fruits"},
		{"1 medium sweet potato", "Vegetables"},
		{"4 oz ground beef", "Meat"},
	}
	for _, tt := range tests {
		got := Categorize(tt.input)
		if got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCategorizeFallback(t *testing.T) {
	tests := []string{"", "   ", "xyz", "1 tbsp chia seeds", "Fresh dill"}
	for _, input := range tests {
		if got := Categorize(input); got != "Other" {
			t.Errorf("Categorize(%q) = %q, want %q", input, got, "Other")
		}
	}
}

func TestCategorizeAlwaysKnownLabel(t *testing.T) {
	for _, entry := range keywordPriority {
		if !slices.Contains(model.Categories, entry.category) {
			t.Errorf("keyword %q maps to unknown category %q", entry.keyword, entry.category)
		}
		if got := Categorize(entry.keyword); !slices.Contains(model.Categories, got) {
			t.Errorf("Categorize(%q) = %q, not a known category", entry.keyword, got)
		}
	}
}

// Every keyword must win for its own text, otherwise an earlier entry
// shadows it and it can never match.
func TestKeywordsNotShadowed(t *testing.T) {
	for _, entry := range keywordPriority {
		if got := Categorize(entry.keyword); got != entry.category {
			t.Errorf("keyword %q is shadowed: Categorize = %q, want %q", entry.keyword, got, entry.category)
		}
	}
}
