package grocery

import (
	"strings"

	"github.com/dukerupert/leanfuel/internal/model"
)

// Categorize returns the grocery category for a raw ingredient string such as
// "1 cup cooked quinoa". Matching is case-insensitive: the first keyword in
// keywordPriority found anywhere in the string decides. Falls back to "Other".
func Categorize(ingredient string) string {
	name := strings.ToLower(ingredient)
	for _, entry := range keywordPriority {
		if strings.Contains(name, entry.keyword) {
			return entry.category
		}
	}
	return model.CategoryOther
}

type keywordEntry struct {
	keyword  string
	category string
}

// keywordPriority is scanned top to bottom. Multi-word keywords come first so
// that "bell pepper" is a vegetable while a bare "pepper" is a spice, and
// "avocado oil" is an oil rather than a fruit.
var keywordPriority = []keywordEntry{
	// Multi-word phrases
	{"sweet potato", model.CategoryVegetables},
	{"bell pepper", model.CategoryVegetables},
	{"chicken breast", model.CategoryMeat},
	{"ground beef", model.CategoryMeat},
	{"greek yogurt", model.CategoryDairy},
	{"olive oil", model.CategoryOils},
	{"coconut oil", model.CategoryOils},
	{"avocado oil", model.CategoryOils},
	{"vegetable oil", model.CategoryOils},

	// Vegetables
	{"spinach", model.CategoryVegetables},
	{"broccoli", model.CategoryVegetables},
	{"lettuce", model.CategoryVegetables},
	{"tomato", model.CategoryVegetables},
	{"carrot", model.CategoryVegetables},
	{"cucumber", model.CategoryVegetables},
	{"onion", model.CategoryVegetables},
	{"garlic", model.CategoryVegetables},

	// Fruits
	{"apple", model.CategoryFruits},
	{"banana", model.CategoryFruits},
	{"orange", model.CategoryFruits},
	{"lemon", model.CategoryFruits},
	{"avocado", model.CategoryFruits},
	{"strawberr", model.CategoryFruits},
	{"blueberr", model.CategoryFruits},
	{"berries", model.CategoryFruits},

	// Meat
	{"chicken", model.CategoryMeat},
	{"beef", model.CategoryMeat},
	{"pork", model.CategoryMeat},
	{"turkey", model.CategoryMeat},
	{"salmon", model.CategoryMeat},
	{"fish", model.CategoryMeat},
	{"tuna", model.CategoryMeat},

	// Dairy
	{"milk", model.CategoryDairy},
	{"cheese", model.CategoryDairy},
	{"yogurt", model.CategoryDairy},
	{"eggs", model.CategoryDairy},
	{"butter", model.CategoryDairy},
	{"cream", model.CategoryDairy},

	// Grains
	{"rice", model.CategoryGrains},
	{"quinoa", model.CategoryGrains},
	{"oats", model.CategoryGrains},
	{"pasta", model.CategoryGrains},
	{"bread", model.CategoryGrains},
	{"tortilla", model.CategoryGrains},
	{"flour", model.CategoryGrains},

	// Spices
	{"salt", model.CategorySpices},
	{"pepper", model.CategorySpices},
	{"cumin", model.CategorySpices},
	{"paprika", model.CategorySpices},
	{"cinnamon", model.CategorySpices},
	{"oregano", model.CategorySpices},
	{"basil", model.CategorySpices},
}
