package model

// Grocery categories, in display order.
const (
	CategoryVegetables = "Vegetables"
	CategoryFruits     = "Fruits"
	CategoryMeat       = "Meat"
	CategoryDairy      = "Dairy"
	CategoryGrains     = "Grains"
	CategoryOils       = "Oils"
	CategorySpices     = "Spices"
	CategoryOther      = "Other"
)

// Categories lists every category label.
var Categories = []string{
	CategoryVegetables,
	CategoryFruits,
	CategoryMeat,
	CategoryDairy,
	CategoryGrains,
	CategoryOils,
	CategorySpices,
	CategoryOther,
}

type GroceryItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Checked  bool   `json:"checked"`
}
