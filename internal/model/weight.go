package model

// WeightEntry is one weigh-in. Weight is in the profile's weight unit.
type WeightEntry struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

// WeeklyWeight averages the weigh-ins of the week starting on WeekStart
// (a Monday).
type WeeklyWeight struct {
	WeekStart string  `json:"week_start"`
	Average   float64 `json:"average"`
	Entries   int     `json:"entries"`
}

// WeightTrend compares the first and last weekly averages. A negative
// Change is progress.
type WeightTrend struct {
	Change   float64 `json:"change"`
	Progress bool    `json:"progress"`
}
