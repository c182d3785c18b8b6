package tracking

import (
	"errors"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/dukerupert/leanfuel/internal/model"
)

const maxWeight = 1000

var ErrInvalidWeight = errors.New("weight must be positive")

// ValidateWeight rejects zero, negative and absurd weights.
func ValidateWeight(w float64) error {
	if math.IsNaN(w) || w <= 0 || w > maxWeight {
		return ErrInvalidWeight
	}
	return nil
}

// WeekStart returns the Monday on or before date.
func WeekStart(date string) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", ErrInvalidDate
	}
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format(DateLayout), nil
}

// WeeklyAverages groups weigh-ins by Monday-based week and averages each
// week to one decimal. Entries with an unparseable date are skipped. The
// result is ordered by week.
func WeeklyAverages(entries []model.WeightEntry) []model.WeeklyWeight {
	type acc struct {
		total float64
		count int
	}
	weeks := make(map[string]*acc)
	var order []string
	for _, e := range entries {
		start, err := WeekStart(e.Date)
		if err != nil {
			continue
		}
		a, ok := weeks[start]
		if !ok {
			a = &acc{}
			weeks[start] = a
			order = append(order, start)
		}
		a.total += e.Weight
		a.count++
	}

	out := make([]model.WeeklyWeight, 0, len(order))
	for _, start := range order {
		a := weeks[start]
		out = append(out, model.WeeklyWeight{
			WeekStart: start,
			Average:   round1(a.total / float64(a.count)),
			Entries:   a.count,
		})
	}
	slices.SortFunc(out, func(a, b model.WeeklyWeight) int {
		return strings.Compare(a.WeekStart, b.WeekStart)
	})
	return out
}

// Trend compares the first and last week. Fewer than two weeks is no trend.
func Trend(weeks []model.WeeklyWeight) model.WeightTrend {
	if len(weeks) < 2 {
		return model.WeightTrend{}
	}
	change := round1(weeks[len(weeks)-1].Average - weeks[0].Average)
	return model.WeightTrend{Change: change, Progress: change < 0}
}

// ToGoal is how far the latest weigh-in is from goal, to one decimal. The
// bool is false without entries or a goal.
func ToGoal(entries []model.WeightEntry, goal float64) (float64, bool) {
	if len(entries) == 0 || goal <= 0 {
		return 0, false
	}
	return round1(entries[len(entries)-1].Weight - goal), true
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
