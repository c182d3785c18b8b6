package mealplan

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func meal(name string, ingredients ...string) Meal {
	return Meal{Name: name, Ingredients: ingredients}
}

func TestFlattenMealsOrder(t *testing.T) {
	days := []DayMeals{
		{
			Breakfast: meal("b1"),
			Lunch:     meal("l1"),
			Dinner:    meal("d1"),
			Snacks:    []Meal{meal("s1a"), meal("s1b")},
		},
		{
			Breakfast: meal("b2"),
			Lunch:     meal("l2"),
			Dinner:    meal("d2"),
		},
	}

	var got []string
	for _, m := range FlattenMeals(days) {
		got = append(got, m.Name)
	}
	want := []string{"b1", "l1", "d1", "s1a", "s1b", "b2", "l2", "d2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FlattenMeals order mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenMealsEmpty(t *testing.T) {
	if got := FlattenMeals(nil); len(got) != 0 {
		t.Errorf("FlattenMeals(nil) = %d meals, want 0", len(got))
	}
}

func TestIngredientsPreservesOrder(t *testing.T) {
	meals := []Meal{
		meal("a", "oats", "milk"),
		meal("b"),
		meal("c", "salt", "oats"),
	}
	want := []string{"oats", "milk", "salt", "oats"}
	if diff := cmp.Diff(want, Ingredients(meals)); diff != "" {
		t.Errorf("Ingredients mismatch (-want +got):\n%s", diff)
	}
}

func TestDayMealsSlot(t *testing.T) {
	d := DayMeals{
		Breakfast: meal("b"),
		Lunch:     meal("l"),
		Dinner:    meal("d"),
		Snacks:    []Meal{meal("s0"), meal("s1")},
	}
	tests := []struct {
		slot  string
		index int
		want  string
		ok    bool
	}{
		{"breakfast", 0, "b", true},
		{"lunch", 5, "l", true},
		{"dinner", 0, "d", true},
		{"snack", 1, "s1", true},
		{"snack", 2, "", false},
		{"snack", -1, "", false},
		{"brunch", 0, "", false},
	}
	for _, tt := range tests {
		got, ok := d.Slot(tt.slot, tt.index)
		if ok != tt.ok || got.Name != tt.want {
			t.Errorf("Slot(%q, %d) = (%q, %v), want (%q, %v)", tt.slot, tt.index, got.Name, ok, tt.want, tt.ok)
		}
	}
}

func TestFixtureRepositoryCatalog(t *testing.T) {
	repo, err := NewFixtureRepository()
	if err != nil {
		t.Fatalf("load fixtures: %v", err)
	}

	plans := repo.List()
	if len(plans) != 6 {
		t.Fatalf("expected 6 plans, got %d", len(plans))
	}

	premium := map[string]bool{}
	for _, p := range plans {
		premium[p.ID] = p.Premium
	}
	want := map[string]bool{
		"clean-eating": false,
		"low-calorie":  false,
		"high-protein": false,
		"keto":         true,
		"intermittent": true,
		"vegan":        true,
	}
	if diff := cmp.Diff(want, premium); diff != "" {
		t.Errorf("premium flags mismatch (-want +got):\n%s", diff)
	}
}

func TestFixtureRepositoryDays(t *testing.T) {
	repo, err := NewFixtureRepository()
	if err != nil {
		t.Fatalf("load fixtures: %v", err)
	}

	for _, id := range []string{"clean-eating", "low-calorie", "high-protein"} {
		days, err := repo.Days(id)
		if err != nil {
			t.Fatalf("days %s: %v", id, err)
		}
		if len(days) != 7 {
			t.Errorf("%s: expected 7 days, got %d", id, len(days))
		}

		// Each day contributes 3 main meals plus its snacks.
		want := 0
		for _, d := range days {
			want += 3 + len(d.Snacks)
		}
		if got := len(FlattenMeals(days)); got != want {
			t.Errorf("%s: FlattenMeals = %d meals, want %d", id, got, want)
		}
	}

	days, _ := repo.Days("clean-eating")
	first := days[0].Breakfast
	if first.Name != "Greek Yogurt with Berries and Honey" {
		t.Errorf("first breakfast = %q", first.Name)
	}
	if first.Calories != 320 || first.PrepTime != 5 {
		t.Errorf("first breakfast calories/prep = %d/%d, want 320/5", first.Calories, first.PrepTime)
	}
	if len(first.Instructions) == 0 {
		t.Error("expected instructions on first breakfast")
	}
}

func TestFixtureRepositoryPremiumWithoutDays(t *testing.T) {
	repo, err := NewFixtureRepository()
	if err != nil {
		t.Fatalf("load fixtures: %v", err)
	}

	days, err := repo.Days("keto")
	if err != nil {
		t.Fatalf("days keto: %v", err)
	}
	if days == nil || len(days) != 0 {
		t.Errorf("expected empty non-nil days for keto, got %#v", days)
	}
}

func TestFixtureRepositoryUnknownPlan(t *testing.T) {
	repo, err := NewFixtureRepository()
	if err != nil {
		t.Fatalf("load fixtures: %v", err)
	}

	if _, err := repo.Get("paleo"); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("Get(paleo) error = %v, want ErrPlanNotFound", err)
	}
	if _, err := repo.Days("paleo"); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("Days(paleo) error = %v, want ErrPlanNotFound", err)
	}
}

func TestLoadFixturesRejectsBadData(t *testing.T) {
	catalog := []byte("- id: a\n  title: A\n")
	tests := []struct {
		name    string
		catalog []byte
		days    []byte
	}{
		{"unknown plan in days", catalog, []byte("b: []\n")},
		{"duplicate id", []byte("- id: a\n- id: a\n"), []byte("{}")},
		{"missing id", []byte("- title: nameless\n"), []byte("{}")},
		{"malformed catalog", []byte("id: [\n"), []byte("{}")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFixtures(tt.catalog, tt.days); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestListReturnsCopy(t *testing.T) {
	repo, err := NewFixtureRepository()
	if err != nil {
		t.Fatalf("load fixtures: %v", err)
	}
	plans := repo.List()
	plans[0].Title = "changed"

	p, _ := repo.Get(plans[0].ID)
	if p.Title == "changed" {
		t.Error("List should not expose internal storage")
	}
}
