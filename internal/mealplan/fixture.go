package mealplan

import (
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/catalog.yaml
var catalogYAML []byte

//go:embed fixtures/days.yaml
var daysYAML []byte

// FixtureRepository serves plans from static data held in memory.
type FixtureRepository struct {
	plans []Plan
	index map[string]int
	days  map[string][]DayMeals
}

// NewFixtureRepository loads the plans bundled with the binary.
func NewFixtureRepository() (*FixtureRepository, error) {
	return LoadFixtures(catalogYAML, daysYAML)
}

// LoadFixtures parses a YAML catalog (a list of plans) and a YAML map of plan
// id to days. Every id in days must appear in the catalog.
func LoadFixtures(catalog, days []byte) (*FixtureRepository, error) {
	var plans []Plan
	if err := yaml.Unmarshal(catalog, &plans); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	r := &FixtureRepository{
		plans: plans,
		index: make(map[string]int, len(plans)),
		days:  make(map[string][]DayMeals),
	}
	for i, p := range plans {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog entry %d has no id", i)
		}
		if _, dup := r.index[p.ID]; dup {
			return nil, fmt.Errorf("duplicate plan id %q", p.ID)
		}
		r.index[p.ID] = i
	}

	if err := yaml.Unmarshal(days, &r.days); err != nil {
		return nil, fmt.Errorf("parse plan days: %w", err)
	}
	for id := range r.days {
		if _, ok := r.index[id]; !ok {
			return nil, fmt.Errorf("days given for unknown plan %q", id)
		}
	}
	return r, nil
}

func (r *FixtureRepository) List() []Plan {
	return slices.Clone(r.plans)
}

func (r *FixtureRepository) Get(id string) (*Plan, error) {
	i, ok := r.index[id]
	if !ok {
		return nil, ErrPlanNotFound
	}
	p := r.plans[i]
	return &p, nil
}

func (r *FixtureRepository) Days(id string) ([]DayMeals, error) {
	if _, ok := r.index[id]; !ok {
		return nil, ErrPlanNotFound
	}
	days := r.days[id]
	if days == nil {
		return []DayMeals{}, nil
	}
	return slices.Clone(days), nil
}
