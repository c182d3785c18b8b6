package onboarding

import (
	"slices"
	"strings"
)

// CommonAllergies are offered as toggles on the allergies step.
var CommonAllergies = []string{
	"Dairy", "Eggs", "Nuts", "Peanuts", "Shellfish", "Wheat", "Soy", "Fish", "Gluten",
}

// ToggleAllergy adds the allergy if absent and removes it if present.
func (w *Wizard) ToggleAllergy(name string) error {
	if w.completed {
		return ErrCompleted
	}
	if i := slices.Index(w.data.Allergies, name); i >= 0 {
		w.data.Allergies = slices.Delete(w.data.Allergies, i, i+1)
		return nil
	}
	w.data.Allergies = append(w.data.Allergies, name)
	return nil
}

// AddAllergy adds a custom allergy. Blank names and names already listed are
// ignored; the return value reports whether anything was added.
func (w *Wizard) AddAllergy(name string) (bool, error) {
	if w.completed {
		return false, ErrCompleted
	}
	name = strings.TrimSpace(name)
	if name == "" || slices.Contains(w.data.Allergies, name) {
		return false, nil
	}
	w.data.Allergies = append(w.data.Allergies, name)
	return true, nil
}

// RemoveAllergy drops an allergy if present.
func (w *Wizard) RemoveAllergy(name string) error {
	if w.completed {
		return ErrCompleted
	}
	w.data.Allergies = slices.DeleteFunc(w.data.Allergies, func(a string) bool { return a == name })
	return nil
}
