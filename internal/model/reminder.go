package model

type ReminderType string

const (
	ReminderMeal       ReminderType = "meal-reminder"
	ReminderWater      ReminderType = "water-reminder"
	ReminderMotivation ReminderType = "motivation"
	ReminderGoalCheck  ReminderType = "goal-check"
)

// Reminder is one configurable notification. Times holds one or more "HH:MM"
// values separated by commas. Days holds weekdays (0 = Sunday); empty means
// every day.
type Reminder struct {
	ID        string       `json:"id"`
	Type      ReminderType `json:"type"`
	Enabled   bool         `json:"enabled"`
	Times     string       `json:"times"`
	Days      []int        `json:"days"`
	Frequency string       `json:"frequency,omitempty"`
	Message   string       `json:"message"`
}
