// Package reminder computes when reminders fire and delivers them as web
// push notifications.
package reminder

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dukerupert/leanfuel/internal/model"
)

const (
	DefaultTitle   = "LeanFuel Reminder"
	DefaultMessage = "Time for your reminder!"
)

var ErrInvalidTime = errors.New("time must be HH:MM")

// Clock is a time of day.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseTimes parses a comma-separated list of HH:MM times.
func ParseTimes(times string) ([]Clock, error) {
	var out []Clock
	for _, part := range strings.Split(times, ",") {
		part = strings.TrimSpace(part)
		t, err := time.Parse("15:04", part)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTime, part)
		}
		out = append(out, Clock{Hour: t.Hour(), Minute: t.Minute()})
	}
	return out, nil
}

// Validate checks a reminder before it is saved.
func Validate(r model.Reminder) error {
	if _, err := ParseTimes(r.Times); err != nil {
		return err
	}
	for _, d := range r.Days {
		if d < 0 || d > 6 {
			return fmt.Errorf("invalid weekday %d", d)
		}
	}
	return nil
}

// NextFire returns the next time at or after now that the reminder fires,
// in now's location. The bool is false when the reminder has no valid times.
func NextFire(r model.Reminder, now time.Time) (time.Time, bool) {
	clocks, err := ParseTimes(r.Times)
	if err != nil {
		return time.Time{}, false
	}

	var next time.Time
	for _, c := range clocks {
		t := time.Date(now.Year(), now.Month(), now.Day(), c.Hour, c.Minute, 0, 0, now.Location())
		if t.Before(now) {
			t = t.AddDate(0, 0, 1)
		}
		if len(r.Days) > 0 {
			for i := 0; i < 7 && !slices.Contains(r.Days, int(t.Weekday())); i++ {
				t = t.AddDate(0, 0, 1)
			}
		}
		if next.IsZero() || t.Before(next) {
			next = t
		}
	}
	return next, true
}

// Due reports whether one of the reminder's times falls in now's minute on
// an allowed weekday. It ignores Enabled.
func Due(r model.Reminder, now time.Time) bool {
	if len(r.Days) > 0 && !slices.Contains(r.Days, int(now.Weekday())) {
		return false
	}
	clocks, err := ParseTimes(r.Times)
	if err != nil {
		return false
	}
	for _, c := range clocks {
		if c.Hour == now.Hour() && c.Minute == now.Minute() {
			return true
		}
	}
	return false
}

// Message returns the notification body for the reminder.
func Message(r model.Reminder) string {
	if strings.TrimSpace(r.Message) == "" {
		return DefaultMessage
	}
	return r.Message
}

// slotKey identifies one firing of a reminder for deduplication.
func slotKey(now time.Time) string {
	return now.Format("2006-01-02T15:04")
}
