package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/leanfuel/internal/model"
)

type ReminderStore struct {
	db *sql.DB
}

func NewReminderStore(db *sql.DB) *ReminderStore {
	return &ReminderStore{db: db}
}

func scanReminder(scanner interface{ Scan(...any) error }) (*model.Reminder, error) {
	var r model.Reminder
	var enabled int
	var days string
	if err := scanner.Scan(&r.ID, &r.Type, &enabled, &r.Times, &days, &r.Frequency, &r.Message); err != nil {
		return nil, err
	}
	r.Enabled = enabled != 0
	parsed, err := parseDays(days)
	if err != nil {
		return nil, fmt.Errorf("reminder %s: %w", r.ID, err)
	}
	r.Days = parsed
	return &r, nil
}

const reminderCols = `id, type, enabled, times, days, frequency, message`

func (s *ReminderStore) List() ([]model.Reminder, error) {
	return s.list(`SELECT ` + reminderCols + ` FROM reminders ORDER BY sort_order ASC, id ASC`)
}

func (s *ReminderStore) ListEnabled() ([]model.Reminder, error) {
	return s.list(`SELECT ` + reminderCols + ` FROM reminders WHERE enabled = 1 ORDER BY sort_order ASC, id ASC`)
}

func (s *ReminderStore) list(query string) ([]model.Reminder, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	reminders := []model.Reminder{}
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		reminders = append(reminders, *r)
	}
	return reminders, rows.Err()
}

func (s *ReminderStore) GetByID(id string) (*model.Reminder, error) {
	row := s.db.QueryRow(`SELECT `+reminderCols+` FROM reminders WHERE id = ?`, id)
	r, err := scanReminder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reminder: %w", err)
	}
	return r, nil
}

// Update saves the editable fields. It returns nil if the reminder does not
// exist.
func (s *ReminderStore) Update(r model.Reminder) (*model.Reminder, error) {
	result, err := s.db.Exec(
		`UPDATE reminders SET enabled = ?, times = ?, days = ?, frequency = ?, message = ?, updated_at = ? WHERE id = ?`,
		boolToInt(r.Enabled), r.Times, formatDays(r.Days), r.Frequency, r.Message, time.Now().UTC(), r.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update reminder: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.GetByID(r.ID)
}

// WasSent reports whether the reminder already fired for the given slot.
func (s *ReminderStore) WasSent(reminderID, slot string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM reminder_sends WHERE reminder_id = ? AND fire_at = ?`,
		reminderID, slot,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check reminder send: %w", err)
	}
	return count > 0, nil
}

func (s *ReminderStore) RecordSent(reminderID, slot string) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO reminder_sends (reminder_id, fire_at) VALUES (?, ?)`,
		reminderID, slot,
	)
	if err != nil {
		return fmt.Errorf("record reminder send: %w", err)
	}
	return nil
}

// CleanupSent deletes send records older than before.
func (s *ReminderStore) CleanupSent(before time.Time) error {
	_, err := s.db.Exec(`DELETE FROM reminder_sends WHERE sent_at < ?`, before.UTC())
	if err != nil {
		return fmt.Errorf("cleanup reminder sends: %w", err)
	}
	return nil
}

func parseDays(s string) ([]int, error) {
	days := []int{}
	if strings.TrimSpace(s) == "" {
		return days, nil
	}
	for _, part := range strings.Split(s, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || d < 0 || d > 6 {
			return nil, fmt.Errorf("invalid weekday %q", part)
		}
		days = append(days, d)
	}
	return days, nil
}

func formatDays(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}
