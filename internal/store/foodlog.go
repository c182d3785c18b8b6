package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/leanfuel/internal/model"
)

type FoodLogStore struct {
	db *sql.DB
}

func NewFoodLogStore(db *sql.DB) *FoodLogStore {
	return &FoodLogStore{db: db}
}

func scanFoodItem(scanner interface{ Scan(...any) error }) (*model.FoodItem, string, error) {
	var f model.FoodItem
	var date string
	err := scanner.Scan(&f.ID, &date, &f.Name, &f.Calories, &f.Carbs, &f.Protein, &f.Fat, &f.ServingSize)
	if err != nil {
		return nil, "", err
	}
	return &f, date, nil
}

const foodItemCols = `id, log_date, name, calories, carbs, protein, fat, serving_size`

// Get returns the log for date. A date with nothing logged yields an empty
// log, never nil.
func (s *FoodLogStore) Get(date string) (*model.FoodLog, error) {
	logs, err := s.ListRange(date, date)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return &model.FoodLog{Date: date, Foods: []model.FoodItem{}}, nil
	}
	return &logs[0], nil
}

// ListRange returns the logged days in [start, end], ordered by date.
func (s *FoodLogStore) ListRange(start, end string) ([]model.FoodLog, error) {
	rows, err := s.db.Query(
		`SELECT log_date, calories_burned FROM food_logs WHERE log_date >= ? AND log_date <= ? ORDER BY log_date ASC`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("list food logs: %w", err)
	}
	logs := []model.FoodLog{}
	index := make(map[string]int)
	for rows.Next() {
		l := model.FoodLog{Foods: []model.FoodItem{}}
		if err := rows.Scan(&l.Date, &l.CaloriesBurned); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan food log: %w", err)
		}
		index[l.Date] = len(logs)
		logs = append(logs, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(
		`SELECT `+foodItemCols+` FROM food_items WHERE log_date >= ? AND log_date <= ? ORDER BY log_date ASC, created_at ASC, rowid ASC`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("list food items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		f, date, err := scanFoodItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan food item: %w", err)
		}
		if i, ok := index[date]; ok {
			logs[i].Foods = append(logs[i].Foods, *f)
		}
	}
	return logs, rows.Err()
}

// Dates lists every logged date in ascending order.
func (s *FoodLogStore) Dates() ([]string, error) {
	rows, err := s.db.Query(`SELECT log_date FROM food_logs ORDER BY log_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("list log dates: %w", err)
	}
	defer rows.Close()

	dates := []string{}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan log date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (s *FoodLogStore) ensureLog(tx *sql.Tx, date string) error {
	_, err := tx.Exec(
		`INSERT INTO food_logs (log_date, calories_burned, updated_at) VALUES (?, 0, ?)
		 ON CONFLICT(log_date) DO UPDATE SET updated_at = excluded.updated_at`,
		date, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("ensure food log: %w", err)
	}
	return nil
}

// AddFood appends a food to the day's log, creating the log if needed.
func (s *FoodLogStore) AddFood(date string, f model.FoodItem) (*model.FoodItem, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.ensureLog(tx, date); err != nil {
		return nil, err
	}
	_, err = tx.Exec(
		`INSERT INTO food_items (id, log_date, name, calories, carbs, protein, fat, serving_size) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, date, f.Name, f.Calories, f.Carbs, f.Protein, f.Fat, f.ServingSize,
	)
	if err != nil {
		return nil, fmt.Errorf("insert food item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &f, nil
}

// RemoveFood reports whether a food was removed.
func (s *FoodLogStore) RemoveFood(date, id string) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM food_items WHERE log_date = ? AND id = ?`, date, id)
	if err != nil {
		return false, fmt.Errorf("delete food item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *FoodLogStore) SetCaloriesBurned(date string, calories int) error {
	_, err := s.db.Exec(
		`INSERT INTO food_logs (log_date, calories_burned, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(log_date) DO UPDATE SET calories_burned = excluded.calories_burned, updated_at = excluded.updated_at`,
		date, calories, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set calories burned: %w", err)
	}
	return nil
}
