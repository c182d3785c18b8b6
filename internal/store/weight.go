package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/leanfuel/internal/model"
)

type WeightStore struct {
	db *sql.DB
}

func NewWeightStore(db *sql.DB) *WeightStore {
	return &WeightStore{db: db}
}

func scanWeightEntry(scanner interface{ Scan(...any) error }) (*model.WeightEntry, error) {
	var e model.WeightEntry
	if err := scanner.Scan(&e.Date, &e.Weight); err != nil {
		return nil, err
	}
	return &e, nil
}

const weightCols = `entry_date, weight`

// Record saves the weigh-in for date, replacing any earlier one that day.
func (s *WeightStore) Record(date string, weight float64) (*model.WeightEntry, error) {
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO weight_entries (entry_date, weight, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(entry_date) DO UPDATE SET weight = excluded.weight, updated_at = excluded.updated_at`,
		date, weight, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("record weight: %w", err)
	}
	return &model.WeightEntry{Date: date, Weight: weight}, nil
}

// List returns every weigh-in ordered by date.
func (s *WeightStore) List() ([]model.WeightEntry, error) {
	rows, err := s.db.Query(`SELECT ` + weightCols + ` FROM weight_entries ORDER BY entry_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("list weights: %w", err)
	}
	defer rows.Close()

	entries := []model.WeightEntry{}
	for rows.Next() {
		e, err := scanWeightEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan weight: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Delete reports whether an entry existed for date.
func (s *WeightStore) Delete(date string) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM weight_entries WHERE entry_date = ?`, date)
	if err != nil {
		return false, fmt.Errorf("delete weight: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
