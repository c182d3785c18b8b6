package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dukerupert/leanfuel/internal/model"
)

// ErrCorruptProfile is returned when the stored wizard data cannot be
// decoded. Callers fall back to a fresh profile.
var ErrCorruptProfile = errors.New("stored profile data is corrupt")

type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Get returns nil if no profile has been saved.
func (s *ProfileStore) Get() (*model.Profile, error) {
	var p model.Profile
	var data string
	var completed int
	err := s.db.QueryRow(`SELECT step, data, completed FROM profile WHERE id = 1`).Scan(&p.Step, &data, &completed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p.Completed = completed != 0
	if err := json.Unmarshal([]byte(data), &p.Data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptProfile, err)
	}
	return &p, nil
}

func (s *ProfileStore) Save(p model.Profile) error {
	data, err := json.Marshal(p.Data)
	if err != nil {
		return fmt.Errorf("marshal profile data: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO profile (id, step, data, completed, updated_at) VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET step = excluded.step, data = excluded.data,
		 completed = excluded.completed, updated_at = excluded.updated_at`,
		p.Step, string(data), boolToInt(p.Completed), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *ProfileStore) Reset() error {
	if _, err := s.db.Exec(`DELETE FROM profile`); err != nil {
		return fmt.Errorf("reset profile: %w", err)
	}
	return nil
}
