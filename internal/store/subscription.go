package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/leanfuel/internal/model"
)

type SubscriptionStore struct {
	db *sql.DB
}

func NewSubscriptionStore(db *sql.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

func scanSubscription(scanner interface{ Scan(...any) error }) (*model.Subscription, error) {
	var sub model.Subscription
	if err := scanner.Scan(&sub.ID, &sub.Plan, &sub.Status, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return nil, err
	}
	return &sub, nil
}

const subscriptionCols = `id, plan, status, created_at, updated_at`

func (s *SubscriptionStore) Create(plan string) (*model.Subscription, error) {
	result, err := s.db.Exec(
		`INSERT INTO subscriptions (plan, status) VALUES (?, ?)`,
		plan, model.SubscriptionStatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("insert subscription: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *SubscriptionStore) GetByID(id int64) (*model.Subscription, error) {
	row := s.db.QueryRow(`SELECT `+subscriptionCols+` FROM subscriptions WHERE id = ?`, id)
	sub, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return sub, nil
}

// Latest returns the most recent subscription, or nil.
func (s *SubscriptionStore) Latest() (*model.Subscription, error) {
	row := s.db.QueryRow(`SELECT ` + subscriptionCols + ` FROM subscriptions ORDER BY id DESC LIMIT 1`)
	sub, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest subscription: %w", err)
	}
	return sub, nil
}

func (s *SubscriptionStore) List() ([]model.Subscription, error) {
	rows, err := s.db.Query(`SELECT ` + subscriptionCols + ` FROM subscriptions ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []model.Subscription{}
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}
