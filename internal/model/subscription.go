package model

import "time"

type SubscriptionPlan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Description string   `json:"description"`
	Interval    string   `json:"interval"`
	Features    []string `json:"features"`
}

type Subscription struct {
	ID        int64     `json:"id"`
	Plan      string    `json:"plan"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const SubscriptionStatusActive = "active"
