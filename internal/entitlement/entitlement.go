// Package entitlement decides what the premium flag unlocks and when the
// upgrade promotion is shown.
package entitlement

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/dukerupert/leanfuel/internal/model"
	"github.com/dukerupert/leanfuel/internal/store"
)

// Features gated behind premium.
const (
	FeaturePremiumMealPlans = "premium_meal_plans"
	FeatureWeeklyReport     = "weekly_report"
	FeatureAddMealToLog     = "add_meal_to_log"
	FeatureChatAssistant    = "chat_assistant"
	FeatureAdFree           = "ad_free"
)

var premiumFeatures = []string{
	FeaturePremiumMealPlans,
	FeatureWeeklyReport,
	FeatureAddMealToLog,
	FeatureChatAssistant,
	FeatureAdFree,
}

const (
	promotionAfterFirstVisit = 3
	promotionCooldown        = 7
)

var ErrUnknownPlan = errors.New("unknown subscription plan")

var plans = []model.SubscriptionPlan{
	{
		ID:          "monthly",
		Name:        "Monthly",
		Price:       "$4.99",
		Description: "Billed monthly",
		Interval:    "month",
		Features: []string{
			"Personalized meal plans",
			"AI nutrition coach",
			"Barcode scanner",
			"Weekly insights & reports",
			"Ad-free experience",
		},
	},
	{
		ID:          "quarterly",
		Name:        "Quarterly",
		Price:       "$11.99",
		Description: "Billed every 3 months ($3.99/mo)",
		Interval:    "quarter",
		Features:    []string{"Everything in Monthly", "20% savings vs monthly"},
	},
	{
		ID:          "yearly",
		Name:        "Annual",
		Price:       "$29.99",
		Description: "Billed annually ($2.49/mo)",
		Interval:    "year",
		Features:    []string{"Everything in Monthly", "50% savings vs monthly", "Priority support"},
	},
}

// StateRepository is the key-value app state the service reads and writes.
type StateRepository interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// SubscriptionRecorder persists upgrades.
type SubscriptionRecorder interface {
	Create(plan string) (*model.Subscription, error)
}

// Status is the snapshot served to clients.
type Status struct {
	Premium       bool     `json:"premium"`
	Features      []string `json:"features"`
	ShowPromotion bool     `json:"show_promotion"`
	LastPromptAt  string   `json:"last_prompt_at,omitempty"`
}

// Service answers entitlement questions from persisted app state.
type Service struct {
	mu     sync.Mutex
	state  StateRepository
	subs   SubscriptionRecorder
	logger *slog.Logger
}

func NewService(state StateRepository, subs SubscriptionRecorder, logger *slog.Logger) *Service {
	return &Service{
		state:  state,
		subs:   subs,
		logger: logger.With("component", "entitlement"),
	}
}

// Plans returns the purchasable plans.
func (s *Service) Plans() []model.SubscriptionPlan {
	out := make([]model.SubscriptionPlan, len(plans))
	for i, p := range plans {
		p.Features = slices.Clone(p.Features)
		out[i] = p
	}
	return out
}

// IsPremium reports the stored premium flag. Unreadable values count as
// not premium.
func (s *Service) IsPremium() (bool, error) {
	raw, ok, err := s.state.Get(store.StatePremium)
	if err != nil {
		return false, fmt.Errorf("get premium flag: %w", err)
	}
	if !ok {
		return false, nil
	}
	premium, err := strconv.ParseBool(raw)
	if err != nil {
		s.logger.Warn("invalid premium flag, using default", "value", raw, "error", err)
		return false, nil
	}
	return premium, nil
}

// IsEntitled reports whether the feature is unlocked. Unknown features are
// never granted.
func (s *Service) IsEntitled(feature string) (bool, error) {
	if !slices.Contains(premiumFeatures, feature) {
		return false, nil
	}
	return s.IsPremium()
}

// Features lists what the current state unlocks.
func (s *Service) Features() ([]string, error) {
	premium, err := s.IsPremium()
	if err != nil {
		return nil, err
	}
	if !premium {
		return []string{}, nil
	}
	return slices.Clone(premiumFeatures), nil
}

// Upgrade turns premium on and records the subscription. An empty plan
// means monthly. No payment is taken.
func (s *Service) Upgrade(planID string, now time.Time) (*model.Subscription, error) {
	if planID == "" {
		planID = plans[0].ID
	}
	if !slices.ContainsFunc(plans, func(p model.SubscriptionPlan) bool { return p.ID == planID }) {
		return nil, ErrUnknownPlan
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sub, err := s.subs.Create(planID)
	if err != nil {
		return nil, fmt.Errorf("record subscription: %w", err)
	}
	if err := s.state.Set(store.StatePremium, "true"); err != nil {
		return nil, fmt.Errorf("set premium flag: %w", err)
	}
	if err := s.recordPrompt(now); err != nil {
		return nil, err
	}
	s.logger.Info("upgraded", "plan", planID)
	return sub, nil
}

// ShouldShowPromotion reports whether to show the upgrade promotion. The
// first call records the first visit and never shows it.
func (s *Service) ShouldShowPromotion(now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	firstVisit, ok, err := s.timeValue(store.StateFirstVisit)
	if err != nil {
		return false, err
	}
	if !ok {
		if err := s.state.Set(store.StateFirstVisit, now.UTC().Format(time.RFC3339)); err != nil {
			return false, fmt.Errorf("record first visit: %w", err)
		}
		return false, nil
	}

	premium, err := s.IsPremium()
	if err != nil {
		return false, err
	}
	if premium || daysBetween(firstVisit, now) < promotionAfterFirstVisit {
		return false, nil
	}

	lastPrompt, prompted, err := s.timeValue(store.StateLastPrompt)
	if err != nil {
		return false, err
	}
	if prompted && daysBetween(lastPrompt, now) < promotionCooldown {
		return false, nil
	}
	return true, nil
}

// DismissPromotion records that the promotion was shown.
func (s *Service) DismissPromotion(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordPrompt(now)
}

// Status bundles premium, features and promotion state. It is not read-only:
// the first call records the first visit through ShouldShowPromotion.
func (s *Service) Status(now time.Time) (*Status, error) {
	premium, err := s.IsPremium()
	if err != nil {
		return nil, err
	}
	features, err := s.Features()
	if err != nil {
		return nil, err
	}
	show, err := s.ShouldShowPromotion(now)
	if err != nil {
		return nil, err
	}
	st := &Status{Premium: premium, Features: features, ShowPromotion: show}
	if last, ok, err := s.timeValue(store.StateLastPrompt); err != nil {
		return nil, err
	} else if ok {
		st.LastPromptAt = last.Format(time.RFC3339)
	}
	return st, nil
}

func (s *Service) recordPrompt(now time.Time) error {
	if err := s.state.Set(store.StateLastPrompt, now.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("record prompt: %w", err)
	}
	return nil
}

// timeValue reads an RFC 3339 timestamp. Unparseable values are treated as
// absent.
func (s *Service) timeValue(key string) (time.Time, bool, error) {
	raw, ok, err := s.state.Get(key)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get %s: %w", key, err)
	}
	if !ok {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		s.logger.Warn("invalid timestamp, using default", "key", key, "value", raw, "error", err)
		return time.Time{}, false, nil
	}
	return t, true, nil
}

// daysBetween counts whole elapsed days.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}
