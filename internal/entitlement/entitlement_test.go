package entitlement

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dukerupert/leanfuel/internal/database"
	"github.com/dukerupert/leanfuel/internal/store"
)

func setupService(t *testing.T) (*Service, *store.StateStore, *store.SubscriptionStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	state := store.NewStateStore(db)
	subs := store.NewSubscriptionStore(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(state, subs, logger), state, subs
}

func TestFreeUserNotEntitled(t *testing.T) {
	svc, _, _ := setupService(t)

	for _, f := range premiumFeatures {
		ok, err := svc.IsEntitled(f)
		if err != nil {
			t.Fatalf("is entitled %s: %v", f, err)
		}
		if ok {
			t.Errorf("free user should not have %s", f)
		}
	}
	features, _ := svc.Features()
	if len(features) != 0 {
		t.Errorf("features = %v, want none", features)
	}
}

func TestUpgrade(t *testing.T) {
	svc, state, subs := setupService(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	sub, err := svc.Upgrade("yearly", now)
	if err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if sub.Plan != "yearly" {
		t.Errorf("plan = %q, want yearly", sub.Plan)
	}

	premium, _ := svc.IsPremium()
	if !premium {
		t.Error("expected premium after upgrade")
	}
	for _, f := range premiumFeatures {
		if ok, _ := svc.IsEntitled(f); !ok {
			t.Errorf("expected %s after upgrade", f)
		}
	}
	if ok, _ := svc.IsEntitled("time_travel"); ok {
		t.Error("unknown feature should never be granted")
	}

	last, ok, _ := state.Get(store.StateLastPrompt)
	if !ok || last != "2024-03-01T12:00:00Z" {
		t.Errorf("last prompt = %q, %v", last, ok)
	}
	latest, _ := subs.Latest()
	if latest == nil || latest.Plan != "yearly" {
		t.Errorf("latest subscription = %+v", latest)
	}
}

func TestUpgradeDefaultsAndUnknownPlan(t *testing.T) {
	svc, _, _ := setupService(t)

	sub, err := svc.Upgrade("", time.Now())
	if err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if sub.Plan != "monthly" {
		t.Errorf("default plan = %q, want monthly", sub.Plan)
	}

	if _, err := svc.Upgrade("lifetime", time.Now()); !errors.Is(err, ErrUnknownPlan) {
		t.Errorf("err = %v, want ErrUnknownPlan", err)
	}
}

func TestCorruptPremiumFlag(t *testing.T) {
	svc, state, _ := setupService(t)

	state.Set(store.StatePremium, "maybe")
	premium, err := svc.IsPremium()
	if err != nil {
		t.Fatalf("is premium: %v", err)
	}
	if premium {
		t.Error("corrupt flag should read as not premium")
	}
}

func TestShouldShowPromotion(t *testing.T) {
	day := 24 * time.Hour
	first := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		now        time.Time
		lastPrompt *time.Time
		premium    bool
		want       bool
	}{
		{"too soon after first visit", first.Add(2 * day), nil, false, false},
		{"just under three days", first.Add(3*day - time.Minute), nil, false, false},
		{"three days never prompted", first.Add(3 * day), nil, false, true},
		{"prompted recently", first.Add(10 * day), ptr(first.Add(4 * day)), false, false},
		{"prompt cooldown elapsed", first.Add(11 * day), ptr(first.Add(4 * day)), false, true},
		{"premium never sees it", first.Add(30 * day), nil, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, state, _ := setupService(t)
			state.Set(store.StateFirstVisit, first.Format(time.RFC3339))
			if tt.lastPrompt != nil {
				state.Set(store.StateLastPrompt, tt.lastPrompt.Format(time.RFC3339))
			}
			if tt.premium {
				state.Set(store.StatePremium, "true")
			}

			got, err := svc.ShouldShowPromotion(tt.now)
			if err != nil {
				t.Fatalf("should show: %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldShowPromotion = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFirstCallRecordsFirstVisit(t *testing.T) {
	svc, state, _ := setupService(t)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	show, err := svc.ShouldShowPromotion(now)
	if err != nil {
		t.Fatalf("should show: %v", err)
	}
	if show {
		t.Error("first visit should never show the promotion")
	}
	v, ok, _ := state.Get(store.StateFirstVisit)
	if !ok || v != "2024-03-01T09:00:00Z" {
		t.Errorf("first visit = %q, %v", v, ok)
	}

	show, _ = svc.ShouldShowPromotion(now.Add(72 * time.Hour))
	if !show {
		t.Error("expected promotion three days later")
	}
}

func TestStatusRecordsFirstVisit(t *testing.T) {
	svc, state, _ := setupService(t)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	st, err := svc.Status(now)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.ShowPromotion {
		t.Error("first status should not show the promotion")
	}
	v, ok, _ := state.Get(store.StateFirstVisit)
	if !ok || v != now.Format(time.RFC3339) {
		t.Errorf("first visit = (%q, %v), want %q", v, ok, now.Format(time.RFC3339))
	}
}

func TestDismissPromotion(t *testing.T) {
	svc, state, _ := setupService(t)
	first := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	state.Set(store.StateFirstVisit, first.Format(time.RFC3339))

	now := first.Add(5 * 24 * time.Hour)
	if show, _ := svc.ShouldShowPromotion(now); !show {
		t.Fatal("expected promotion before dismissal")
	}
	if err := svc.DismissPromotion(now); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if show, _ := svc.ShouldShowPromotion(now.Add(time.Hour)); show {
		t.Error("promotion should be hidden after dismissal")
	}

	st, err := svc.Status(now.Add(time.Hour))
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.Premium || st.ShowPromotion || st.LastPromptAt == "" {
		t.Errorf("unexpected status: %+v", st)
	}
}

func TestPlans(t *testing.T) {
	svc, _, _ := setupService(t)

	plans := svc.Plans()
	if len(plans) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(plans))
	}
	want := map[string]string{"monthly": "$4.99", "quarterly": "$11.99", "yearly": "$29.99"}
	for _, p := range plans {
		if want[p.ID] != p.Price {
			t.Errorf("plan %s price = %q, want %q", p.ID, p.Price, want[p.ID])
		}
	}

	plans[0].Features[0] = "changed"
	if svc.Plans()[0].Features[0] == "changed" {
		t.Error("Plans should return copies")
	}
}

func ptr(t time.Time) *time.Time { return &t }
