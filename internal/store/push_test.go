package store

import (
	"testing"

	"github.com/dukerupert/leanfuel/internal/database"
)

func setupPushTestDB(t *testing.T) *PushStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPushStore(db)
}

func TestCreateSubscription(t *testing.T) {
	ps := setupPushTestDB(t)

	sub, err := ps.CreateSubscription("https://push.example.com/sub1", "p256dh_key1", "auth_key1", "Chrome Desktop")
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	if sub.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if sub.Endpoint != "https://push.example.com/sub1" {
		t.Errorf("endpoint = %q, want %q", sub.Endpoint, "https://push.example.com/sub1")
	}
	if sub.DeviceName != "Chrome Desktop" {
		t.Errorf("device_name = %q, want %q", sub.DeviceName, "Chrome Desktop")
	}
}

func TestCreateSubscriptionUpsert(t *testing.T) {
	ps := setupPushTestDB(t)

	first, _ := ps.CreateSubscription("https://push.example.com/sub1", "old", "old", "Phone")
	second, err := ps.CreateSubscription("https://push.example.com/sub1", "new", "new", "Phone")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert changed id: %d -> %d", first.ID, second.ID)
	}
	if second.P256dhKey != "new" || second.AuthKey != "new" {
		t.Errorf("keys not refreshed: %+v", second)
	}

	subs, _ := ps.List()
	if len(subs) != 1 {
		t.Errorf("expected 1 subscription, got %d", len(subs))
	}
}

func TestDeleteSubscription(t *testing.T) {
	ps := setupPushTestDB(t)

	a, _ := ps.CreateSubscription("https://push.example.com/a", "k", "a", "A")
	ps.CreateSubscription("https://push.example.com/b", "k", "a", "B")

	if err := ps.DeleteSubscription(a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := ps.GetByID(a.ID); got != nil {
		t.Error("expected nil after delete")
	}

	if err := ps.DeleteByEndpoint("https://push.example.com/b"); err != nil {
		t.Fatalf("delete by endpoint: %v", err)
	}
	subs, _ := ps.List()
	if len(subs) != 0 {
		t.Errorf("expected no subscriptions, got %d", len(subs))
	}
}
