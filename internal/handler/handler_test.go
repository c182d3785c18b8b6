package handler

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/leanfuel/internal/database"
	"github.com/dukerupert/leanfuel/internal/entitlement"
	"github.com/dukerupert/leanfuel/internal/mealplan"
	"github.com/dukerupert/leanfuel/internal/store"
	ws "github.com/dukerupert/leanfuel/internal/websocket"
)

type recordingHub struct {
	mu   sync.Mutex
	msgs []ws.Message
}

func (h *recordingHub) Broadcast(msg ws.Message) {
	h.mu.Lock()
	h.msgs = append(h.msgs, msg)
	h.mu.Unlock()
}

func (h *recordingHub) types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.msgs))
	for i, m := range h.msgs {
		out[i] = m.Type
	}
	return out
}

type testEnv struct {
	db      *sql.DB
	plans   *mealplan.FixtureRepository
	ent     *entitlement.Service
	hub     *recordingHub
	logger  *slog.Logger
	grocery *store.GroceryStore
	foodLog *store.FoodLogStore
	profile *store.ProfileStore
	state   *store.StateStore
	subs    *store.SubscriptionStore
	remind  *store.ReminderStore
	push    *store.PushStore
}

func setupHandlerTest(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	plans, err := mealplan.NewFixtureRepository()
	if err != nil {
		t.Fatalf("load fixtures: %v", err)
	}

	logger := slog.New(slog.DiscardHandler)
	state := store.NewStateStore(db)
	subs := store.NewSubscriptionStore(db)
	return &testEnv{
		db:      db,
		plans:   plans,
		ent:     entitlement.NewService(state, subs, logger),
		hub:     &recordingHub{},
		logger:  logger,
		grocery: store.NewGroceryStore(db),
		foodLog: store.NewFoodLogStore(db),
		profile: store.NewProfileStore(db),
		state:   state,
		subs:    subs,
		remind:  store.NewReminderStore(db),
		push:    store.NewPushStore(db),
	}
}

func (e *testEnv) upgrade(t *testing.T) {
	t.Helper()
	if _, err := e.ent.Upgrade("monthly", time.Now()); err != nil {
		t.Fatalf("upgrade: %v", err)
	}
}

// do runs h against a request built from method, target and body.
// pathValues are name/value pairs set on the request.
func do(t *testing.T, h http.HandlerFunc, method, target, body string, pathValues ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

func openFileDB(t *testing.T) (*sql.DB, error) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "leanfuel.db"))
	if err != nil {
		return nil, err
	}
	t.Cleanup(func() { db.Close() })
	return db, nil
}
