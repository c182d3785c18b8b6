package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/leanfuel/internal/config"
	"github.com/dukerupert/leanfuel/internal/database"
	"github.com/dukerupert/leanfuel/internal/middleware"
)

func setupServer(t *testing.T) http.Handler {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config.Default()
	cfg.Chat.Delay = 0
	cfg.Reminders.Timezone = "UTC"
	srv, err := New(db, cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv.Router()
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := setupServer(t)
	rec := serve(h, "GET", "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["backup"] != "disabled" {
		t.Errorf("body = %v", body)
	}
}

func TestPremiumRoutesRequireUpgrade(t *testing.T) {
	h := setupServer(t)

	gated := []struct {
		method, target, body string
	}{
		{"POST", "/api/chat", `{"message":"protein"}`},
		{"GET", "/api/reports/weekly", ""},
		{"GET", "/api/weights/trends", ""},
		{"POST", "/api/food-logs/2024-03-01/meals", `{"plan_id":"balanced","day":1,"slot":"lunch"}`},
	}
	for _, g := range gated {
		if rec := serve(h, g.method, g.target, g.body); rec.Code != http.StatusPaymentRequired {
			t.Errorf("%s %s = %d before upgrade, want 402", g.method, g.target, rec.Code)
		}
	}

	if rec := serve(h, "POST", "/api/subscription/upgrade", ""); rec.Code != http.StatusCreated {
		t.Fatalf("upgrade = %d, want 201", rec.Code)
	}

	for _, g := range gated[:3] {
		if rec := serve(h, g.method, g.target, g.body); rec.Code != http.StatusOK {
			t.Errorf("%s %s = %d after upgrade, want 200 (%s)", g.method, g.target, rec.Code, rec.Body.String())
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	h := setupServer(t)
	if rec := serve(h, "GET", "/api/meal-plans/no-such-plan", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if rec := serve(h, "PUT", "/api/meal-plans", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
