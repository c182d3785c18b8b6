package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dukerupert/leanfuel/internal/database"
	"github.com/dukerupert/leanfuel/internal/model"
)

func setupWeightTestDB(t *testing.T) *WeightStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewWeightStore(db)
}

func TestWeightRecordAndList(t *testing.T) {
	ws := setupWeightTestDB(t)

	for _, e := range []model.WeightEntry{
		{Date: "2024-03-10", Weight: 81.2},
		{Date: "2024-03-01", Weight: 82.5},
		{Date: "2024-03-05", Weight: 81.8},
		{Date: "2024-03-10", Weight: 81.0},
	} {
		if _, err := ws.Record(e.Date, e.Weight); err != nil {
			t.Fatalf("record %s: %v", e.Date, err)
		}
	}

	got, err := ws.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []model.WeightEntry{
		{Date: "2024-03-01", Weight: 82.5},
		{Date: "2024-03-05", Weight: 81.8},
		{Date: "2024-03-10", Weight: 81.0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestWeightDelete(t *testing.T) {
	ws := setupWeightTestDB(t)

	if _, err := ws.Record("2024-03-01", 80); err != nil {
		t.Fatalf("record: %v", err)
	}
	removed, err := ws.Delete("2024-03-01")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !removed {
		t.Error("expected removal")
	}
	if removed, _ := ws.Delete("2024-03-01"); removed {
		t.Error("second delete should report nothing removed")
	}

	got, _ := ws.List()
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", got)
	}
}
