package store

import (
	"testing"
	"time"

	"github.com/dukerupert/leanfuel/internal/database"
	"github.com/dukerupert/leanfuel/internal/model"
)

func setupBackupTestDB(t *testing.T) *BackupStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewBackupStore(db)
}

func TestBackupCreate(t *testing.T) {
	bs := setupBackupTestDB(t)

	b, err := bs.Create("leanfuel-20240101T000000Z.db.enc", "backups/leanfuel-20240101T000000Z.db.enc")
	if err != nil {
		t.Fatalf("create backup: %v", err)
	}
	if b.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if b.Filename != "leanfuel-20240101T000000Z.db.enc" {
		t.Errorf("filename = %q", b.Filename)
	}
	if b.Status != model.BackupStatusPending {
		t.Errorf("status = %q, want %q", b.Status, model.BackupStatusPending)
	}
	if b.StartedAt == nil {
		t.Error("expected started_at to be set")
	}
}

func TestBackupUpdateStatus(t *testing.T) {
	bs := setupBackupTestDB(t)

	b, _ := bs.Create("test.db.enc", "backups/test.db.enc")

	if err := bs.UpdateStatus(b.ID, model.BackupStatusUploading, ""); err != nil {
		t.Fatalf("update status: %v", err)
	}
	got, _ := bs.GetByID(b.ID)
	if got.Status != model.BackupStatusUploading {
		t.Errorf("status = %q, want %q", got.Status, model.BackupStatusUploading)
	}

	if err := bs.UpdateStatus(b.ID, model.BackupStatusFailed, "upload failed"); err != nil {
		t.Fatalf("update status with error: %v", err)
	}
	got, _ = bs.GetByID(b.ID)
	if got.Status != model.BackupStatusFailed {
		t.Errorf("status = %q, want %q", got.Status, model.BackupStatusFailed)
	}
	if got.ErrorMessage != "upload failed" {
		t.Errorf("error_message = %q, want %q", got.ErrorMessage, "upload failed")
	}
}

func TestBackupUpdateCompleted(t *testing.T) {
	bs := setupBackupTestDB(t)

	b, _ := bs.Create("test.db.enc", "backups/test.db.enc")
	if err := bs.UpdateCompleted(b.ID, "backups/test.db.enc", 1024*1024); err != nil {
		t.Fatalf("update completed: %v", err)
	}

	got, _ := bs.GetByID(b.ID)
	if got.Status != model.BackupStatusCompleted {
		t.Errorf("status = %q, want %q", got.Status, model.BackupStatusCompleted)
	}
	if got.SizeBytes != 1024*1024 {
		t.Errorf("size_bytes = %d, want %d", got.SizeBytes, 1024*1024)
	}
	if got.CompletedAt == nil {
		t.Error("expected completed_at to be set")
	}
}

func TestBackupListOrderAndLimit(t *testing.T) {
	bs := setupBackupTestDB(t)

	bs.Create("first.db.enc", "first")
	time.Sleep(10 * time.Millisecond)
	bs.Create("second.db.enc", "second")
	time.Sleep(10 * time.Millisecond)
	bs.Create("third.db.enc", "third")

	all, err := bs.List(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].Filename != "third.db.enc" {
		t.Errorf("first entry = %q, want %q", all[0].Filename, "third.db.enc")
	}

	limited, _ := bs.List(2)
	if len(limited) != 2 {
		t.Errorf("len = %d, want 2", len(limited))
	}
}

func TestBackupDeleteOlderThan(t *testing.T) {
	bs := setupBackupTestDB(t)

	bs.Create("old.db.enc", "backups/old.db.enc")
	time.Sleep(50 * time.Millisecond)
	cutoff := time.Now().UTC()
	time.Sleep(50 * time.Millisecond)
	bs.Create("new.db.enc", "backups/new.db.enc")

	locations, err := bs.DeleteOlderThan(cutoff)
	if err != nil {
		t.Fatalf("delete older than: %v", err)
	}
	if len(locations) != 1 || locations[0] != "backups/old.db.enc" {
		t.Fatalf("deleted = %v, want [backups/old.db.enc]", locations)
	}

	remaining, _ := bs.List(10)
	if len(remaining) != 1 || remaining[0].Filename != "new.db.enc" {
		t.Errorf("remaining = %+v", remaining)
	}
}

func TestBackupLatestCompletedAndTotals(t *testing.T) {
	bs := setupBackupTestDB(t)

	none, err := bs.LatestCompleted()
	if err != nil {
		t.Fatalf("latest completed: %v", err)
	}
	if none != nil {
		t.Error("expected nil with no backups")
	}

	b1, _ := bs.Create("first.db.enc", "first")
	bs.UpdateCompleted(b1.ID, "first", 1000)
	time.Sleep(10 * time.Millisecond)
	b2, _ := bs.Create("second.db.enc", "second")
	bs.UpdateCompleted(b2.ID, "second", 2500)
	b3, _ := bs.Create("failed.db.enc", "failed")
	bs.UpdateStatus(b3.ID, model.BackupStatusFailed, "error")

	latest, err := bs.LatestCompleted()
	if err != nil {
		t.Fatalf("latest completed: %v", err)
	}
	if latest == nil || latest.Filename != "second.db.enc" {
		t.Errorf("latest = %+v, want second.db.enc", latest)
	}

	total, err := bs.TotalSize()
	if err != nil {
		t.Fatalf("total size: %v", err)
	}
	if total != 3500 {
		t.Errorf("total = %d, want 3500", total)
	}
	count, _ := bs.Count()
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}
