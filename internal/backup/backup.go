// Package backup writes encrypted snapshots of the database to S3-compatible
// storage or a local directory.
package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dukerupert/leanfuel/internal/model"
	"github.com/dukerupert/leanfuel/internal/store"

	_ "modernc.org/sqlite"
)

var (
	ErrNotConfigured  = errors.New("backup not configured")
	ErrNoPassphrase   = errors.New("backup passphrase is required")
	ErrInProgress     = errors.New("a backup is already running")
	ErrBackupNotFound = errors.New("backup not found")
	ErrNotCompleted   = errors.New("backup did not complete")
)

const (
	defaultRetentionDays = 30
	listLimit            = 50
)

// Config holds backup manager configuration. S3 wins when both targets are
// set.
type Config struct {
	S3            S3Config
	LocalDir      string
	RetentionDays int
}

// State represents the backup manager state.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateDisabled State = "disabled"
	StateError    State = "error"
)

// Status holds the current backup manager status.
type Status struct {
	State      State      `json:"state"`
	Target     string     `json:"target,omitempty"`
	LastBackup *time.Time `json:"last_backup,omitempty"`
	Error      string     `json:"error,omitempty"`
	InProgress bool       `json:"in_progress"`
}

// StatusCallback is called whenever the backup state changes.
type StatusCallback func(Status)

// Manager runs encrypted backups.
type Manager struct {
	mu       sync.RWMutex
	cfg      Config
	status   Status
	callback StatusCallback
	running  bool

	db      *sql.DB
	backups *store.BackupStore
	storage storage
	logger  *slog.Logger
	now     func() time.Time
}

// NewManager creates a backup manager. It is disabled when neither S3 nor a
// local directory is configured.
func NewManager(cfg Config, db *sql.DB, bs *store.BackupStore, logger *slog.Logger, callback StatusCallback) *Manager {
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = defaultRetentionDays
	}
	m := &Manager{
		cfg:      cfg,
		db:       db,
		backups:  bs,
		callback: callback,
		logger:   logger.With("component", "backup"),
		now:      time.Now,
		status:   Status{State: StateDisabled},
	}

	switch {
	case cfg.S3.complete():
		m.storage = &s3Storage{client: newS3Client(cfg.S3), bucket: cfg.S3.Bucket}
	case cfg.LocalDir != "":
		m.storage = &localStorage{dir: cfg.LocalDir}
	}
	if m.storage != nil {
		m.status = Status{State: StateIdle, Target: m.storage.Name()}
	}
	return m
}

// Status returns the current backup status.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Manager) setStatus(s Status) {
	m.mu.Lock()
	if m.storage != nil {
		s.Target = m.storage.Name()
	}
	m.status = s
	m.mu.Unlock()
	if m.callback != nil {
		m.callback(s)
	}
}

// RunNow snapshots, encrypts and stores the database, then applies the
// retention policy. Only one backup runs at a time.
func (m *Manager) RunNow(ctx context.Context, passphrase string) (*model.Backup, error) {
	if m.storage == nil {
		return nil, ErrNotConfigured
	}
	if passphrase == "" {
		return nil, ErrNoPassphrase
	}

	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil, ErrInProgress
	}
	m.running = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	m.setStatus(Status{State: StateRunning, InProgress: true})

	filename := fmt.Sprintf("leanfuel-%s.db.enc", m.now().UTC().Format("20060102T150405Z"))
	record, err := m.backups.Create(filename, "")
	if err != nil {
		m.setStatus(Status{State: StateError, Error: err.Error()})
		return nil, fmt.Errorf("create backup record: %w", err)
	}

	size, location, err := m.write(ctx, record.ID, filename, passphrase)
	if err != nil {
		m.logger.Error("backup failed", "id", record.ID, "error", err)
		if uerr := m.backups.UpdateStatus(record.ID, model.BackupStatusFailed, err.Error()); uerr != nil {
			m.logger.Error("mark backup failed", "id", record.ID, "error", uerr)
		}
		m.setStatus(Status{State: StateError, Error: err.Error()})
		return nil, err
	}

	if err := m.backups.UpdateCompleted(record.ID, location, size); err != nil {
		return nil, err
	}

	now := m.now().UTC()
	m.setStatus(Status{State: StateIdle, LastBackup: &now})
	m.logger.Info("backup completed", "id", record.ID, "location", location, "size", size)

	if err := m.Cleanup(ctx); err != nil {
		m.logger.Warn("cleanup failed", "error", err)
	}
	return m.backups.GetByID(record.ID)
}

func (m *Manager) write(ctx context.Context, id int64, filename, passphrase string) (int64, string, error) {
	if err := m.backups.UpdateStatus(id, model.BackupStatusUploading, ""); err != nil {
		return 0, "", err
	}

	plaintext, err := m.snapshot(ctx)
	if err != nil {
		return 0, "", err
	}
	enc, err := Encrypt(plaintext, passphrase)
	if err != nil {
		return 0, "", fmt.Errorf("encrypt: %w", err)
	}
	location, err := m.storage.Put(ctx, filename, enc)
	if err != nil {
		return 0, "", err
	}
	return int64(len(enc)), location, nil
}

// snapshot returns a consistent copy of the database via VACUUM INTO.
func (m *Manager) snapshot(ctx context.Context) ([]byte, error) {
	dir, err := os.MkdirTemp("", "leanfuel-backup-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "snapshot.db")
	if _, err := m.db.ExecContext(ctx, `VACUUM INTO ?`, path); err != nil {
		return nil, fmt.Errorf("snapshot database: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}

// List returns recent backups, newest first.
func (m *Manager) List() ([]model.Backup, error) {
	return m.backups.List(listLimit)
}

// Download streams a stored, still-encrypted backup.
func (m *Manager) Download(ctx context.Context, id int64) (io.ReadCloser, *model.Backup, error) {
	record, err := m.completed(id)
	if err != nil {
		return nil, nil, err
	}
	body, err := m.storage.Get(ctx, record.Location)
	if err != nil {
		return nil, nil, err
	}
	return body, record, nil
}

// RestoreTo decrypts a backup into dst after checking that it is a valid
// SQLite database. The live database is never touched.
func (m *Manager) RestoreTo(ctx context.Context, id int64, passphrase, dst string) error {
	body, _, err := m.Download(ctx, id)
	if err != nil {
		return err
	}
	enc, err := io.ReadAll(body)
	body.Close()
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	plaintext, err := Decrypt(enc, passphrase)
	if err != nil {
		return err
	}

	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, plaintext, 0o600); err != nil {
		return fmt.Errorf("write restored db: %w", err)
	}
	if err := checkIntegrity(ctx, tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("move restored db: %w", err)
	}
	return nil
}

func checkIntegrity(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open restored db: %w", err)
	}
	defer db.Close()

	var result string
	if err := db.QueryRowContext(ctx, `PRAGMA integrity_check`).Scan(&result); err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}
	return nil
}

// Cleanup deletes backups older than the retention period.
func (m *Manager) Cleanup(ctx context.Context) error {
	if m.storage == nil {
		return nil
	}
	before := m.now().UTC().AddDate(0, 0, -m.cfg.RetentionDays)
	locations, err := m.backups.DeleteOlderThan(before)
	if err != nil {
		return fmt.Errorf("delete old backups: %w", err)
	}
	for _, loc := range locations {
		if loc == "" {
			continue
		}
		if err := m.storage.Delete(ctx, loc); err != nil {
			m.logger.Warn("delete stored backup", "location", loc, "error", err)
		}
	}
	return nil
}

func (m *Manager) completed(id int64) (*model.Backup, error) {
	if m.storage == nil {
		return nil, ErrNotConfigured
	}
	record, err := m.backups.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("get backup: %w", err)
	}
	if record == nil {
		return nil, ErrBackupNotFound
	}
	if record.Status != model.BackupStatusCompleted {
		return nil, ErrNotCompleted
	}
	return record, nil
}
