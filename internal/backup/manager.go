package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kbowers/daytally/internal/database"
)

const (
	// DefaultRetention is how many snapshot files rotation keeps when
	// the caller passes no limit.
	DefaultRetention = 14

	backupDirName    = "backups"
	backupFilePrefix = "daytally-"
	backupFileSuffix = ".json"
)

// FileInfo describes one snapshot file on disk.
type FileInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager writes timestamped snapshot files next to the data directory
// and restores from them, keeping a bounded history.
type Manager struct {
	repo      *database.Repository
	backupDir string
	retention int
}

// NewManager keeps at most retention snapshot files; retention <= 0
// means DefaultRetention.
func NewManager(repo *database.Repository, dataDir string, retention int) *Manager {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Manager{
		repo:      repo,
		backupDir: filepath.Join(dataDir, backupDirName),
		retention: retention,
	}
}

// BackupDir returns where snapshot files live.
func (m *Manager) BackupDir() string {
	return m.backupDir
}

// ExportToFile snapshots the store into a new timestamped file and
// rotates old files past the retention limit.
func (m *Manager) ExportToFile(ctx context.Context) (string, error) {
	path, err := m.exportToFile(ctx)
	if err != nil {
		return "", err
	}

	if err := m.rotate(); err != nil {
		// Rotation failure never loses the snapshot just written.
		slog.Warn("failed to rotate old backups", "error", err)
	}
	return path, nil
}

func (m *Manager) exportToFile(ctx context.Context) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	snap, err := Export(ctx, m.repo)
	if err != nil {
		return "", err
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}

	// Write to a temp file and rename so a crash never leaves a
	// truncated snapshot carrying a real backup name.
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	if err := snap.Encode(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("failed to sync backup: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to finalize backup: %w", err)
	}

	return path, nil
}

// nextPath picks an unused timestamped filename, adding seconds and
// then a counter when exports land inside the same minute.
func (m *Manager) nextPath() (string, error) {
	now := time.Now()

	path := m.pathFor(now.Format("20060102-1504"))
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	}

	path = m.pathFor(now.Format("20060102-150405"))
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	}

	stamp := now.Format("20060102-150405")
	for counter := 1; counter <= 100; counter++ {
		path = m.pathFor(fmt.Sprintf("%s-%d", stamp, counter))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

func (m *Manager) pathFor(stamp string) string {
	return filepath.Join(m.backupDir, backupFilePrefix+stamp+backupFileSuffix)
}

// ImportFromFile validates the snapshot, exports the current state as
// a safety net, then replaces the store's contents. A snapshot that
// fails to decode never touches the store.
func (m *Manager) ImportFromFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()

	snap, err := Decode(f)
	if err != nil {
		return err
	}

	safety, err := m.exportToFile(ctx)
	if err != nil {
		return fmt.Errorf("failed to back up current data before restore: %w", err)
	}
	slog.Info("saved pre-restore snapshot", "path", filepath.Base(safety))

	return Restore(ctx, m.repo, snap)
}

// ListBackups returns the snapshot files on disk, newest first.
func (m *Manager) ListBackups() ([]FileInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, backupFilePrefix) || !strings.HasSuffix(name, backupFileSuffix) {
			continue
		}

		ts, ok := parseStamp(strings.TrimSuffix(strings.TrimPrefix(name, backupFilePrefix), backupFileSuffix))
		if !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, FileInfo{
			Path:      filepath.Join(m.backupDir, name),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

func parseStamp(s string) (time.Time, bool) {
	// Strip a trailing collision counter if present.
	if i := strings.LastIndexByte(s, '-'); i > 0 {
		tail := s[i+1:]
		if len(tail) != 4 && len(tail) != 6 && isDigits(tail) {
			s = s[:i]
		}
	}
	for _, layout := range []string{"20060102-1504", "20060102-150405"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (m *Manager) rotate() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := m.retention; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}
