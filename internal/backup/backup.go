// Package backup copies the SQLite database aside before anything writes bookings, and keeps
// the newest constants.MaxBackups copies.
package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/traffic/internal/constants"
	"github.com/julianstephens/traffic/internal/logger"
)

const timestampLayout = "20060102-150405"

// Info describes one backup file.
type Info struct {
	Path      string
	Reason    string
	Timestamp time.Time
	Size      int64
}

type Manager struct {
	dbPath    string
	backupDir string
	now       func() time.Time
}

// NewManager keeps backups in a "backups" directory next to the database file.
func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		now:       time.Now,
	}
}

func (m *Manager) Dir() string {
	return m.backupDir
}

// Create writes a consistent copy of the database. reason ("manual", "pre-commit") becomes
// part of the file name: traffic-<reason>-YYYYMMDD-HHMMSS.db.
func (m *Manager) Create(reason string) (string, error) {
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	reason = sanitizeReason(reason)
	stamp := m.now().Format(timestampLayout)
	path := filepath.Join(m.backupDir, constants.BackupFilePrefix+reason+"-"+stamp+constants.BackupFileSuffix)
	for n := 1; fileExists(path); n++ {
		if n > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = filepath.Join(m.backupDir, fmt.Sprintf("%s%s-%s.%d%s", constants.BackupFilePrefix, reason, stamp, n, constants.BackupFileSuffix))
	}

	if err := vacuumInto(m.dbPath, path); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	logger.Info("Created database backup", "path", path, "reason", reason)

	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return path, nil
}

func vacuumInto(src, dst string) error {
	db, err := sql.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	if err := verify(db); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	_, err = db.Exec("VACUUM INTO ?", dst)
	return err
}

// List returns the backups in the backup directory, newest first. Files that do not follow
// the naming scheme are ignored.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var out []Info
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		reason, ts, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Reason:    reason,
			Timestamp: ts,
			Size:      fi.Size(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Path > out[j].Path
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// parseName splits traffic-<reason>-YYYYMMDD-HHMMSS[.N].db.
func parseName(name string) (string, time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return "", time.Time{}, false
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
	if i := strings.LastIndex(rest, "."); i >= 0 {
		rest = rest[:i]
	}
	if len(rest) < len(timestampLayout)+2 {
		return "", time.Time{}, false
	}
	stamp := rest[len(rest)-len(timestampLayout):]
	reason := strings.TrimSuffix(rest[:len(rest)-len(timestampLayout)], "-")
	ts, err := time.ParseInLocation(timestampLayout, stamp, time.Local)
	if err != nil || reason == "" {
		return "", time.Time{}, false
	}
	return reason, ts, true
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Restore replaces the database with backupPath. The current database is backed up first
// with reason "pre-restore".
func (m *Manager) Restore(backupPath string) error {
	db, err := sql.Open("sqlite", backupPath+"?mode=ro")
	if err != nil {
		return err
	}
	verr := verify(db)
	db.Close()
	if verr != nil {
		return fmt.Errorf("backup file is corrupted or invalid: %w", verr)
	}

	if fileExists(m.dbPath) {
		if _, err := m.Create("pre-restore"); err != nil {
			return fmt.Errorf("failed to backup current database before restore: %w", err)
		}
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tmp); err != nil {
		return fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to restore database: %w", err)
	}
	logger.Info("Restored database from backup", "path", backupPath)
	return nil
}

// verify checks that db is a traffic database: the bookings table must be present.
func verify(db *sql.DB) error {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'bookings'").Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no bookings table")
	}
	return nil
}

func sanitizeReason(reason string) string {
	reason = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return '-'
	}, strings.TrimSpace(reason))
	if reason = strings.Trim(reason, "-"); reason == "" {
		return "manual"
	}
	return reason
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
