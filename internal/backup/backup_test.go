package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/traffic/internal/constants"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "traffic.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE bookings (id TEXT PRIMARY KEY, employee TEXT, duration_hours REAL)`); err != nil {
		t.Fatalf("failed to create bookings table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO bookings VALUES ('b1', 'Anna', 9), ('b2', 'Bram', 4)`); err != nil {
		t.Fatalf("failed to insert bookings: %v", err)
	}
	return dbPath
}

func countBookings(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM bookings").Scan(&n); err != nil {
		t.Fatalf("failed to count bookings: %v", err)
	}
	return n
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = fixedClock(time.Date(2025, 3, 3, 9, 30, 0, 0, time.Local))

	path, err := mgr.Create("pre-commit")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if want := filepath.Join(mgr.Dir(), "traffic-pre-commit-20250303-093000.db"); path != want {
		t.Errorf("backup path = %q, want %q", path, want)
	}
	if n := countBookings(t, path); n != 2 {
		t.Errorf("backup has %d bookings, want 2", n)
	}

	// Same second: a counter keeps the names unique.
	second, err := mgr.Create("pre-commit")
	if err != nil {
		t.Fatalf("second Create failed: %v", err)
	}
	if second == path {
		t.Error("second backup reused the first file name")
	}
}

func TestCreateMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create("manual"); err == nil {
		t.Error("expected error for missing database")
	}
}

func TestCreateRejectsForeignDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "other.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("CREATE TABLE tasks (id TEXT)"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	if _, err := NewManager(dbPath).Create("manual"); err == nil {
		t.Error("expected error backing up a database without a bookings table")
	}
}

func TestListAndRotate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.Local)
	total := constants.MaxBackups + 3
	for i := 0; i < total; i++ {
		mgr.now = fixedClock(start.Add(time.Duration(i) * time.Minute))
		if _, err := mgr.Create("manual"); err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
	}

	// Stray files are ignored.
	if err := os.WriteFile(filepath.Join(mgr.Dir(), "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("got %d backups after rotation, want %d", len(backups), constants.MaxBackups)
	}
	newest := start.Add(time.Duration(total-1) * time.Minute)
	if !backups[0].Timestamp.Equal(newest) {
		t.Errorf("newest backup at %v, want %v", backups[0].Timestamp, newest)
	}
	if backups[0].Reason != "manual" {
		t.Errorf("reason = %q, want manual", backups[0].Reason)
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Fatalf("backups not sorted newest first at %d", i)
		}
	}
}

func TestListEmpty(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "traffic.db"))
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("got %d backups, want 0", len(backups))
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = fixedClock(time.Date(2025, 3, 3, 9, 0, 0, 0, time.Local))

	saved, err := mgr.Create("pre-commit")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("INSERT INTO bookings VALUES ('b3', 'Cas', 1)"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	mgr.now = fixedClock(time.Date(2025, 3, 3, 10, 0, 0, 0, time.Local))
	if err := mgr.Restore(saved); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if n := countBookings(t, dbPath); n != 2 {
		t.Errorf("restored database has %d bookings, want 2", n)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 2 || backups[0].Reason != "pre-restore" {
		t.Errorf("expected a pre-restore backup, got %+v", backups)
	}
	if n := countBookings(t, backups[0].Path); n != 3 {
		t.Errorf("pre-restore backup has %d bookings, want 3", n)
	}
}

func TestRestoreInvalidFile(t *testing.T) {
	dbPath := setupTestDB(t)
	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("not sqlite"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := NewManager(dbPath).Restore(bogus); err == nil {
		t.Error("expected error restoring an invalid file")
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name   string
		reason string
		ok     bool
	}{
		{"traffic-manual-20250303-093000.db", "manual", true},
		{"traffic-pre-commit-20250303-093000.2.db", "pre-commit", true},
		{"traffic-20250303-093000.db", "", false},
		{"traffic-manual-2025.db", "", false},
		{"other-manual-20250303-093000.db", "", false},
	}
	for _, tt := range tests {
		reason, _, ok := parseName(tt.name)
		if ok != tt.ok || reason != tt.reason {
			t.Errorf("parseName(%q) = %q, %v; want %q, %v", tt.name, reason, ok, tt.reason, tt.ok)
		}
	}
}

func TestSanitizeReason(t *testing.T) {
	for in, want := range map[string]string{
		"Pre Commit": "pre-commit",
		"  ":         "manual",
		"weekly/26":  "weekly-26",
	} {
		if got := sanitizeReason(in); got != want {
			t.Errorf("sanitizeReason(%q) = %q, want %q", in, got, want)
		}
	}
}
