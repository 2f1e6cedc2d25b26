package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/traffic/internal/migration"
	"github.com/julianstephens/traffic/internal/models"
)

type SQLiteStore struct {
	sqlStore
	path string
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		sqlStore: sqlStore{dialect: migration.SQLite},
		path:     path,
	}
}

func (s *SQLiteStore) open() error {
	db, err := sql.Open("sqlite", s.path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer; one connection keeps transactions from tripping over each other.
	db.SetMaxOpenConns(1)
	s.db = db
	return nil
}

func (s *SQLiteStore) Init(defaults models.WorkConfig) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := s.open(); err != nil {
		return err
	}

	runner := migration.NewRunner(s.db, sqliteMigrations(), migration.SQLite)
	if _, err := runner.Apply(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	seeded, err := s.hasSettings()
	if err != nil {
		return err
	}
	if !seeded {
		if err := s.SaveWorkConfig(defaults); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'traffic init' first")
	}
	if err := s.open(); err != nil {
		return err
	}
	return migration.NewRunner(s.db, sqliteMigrations(), migration.SQLite).Validate()
}

// Migrate applies pending migrations to an existing database and returns the number applied.
func (s *SQLiteStore) Migrate() (int, error) {
	if s.db == nil {
		if err := s.open(); err != nil {
			return 0, err
		}
	}
	return migration.NewRunner(s.db, sqliteMigrations(), migration.SQLite).Apply()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}
