package storage

import (
	"embed"
	"io/fs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFiles embed.FS

func sqliteMigrations() fs.FS {
	sub, _ := fs.Sub(migrationFiles, "migrations/sqlite")
	return sub
}

func postgresMigrations() fs.FS {
	sub, _ := fs.Sub(migrationFiles, "migrations/postgres")
	return sub
}
