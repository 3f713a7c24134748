package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"steam-toolbox/internal/errors"
)

const sqliteDriverName = "sqlite"

const schemaCalculations = `
CREATE TABLE IF NOT EXISTS calculations (
    id TEXT PRIMARY KEY,
    name TEXT,
    fluid TEXT NOT NULL,
    pressure_drop_pa REAL NOT NULL,
    fingerprint TEXT NOT NULL,
    request TEXT NOT NULL,
    result TEXT NOT NULL,
    created_at TEXT NOT NULL
);
`

const schemaCalculationsIndex = `
CREATE INDEX IF NOT EXISTS idx_calculations_created_at ON calculations (created_at);
`

// InitDB opens/creates a SQLite DB file and ensures tables exist
func InitDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && path != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Storage("failed to create database directory", err)
		}
	}

	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, errors.Storage("open sqlite at "+path, err)
	}

	// SQLite is not great with many writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, errors.Storage("set "+pragma, err)
		}
	}

	if err := ensureSchema(db, schemaCalculations, schemaCalculationsIndex); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Fail fast if the DB cannot be reached
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Storage("ping sqlite", err)
	}
	return db, nil
}

func ensureSchema(db *sql.DB, statements ...string) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.Storage("begin schema transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return errors.Storage("apply schema statement", err).WithContext("statement", i+1)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Storage("commit schema transaction", err)
	}
	return nil
}

// NewSQLiteStore wraps an open sqlite database
func NewSQLiteStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, dialect: sqliteDialect}
}
