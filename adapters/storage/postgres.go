package storage

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"steam-toolbox/internal/errors"
)

const postgresDriverName = "postgres"

const schemaCalculationsPostgres = `
CREATE TABLE IF NOT EXISTS calculations (
    id TEXT PRIMARY KEY,
    name TEXT,
    fluid TEXT NOT NULL,
    pressure_drop_pa DOUBLE PRECISION NOT NULL,
    fingerprint TEXT NOT NULL,
    request TEXT NOT NULL,
    result TEXT NOT NULL,
    created_at TEXT NOT NULL
);
`

// InitPostgres connects to a postgres database and ensures tables exist
func InitPostgres(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New(errors.TypeConfig, "postgres storage requires a DSN")
	}
	db, err := sql.Open(postgresDriverName, dsn)
	if err != nil {
		return nil, errors.Storage("open postgres", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Storage("ping postgres", err)
	}

	if err := ensureSchema(db, schemaCalculationsPostgres, schemaCalculationsIndex); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewPostgresStore wraps an open postgres database
func NewPostgresStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, dialect: postgresDialect}
}
