package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"clients_backend/pkg/utils"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq" // PostgreSQL driver
)

const pingTimeout = 5 * time.Second

// InitDB opens a PostgreSQL pool for dsn and verifies it with a ping.
func InitDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	utils.LogInfo("Successfully connected to the database")
	return db, nil
}

// RunMigrations applies every pending up migration found in migrationsPath
// to the database at databaseURL. An empty path skips migrations.
func RunMigrations(migrationsPath, databaseURL string) error {
	if migrationsPath == "" {
		utils.LogInfo("No migrations path provided, skipping schema migrations")
		return nil
	}

	m, err := migrate.New("file://"+migrationsPath, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	utils.LogInfo("Database schema is up to date", map[string]interface{}{"version": version, "dirty": dirty})
	return nil
}
