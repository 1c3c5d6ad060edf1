package database

import (
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	// Registers the pure-Go "sqlite" database/sql driver used below.
	_ "modernc.org/sqlite"
)

// Connect opens PostgreSQL for postgres:// DSNs and falls back to the pure-Go
// SQLite driver for anything else (local development, tests).
func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}
