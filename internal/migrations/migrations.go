// Package migrations embeds the SQL schema and applies it with goose.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed sql/*.sql
var files embed.FS

const dir = "sql"

var setupOnce sync.Once
var setupErr error

// goose keeps its FS and dialect in package globals.
func setup() error {
	setupOnce.Do(func() {
		goose.SetBaseFS(files)
		setupErr = goose.SetDialect("postgres")
	})
	return setupErr
}

// OpenDB opens a database/sql handle over the pgx driver, which is what goose expects.
func OpenDB(dsn string) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	return stdlib.OpenDB(*cfg), nil
}

// Up applies every pending migration.
func Up(db *sql.DB, log zerolog.Logger) error {
	if err := setup(); err != nil {
		return err
	}
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Down rolls back the most recent migration.
func Down(db *sql.DB, log zerolog.Logger) error {
	if err := setup(); err != nil {
		return err
	}
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.Down(db, dir); err != nil {
		return fmt.Errorf("goose down: %w", err)
	}
	return nil
}

// Status logs the applied state of every migration.
func Status(db *sql.DB, log zerolog.Logger) error {
	if err := setup(); err != nil {
		return err
	}
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.Status(db, dir); err != nil {
		return fmt.Errorf("goose status: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through zerolog.
type gooseLogger struct{ log zerolog.Logger }

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info().Str("module", "migrations").Msgf(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Fatal().Str("module", "migrations").Msgf(format, v...)
}
