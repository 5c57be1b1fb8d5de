package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Runner applies file-based schema migrations against postgres.
type Runner struct {
	databaseURL    string
	migrationsPath string
	logger         *slog.Logger
}

func NewRunner(databaseURL, migrationsPath string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return &Runner{
		databaseURL:    databaseURL,
		migrationsPath: migrationsPath,
		logger:         logger,
	}
}

// Up applies every pending migration.
func (r *Runner) Up() error {
	m, err := r.open()
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			r.logger.Info("schema already up to date")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	r.logger.Info("migrations applied")
	return nil
}

// Version reports the current schema version and whether it is dirty.
// A database with no migrations yet reports version 0, clean.
func (r *Runner) Version() (uint, bool, error) {
	m, err := r.open()
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}

func (r *Runner) open() (*migrate.Migrate, error) {
	m, err := migrate.New("file://"+r.migrationsPath, r.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open migrations at %s: %w", r.migrationsPath, err)
	}
	return m, nil
}

// AutoMigrate brings the schema up to date at startup. A dirty schema is
// never advanced automatically; it needs a manual fix first.
func AutoMigrate(databaseURL, migrationsPath string, logger *slog.Logger) error {
	runner := NewRunner(databaseURL, migrationsPath, logger)

	version, dirty, err := runner.Version()
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("schema is dirty at version %d, resolve it before starting", version)
	}
	runner.logger.Info("schema version before migrate", "version", version)

	return runner.Up()
}
