package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // register file source driver
)

// Direction selects which way migrations run.
type Direction int

const (
	Up Direction = iota
	Down
)

// RunMigrations applies (or, for Down, reverts) every migration under source,
// e.g. "file://migrations". Having nothing to do is not an error.
func RunMigrations(dsn, source string, dir Direction) error {
	m, err := migrate.New(source, dsn)
	if err != nil {
		return fmt.Errorf("postgres: create migrator: %w", err)
	}
	defer m.Close()

	step := m.Up
	if dir == Down {
		step = m.Down
	}
	if err := step(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	return nil
}
