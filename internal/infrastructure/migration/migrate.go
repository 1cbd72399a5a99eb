// Package migration drives golang-migrate against the Postgres schema and
// manages the numbered SQL files it reads.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Source is either an fs.FS (the schema embedded in the binary) or a
// directory on disk.
type Source struct {
	fsys fs.FS
	dir  string
}

func FromFS(fsys fs.FS) Source { return Source{fsys: fsys} }

func FromDir(dir string) Source { return Source{dir: dir} }

func (s Source) open(db database.Driver) (*migrate.Migrate, error) {
	if s.fsys == nil {
		return migrate.NewWithDatabaseInstance("file://"+s.dir, "postgres", db)
	}
	src, err := iofs.New(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	return migrate.NewWithInstance("iofs", src, "postgres", db)
}

type Migrator struct {
	m   *migrate.Migrate
	log *zap.Logger
}

// New wraps an open connection. golang-migrate takes an advisory lock per
// run, so two servers starting together apply each file once.
func New(db *sql.DB, src Source, log *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}
	m, err := src.open(driver)
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}
	return &Migrator{m: m, log: log.Named("migrate")}, nil
}

// apply runs one golang-migrate operation. ErrNoChange is success.
func (mg *Migrator) apply(action string, op func() error, fields ...zap.Field) error {
	mg.log.Info("Migrating", append(fields, zap.String("action", action))...)
	err := op()
	if errors.Is(err, migrate.ErrNoChange) {
		mg.log.Info("Schema already current", zap.String("action", action))
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	version, dirty, err := mg.Version()
	if err != nil {
		return err
	}
	mg.log.Info("Migrated", zap.String("action", action), zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

func (mg *Migrator) Up() error { return mg.apply("up", mg.m.Up) }

func (mg *Migrator) Down() error { return mg.apply("down", mg.m.Down) }

// Steps moves n files forward, or back when n is negative
func (mg *Migrator) Steps(n int) error {
	return mg.apply("steps", func() error { return mg.m.Steps(n) }, zap.Int("steps", n))
}

func (mg *Migrator) GoTo(version uint) error {
	return mg.apply("goto", func() error { return mg.m.Migrate(version) }, zap.Uint("target", version))
}

// Version is 0 on an empty schema
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, false, nil
	case err != nil:
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}

// Force records version without running SQL, clearing the dirty flag left
// by a failed file once it has been repaired by hand.
func (mg *Migrator) Force(version int) error {
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}
