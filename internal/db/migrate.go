package db

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/pressly/goose/v3"
)

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// gooseDialect maps a Driver to the dialect name goose understands.
func (d Driver) gooseDialect() (string, error) {
	switch d {
	case DriverSQLite:
		return "sqlite3", nil
	case DriverPostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", string(d))
	}
}

// Migrate applies every pending migration found under migrations/<driver>/ in
// migrationFS. Applied versions are tracked by goose in goose_db_version, so
// running it twice is a no-op.
func Migrate(ctx context.Context, d *DB, migrationFS fs.FS) error {
	dialect, err := d.driver.gooseDialect()
	if err != nil {
		return err
	}

	dir := path.Join("migrations", string(d.driver))
	if _, err := fs.ReadDir(migrationFS, dir); err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, d.conn, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Version returns the latest applied migration version.
func Version(ctx context.Context, d *DB, migrationFS fs.FS) (int64, error) {
	dialect, err := d.driver.gooseDialect()
	if err != nil {
		return 0, err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return 0, fmt.Errorf("set migration dialect: %w", err)
	}

	return goose.GetDBVersionContext(ctx, d.conn)
}
