package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// SQLitePath returns the file path named by a sqlite DSN, without the
// "file:" prefix or query parameters.
func SQLitePath(dsn string) (string, error) {
	p := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if p == "" || p == ":memory:" || strings.Contains(dsn, "mode=memory") {
		return "", fmt.Errorf("dsn %q does not name a database file", dsn)
	}

	return p, nil
}

// Backup writes a consistent snapshot of a sqlite database to dst using
// VACUUM INTO. It is safe to run while the server is serving requests.
func Backup(ctx context.Context, d *DB, dst string) error {
	if d.driver != DriverSQLite {
		return fmt.Errorf("backup is only supported for sqlite, got %s", d.driver)
	}
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("backup target %s already exists", dst)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat backup target: %w", err)
	}

	// VACUUM INTO does not accept bound parameters
	if _, err := d.conn.ExecContext(ctx, "VACUUM INTO '"+strings.ReplaceAll(dst, "'", "''")+"'"); err != nil {
		return fmt.Errorf("vacuum into %s: %w", dst, err)
	}

	return nil
}
