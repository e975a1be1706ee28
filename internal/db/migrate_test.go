package db_test

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	dbfs "github.com/garnizeh/scribe/db"
	"github.com/garnizeh/scribe/internal/db"
)

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()

	d, err := db.New(ctx, db.DriverSQLite, filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer d.Close()

	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	// Run again to ensure idempotency
	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	v, err := db.Version(ctx, d, dbfs.Migrations)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if v < 1 {
		t.Fatalf("expected at least version 1, got %d", v)
	}

	for _, table := range []string{"users", "wordpress_credentials", "content_jobs"} {
		var name string
		row := d.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name = ?`, table)
		if err := row.Scan(&name); err != nil {
			t.Fatalf("expected %s table exists: %v", table, err)
		}
	}
}

func TestMigrate_MissingDialectDir(t *testing.T) {
	ctx := context.Background()

	d, err := db.New(ctx, db.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer d.Close()

	fsys := fstest.MapFS{
		"migrations/postgres/00001_init.sql": &fstest.MapFile{Data: []byte("-- +goose Up\nSELECT 1;\n")},
	}
	if err := db.Migrate(ctx, d, fsys); err == nil {
		t.Fatalf("expected error when sqlite migrations are missing")
	}
}
