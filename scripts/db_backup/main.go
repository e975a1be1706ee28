package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/garnizeh/scribe/internal/config"
	"github.com/garnizeh/scribe/internal/db"
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Getenv("SCRIBE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if db.Driver(cfg.DatabaseDriver) != db.DriverSQLite {
		fmt.Fprintln(os.Stderr, "Backup error: only sqlite databases can be backed up with this tool; use pg_dump for postgres")
		os.Exit(1)
	}

	src, err := db.SQLitePath(cfg.DatabaseDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}
	dst := src + ".bak"
	if len(os.Args) > 1 {
		dst = os.Args[1]
	}

	database, err := db.New(ctx, db.DriverSQLite, cfg.DatabaseDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	start := time.Now()
	if err := db.Backup(ctx, database, dst); err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Database backup completed: %s (%s).\n", dst, time.Since(start).Round(time.Millisecond))
}
