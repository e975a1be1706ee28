package main

import (
	"context"
	"fmt"
	"os"

	dbfs "github.com/garnizeh/scribe/db"
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
	database, err := db.New(ctx, db.Driver(cfg.DatabaseDriver), cfg.DatabaseDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
		fmt.Fprintf(os.Stderr, "Migration runner error: %v\n", err)
		os.Exit(1)
	}

	v, err := db.Version(ctx, database, dbfs.Migrations)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration version error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Database initialized successfully (schema version %d).\n", v)
}
