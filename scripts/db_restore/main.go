package main

import (
	"fmt"
	"io"
	"os"

	"github.com/garnizeh/scribe/internal/config"
	"github.com/garnizeh/scribe/internal/db"
)

// Restore replaces the sqlite database file with a backup. Stop the server first.
func main() {
	cfg, err := config.LoadConfig(os.Getenv("SCRIBE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if db.Driver(cfg.DatabaseDriver) != db.DriverSQLite {
		fmt.Fprintln(os.Stderr, "Restore error: only sqlite databases can be restored with this tool")
		os.Exit(1)
	}

	dst, err := db.SQLitePath(cfg.DatabaseDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}
	src := dst + ".bak"
	if len(os.Args) > 1 {
		src = os.Args[1]
	}

	srcFile, err := os.Open(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}
	defer srcFile.Close()

	// copy to a sibling temp file, then rename over the target
	tmp := dst + ".restore"
	dstFile, err := os.Create(tmp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		os.Remove(tmp)
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}
	if err := dstFile.Close(); err != nil {
		os.Remove(tmp)
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}

	// stale WAL/SHM files belong to the replaced database
	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(dst + suffix)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database restore completed.")
}
