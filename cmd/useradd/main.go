// Command useradd registers a user directly against the configured database.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	dbfs "github.com/garnizeh/scribe/db"
	"github.com/garnizeh/scribe/internal/account"
	"github.com/garnizeh/scribe/internal/config"
	"github.com/garnizeh/scribe/internal/db"
	"github.com/garnizeh/scribe/internal/repository/sqldb"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	username := flag.String("username", "", "Username (required)")
	email := flag.String("email", "", "Email (required)")
	name := flag.String("name", "", "Display name")
	flag.Parse()

	if err := run(*configPath, *username, *email, *name); err != nil {
		fmt.Fprintf(os.Stderr, "useradd: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, username, email, name string) error {
	if username == "" || email == "" {
		return errors.New("-username and -email are required")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	password, err := readPassword(os.Stdin, os.Stderr)
	if err != nil {
		return err
	}

	ctx := context.Background()
	database, err := db.New(ctx, db.Driver(cfg.DatabaseDriver), cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer database.Close()

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
			return err
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	repo := sqldb.New(database, logger)
	svc, err := account.NewService(repo, repo, nil, cfg.BcryptCost, logger)
	if err != nil {
		return err
	}

	in := account.RegisterInput{Username: username, Email: email, Password: password}
	if name != "" {
		in.Name = &name
	}
	u, err := svc.Register(ctx, in)
	if err != nil {
		return err
	}

	fmt.Printf("created user %s (id %d)\n", u.Username, u.ID)
	return nil
}

// readPassword prompts twice without echo on a terminal, or reads one line from a pipe.
func readPassword(in *os.File, prompt io.Writer) (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		pw := strings.TrimRight(line, "\r\n")
		if pw == "" {
			return "", errors.New("empty password")
		}
		return pw, nil
	}

	fmt.Fprint(prompt, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", err
	}
	fmt.Fprint(prompt, "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", err
	}

	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	if len(first) == 0 {
		return "", errors.New("empty password")
	}

	return string(first), nil
}
