package sqldb

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/garnizeh/scribe/internal/db"
	"github.com/garnizeh/scribe/pkg/repository"
)

// SQLRepo implements repository interfaces using the internal DB wrapper.
// The same queries run on sqlite and postgres; placeholders are rebound by db.DB.
type SQLRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLRepo implements the public interfaces.
var _ repository.UserRepo = (*SQLRepo)(nil)
var _ repository.WordpressRepo = (*SQLRepo)(nil)
var _ repository.ContentJobRepo = (*SQLRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLRepo {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &SQLRepo{conn: conn, logger: logger}
}

func now() time.Time {
	return time.Now().UTC()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// classify maps driver errors onto the repository error taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var le *sqlite.Error
	if errors.As(err, &le) {
		switch le.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %w", repository.ErrDuplicateKey, err)
		case sqlite3.SQLITE_CONSTRAINT_NOTNULL, sqlite3.SQLITE_MISMATCH, sqlite3.SQLITE_TOOBIG:
			return fmt.Errorf("%w: %w", repository.ErrSchemaMismatch, err)
		}
	}

	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		switch pe.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %w", repository.ErrDuplicateKey, err)
		case "22001", "22P02", "23502", "42703", "42P01":
			return fmt.Errorf("%w: %w", repository.ErrSchemaMismatch, err)
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %w", repository.ErrDuplicateKey, err)
	case strings.Contains(msg, "no such column"),
		strings.Contains(msg, "no such table"),
		strings.Contains(msg, "has no column named"),
		strings.Contains(msg, "NOT NULL constraint failed"):
		return fmt.Errorf("%w: %w", repository.ErrSchemaMismatch, err)
	}

	return fmt.Errorf("db error: %w", err)
}
