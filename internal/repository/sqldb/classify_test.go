package sqldb_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	dbpkg "github.com/garnizeh/scribe/internal/db"
	"github.com/garnizeh/scribe/internal/repository/sqldb"
	"github.com/garnizeh/scribe/pkg/models"
	"github.com/garnizeh/scribe/pkg/repository"
)

func newPostgresRepoWithMock(t *testing.T) (*sqldb.SQLRepo, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return sqldb.New(dbpkg.NewFromConn(conn, dbpkg.DriverPostgres), nil), mock
}

func TestCreateContentJob_PostgresErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{name: "UniqueViolation", dbErr: &pgconn.PgError{Code: "23505"}, wantErr: repository.ErrDuplicateKey},
		{name: "ValueTooLong", dbErr: &pgconn.PgError{Code: "22001"}, wantErr: repository.ErrSchemaMismatch},
		{name: "UndefinedColumn", dbErr: &pgconn.PgError{Code: "42703"}, wantErr: repository.ErrSchemaMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newPostgresRepoWithMock(t)
			mock.ExpectQuery(`INSERT INTO content_jobs .* VALUES \(\$1, \$2, .*\$13\) RETURNING id`).
				WillReturnError(tt.dbErr)

			_, err := repo.CreateContentJob(context.Background(), &models.ContentJob{UserID: 1, Title: "t", MainKeyword: "k"})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestCreateUser_OtherErrorsAreWrapped(t *testing.T) {
	repo, mock := newPostgresRepoWithMock(t)
	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(errors.New("db down"))

	_, err := repo.CreateUser(context.Background(), &models.User{Username: "a", Email: "a@x", PasswordHash: "h"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if errors.Is(err, repository.ErrDuplicateKey) || errors.Is(err, repository.ErrSchemaMismatch) {
		t.Fatalf("generic error misclassified: %v", err)
	}
}

func TestGetByUsername_NotFoundIsNil(t *testing.T) {
	repo, mock := newPostgresRepoWithMock(t)
	mock.ExpectQuery(`SELECT id, username, email, name, password_hash, created_at, updated_at FROM users WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "name", "password_hash", "created_at", "updated_at"}))

	u, err := repo.GetByUsername(context.Background(), "ghost")
	if err != nil || u != nil {
		t.Fatalf("expected nil, nil; got %#v, %v", u, err)
	}
}
