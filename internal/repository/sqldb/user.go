package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/scribe/pkg/models"
)

func (r *SQLRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("user is nil")
	}

	ts := now()
	var id int64
	err := r.conn.QueryRow(ctx,
		`INSERT INTO users (username, email, name, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		u.Username, u.Email, u.Name, u.PasswordHash, ts.UnixMilli(), ts.UnixMilli(),
	).Scan(&id)
	if err != nil {
		return 0, classify(err)
	}

	u.ID = id
	u.CreatedAt = fromMillis(ts.UnixMilli())
	u.UpdatedAt = u.CreatedAt

	return id, nil
}

func (r *SQLRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, username, email, name, password_hash, created_at, updated_at FROM users WHERE username = ?`, username)

	var (
		u       models.User
		name    sql.NullString
		created int64
		updated int64
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &name, &u.PasswordHash, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, classify(err)
	}

	if name.Valid {
		u.Name = &name.String
	}
	u.CreatedAt = fromMillis(created)
	u.UpdatedAt = fromMillis(updated)

	return &u, nil
}
