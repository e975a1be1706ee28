package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/scribe/pkg/models"
)

// UpsertWordpressCredential creates or replaces the single credential row owned by c.UserID.
func (r *SQLRepo) UpsertWordpressCredential(ctx context.Context, c *models.WordpressCredential) (*models.WordpressCredential, error) {
	if c == nil {
		return nil, fmt.Errorf("wordpress credential is nil")
	}

	out := *c
	err := r.conn.QueryRow(ctx,
		`INSERT INTO wordpress_credentials (user_id, site_url, username, application_password, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET site_url = excluded.site_url, username = excluded.username, application_password = excluded.application_password, updated_at = excluded.updated_at
		 RETURNING id`,
		c.UserID, c.SiteURL, c.Username, c.ApplicationPassword, now().UnixMilli(),
	).Scan(&out.ID)
	if err != nil {
		return nil, classify(err)
	}

	return &out, nil
}

func (r *SQLRepo) GetWordpressCredential(ctx context.Context, userID int64) (*models.WordpressCredential, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, user_id, site_url, username, application_password FROM wordpress_credentials WHERE user_id = ?`, userID)

	var c models.WordpressCredential
	if err := row.Scan(&c.ID, &c.UserID, &c.SiteURL, &c.Username, &c.ApplicationPassword); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, classify(err)
	}

	return &c, nil
}
