package repository

import (
	"context"
	"errors"

	"github.com/garnizeh/scribe/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

var (
	// ErrDuplicateKey is returned when a write violates a uniqueness constraint.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrSchemaMismatch is returned when a value cannot be mapped onto the
	// table's columns (missing column, value too long, wrong type).
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// UserRepo is the credential store.
type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	// GetByUsername returns nil, nil when no user matches.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type WordpressRepo interface {
	UpsertWordpressCredential(ctx context.Context, c *models.WordpressCredential) (*models.WordpressCredential, error)
	// GetWordpressCredential returns nil, nil when the user has none.
	GetWordpressCredential(ctx context.Context, userID int64) (*models.WordpressCredential, error)
}

type ContentJobRepo interface {
	// CreateContentJob persists j as pending and returns the stored row with
	// id and created_at assigned.
	CreateContentJob(ctx context.Context, j *models.ContentJob) (*models.ContentJob, error)
	// ListContentJobsByUser returns the user's jobs, newest first. Never nil.
	ListContentJobsByUser(ctx context.Context, userID int64) ([]models.ContentJob, error)
}
