package content

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/garnizeh/scribe/internal/auth"
	"github.com/garnizeh/scribe/pkg/models"
	"github.com/garnizeh/scribe/pkg/repository"
)

// Resolver turns a verified principal into its user row.
type Resolver interface {
	Resolve(ctx context.Context, p auth.Principal) (*models.User, error)
}

// Dispatcher delivers the created-job notification. *webhook.Client satisfies it.
type Dispatcher interface {
	Notify(ctx context.Context, payload any) error
}

// Service implements job submission and listing for the calling user.
type Service struct {
	users           Resolver
	jobs            repository.ContentJobRepo
	dispatcher      Dispatcher
	dispatchTimeout time.Duration
	logger          *slog.Logger
}

const defaultDispatchTimeout = 5 * time.Second

// NewService builds a Service. A nil dispatcher disables the webhook.
func NewService(users Resolver, jobs repository.ContentJobRepo, dispatcher Dispatcher, dispatchTimeout time.Duration, logger *slog.Logger) *Service {
	if dispatchTimeout <= 0 {
		dispatchTimeout = defaultDispatchTimeout
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	return &Service{
		users:           users,
		jobs:            jobs,
		dispatcher:      dispatcher,
		dispatchTimeout: dispatchTimeout,
		logger:          logger,
	}
}

// Submit validates body, resolves the caller, stores the job as pending and
// notifies the webhook. The body is rejected before any storage access.
// Webhook failures are logged and never change the result.
func (s *Service) Submit(ctx context.Context, p auth.Principal, body []byte) (*models.ContentJob, error) {
	parsed, err := parseJobRequest(ctx, body)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	job, err := s.jobs.CreateContentJob(ctx, parsed.job(u.ID))
	if err != nil {
		return nil, fmt.Errorf("create content job: %w", err)
	}

	s.logger.Info("content job created",
		slog.Int64("job_id", job.ID),
		slog.Int64("user_id", u.ID),
		slog.String("title", job.Title),
	)

	s.dispatch(ctx, parsed.webhookPayload(job.ID, u.ID), job.ID)

	return job, nil
}

// dispatch makes one bounded delivery attempt. It outlives client
// cancellation so a disconnect does not abort a notification in flight.
func (s *Service) dispatch(ctx context.Context, payload map[string]any, jobID int64) {
	if s.dispatcher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.dispatchTimeout)
	defer cancel()

	if err := s.dispatcher.Notify(ctx, payload); err != nil {
		s.logger.Warn("failed to trigger webhook", slog.Int64("job_id", jobID), slog.Any("err", err))
		return
	}

	s.logger.Debug("webhook triggered", slog.Int64("job_id", jobID))
}

// ListMine returns the caller's jobs, newest first.
func (s *Service) ListMine(ctx context.Context, p auth.Principal) ([]models.ContentJob, error) {
	u, err := s.users.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	jobs, err := s.jobs.ListContentJobsByUser(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("list content jobs: %w", err)
	}

	return jobs, nil
}
