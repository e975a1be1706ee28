package mock

import (
	"context"
	"sync"
	"time"

	"github.com/garnizeh/scribe/pkg/models"
	"github.com/garnizeh/scribe/pkg/repository"
)

// Test helpers and mocks
type Mocks struct {
	UserRepo      *mockUserRepo
	WordpressRepo *mockWordpressRepo
	JobRepo       *mockContentJobRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		UserRepo:      &mockUserRepo{users: map[string]*models.User{}},
		WordpressRepo: &mockWordpressRepo{creds: map[int64]*models.WordpressCredential{}},
		JobRepo:       &mockContentJobRepo{},
	}
}

var (
	_ repository.UserRepo       = (*mockUserRepo)(nil)
	_ repository.WordpressRepo  = (*mockWordpressRepo)(nil)
	_ repository.ContentJobRepo = (*mockContentJobRepo)(nil)
)

type mockUserRepo struct {
	mu     sync.Mutex
	users  map[string]*models.User
	nextID int64

	CreateErr error
	GetErr    error
	GetCalls  int
}

func (m *mockUserRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	if _, ok := m.users[u.Username]; ok {
		return 0, repository.ErrDuplicateKey
	}

	m.nextID++
	stored := *u
	stored.ID = m.nextID
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	m.users[u.Username] = &stored
	u.ID = stored.ID

	return stored.ID, nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if u, ok := m.users[username]; ok {
		cp := *u
		return &cp, nil
	}

	return nil, nil
}

// Delete drops a stored user, simulating an account removed after a token was issued.
func (m *mockUserRepo) Delete(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, username)
}

type mockWordpressRepo struct {
	mu     sync.Mutex
	creds  map[int64]*models.WordpressCredential
	nextID int64

	UpsertErr error
	GetErr    error
}

func (m *mockWordpressRepo) UpsertWordpressCredential(ctx context.Context, c *models.WordpressCredential) (*models.WordpressCredential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpsertErr != nil {
		return nil, m.UpsertErr
	}

	stored := *c
	if prev, ok := m.creds[c.UserID]; ok {
		stored.ID = prev.ID
	} else {
		m.nextID++
		stored.ID = m.nextID
	}
	m.creds[c.UserID] = &stored

	out := stored
	return &out, nil
}

func (m *mockWordpressRepo) GetWordpressCredential(ctx context.Context, userID int64) (*models.WordpressCredential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if c, ok := m.creds[userID]; ok {
		out := *c
		return &out, nil
	}

	return nil, nil
}

type mockContentJobRepo struct {
	mu     sync.Mutex
	jobs   []models.ContentJob
	nextID int64

	CreateErr error
	ListErr   error
}

func (m *mockContentJobRepo) CreateContentJob(ctx context.Context, j *models.ContentJob) (*models.ContentJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	m.nextID++
	stored := *j
	stored.ID = m.nextID
	stored.Status = models.JobStatusPending
	stored.CreatedAt = time.Now().UTC()
	m.jobs = append(m.jobs, stored)

	out := stored
	return &out, nil
}

func (m *mockContentJobRepo) ListContentJobsByUser(ctx context.Context, userID int64) ([]models.ContentJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}

	out := []models.ContentJob{}
	// insertion order is creation order, so walking backwards yields newest first
	for i := len(m.jobs) - 1; i >= 0; i-- {
		if m.jobs[i].UserID == userID {
			out = append(out, m.jobs[i])
		}
	}

	return out, nil
}

// Count returns the number of stored jobs across all users.
func (m *mockContentJobRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}
