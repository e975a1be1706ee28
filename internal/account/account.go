package account

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/scribe/pkg/models"
	"github.com/garnizeh/scribe/pkg/repository"
)

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// TokenIssuer signs identity tokens for a username.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// Service handles registration, login and the caller's own profile.
type Service struct {
	users      repository.UserRepo
	wordpress  repository.WordpressRepo
	tokens     TokenIssuer
	bcryptCost int
	logger     *slog.Logger

	// dummyHash is compared against when the username is unknown so that
	// both login failures cost one bcrypt comparison.
	dummyHash []byte
}

// NewService builds a Service. A bcryptCost of 0 selects bcrypt.DefaultCost.
func NewService(users repository.UserRepo, wordpress repository.WordpressRepo, tokens TokenIssuer, bcryptCost int, logger *slog.Logger) (*Service, error) {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", bcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("scribe-dummy-password"), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &Service{
		users:      users,
		wordpress:  wordpress,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
		dummyHash:  dummy,
	}, nil
}

type RegisterInput struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

// Register stores a new user with a bcrypt hash of the password.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	existing, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: string(hash),
	}
	if _, err := s.users.CreateUser(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", slog.Int64("user_id", u.ID), slog.String("username", u.Username))

	return u, nil
}

// LoginResult is the token plus the public part of the profile.
type LoginResult struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Name        *string `json:"name"`
}

// Login checks the password with a single bcrypt comparison and issues a token.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash := s.dummyHash
	if u != nil {
		hash = []byte(u.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil || u == nil {
		s.logger.Info("login failed", slog.String("username", username))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		Username:    u.Username,
		Email:       u.Email,
		Name:        u.Name,
	}, nil
}

// WordpressView is the credential shape returned by Profile.
type WordpressView struct {
	SiteURL             string `json:"siteUrl"`
	Username            string `json:"username"`
	ApplicationPassword string `json:"applicationPassword"`
}

type Profile struct {
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	Name      *string        `json:"name"`
	Wordpress *WordpressView `json:"wordpress"`
}

// Profile returns u's public fields and linked WordPress credentials, if any.
func (s *Service) Profile(ctx context.Context, u *models.User) (*Profile, error) {
	cred, err := s.wordpress.GetWordpressCredential(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("load wordpress credentials: %w", err)
	}

	p := &Profile{Username: u.Username, Email: u.Email, Name: u.Name}
	if cred != nil {
		p.Wordpress = &WordpressView{
			SiteURL:             cred.SiteURL,
			Username:            cred.Username,
			ApplicationPassword: cred.ApplicationPassword,
		}
	}

	return p, nil
}

type WordpressInput struct {
	SiteURL             string `json:"siteUrl"`
	Username            string `json:"username"`
	ApplicationPassword string `json:"applicationPassword"`
}

// SaveWordpress creates or replaces u's WordPress credentials.
func (s *Service) SaveWordpress(ctx context.Context, u *models.User, in WordpressInput) (*models.WordpressCredential, error) {
	cred, err := s.wordpress.UpsertWordpressCredential(ctx, &models.WordpressCredential{
		UserID:              u.ID,
		SiteURL:             in.SiteURL,
		Username:            in.Username,
		ApplicationPassword: in.ApplicationPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("save wordpress credentials: %w", err)
	}

	s.logger.Info("wordpress credentials saved", slog.Int64("user_id", u.ID))

	return cred, nil
}
