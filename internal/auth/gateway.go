package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/garnizeh/scribe/pkg/models"
	"github.com/garnizeh/scribe/pkg/repository"
)

var (
	// ErrUnauthenticated covers a missing, malformed, tampered or expired token.
	// Callers must not tell these causes apart in responses.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUserNotFound means the token was valid but its subject has no user row.
	ErrUserNotFound = errors.New("user not found")
)

// Principal is the verified identity carried by a request.
type Principal struct {
	Subject string
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok && p.Subject != ""
}

// Verifier is the part of TokenService the gateway depends on.
type Verifier interface {
	Verify(token string) (string, bool)
}

// Gateway is the single authentication path shared by every protected route.
// Verify only checks the token; Resolve loads the user behind it.
type Gateway struct {
	tokens Verifier
	users  repository.UserRepo
	logger *slog.Logger
}

func NewGateway(tokens Verifier, users repository.UserRepo, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Gateway{tokens: tokens, users: users, logger: logger}
}

// BearerToken extracts the credential following "Bearer " in an Authorization
// header value. The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)

	return token, token != ""
}

// Verify checks the Authorization header value and returns the principal it names.
func (g *Gateway) Verify(header string) (Principal, error) {
	token, ok := BearerToken(header)
	if !ok {
		return Principal{}, ErrUnauthenticated
	}

	subject, ok := g.tokens.Verify(token)
	if !ok {
		return Principal{}, ErrUnauthenticated
	}

	return Principal{Subject: subject}, nil
}

// Resolve loads the user named by p.
func (g *Gateway) Resolve(ctx context.Context, p Principal) (*models.User, error) {
	if p.Subject == "" {
		return nil, ErrUnauthenticated
	}

	u, err := g.users.GetByUsername(ctx, p.Subject)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	if u == nil {
		g.logger.Warn("token subject has no user", slog.String("subject", p.Subject))
		return nil, ErrUserNotFound
	}

	return u, nil
}

// ResolveContext resolves the principal stored in ctx.
func (g *Gateway) ResolveContext(ctx context.Context) (*models.User, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	return g.Resolve(ctx, p)
}

// Authenticate runs Verify on the request's Authorization header and then Resolve.
func (g *Gateway) Authenticate(r *http.Request) (*models.User, error) {
	p, err := g.Verify(r.Header.Get("Authorization"))
	if err != nil {
		return nil, err
	}

	return g.Resolve(r.Context(), p)
}
