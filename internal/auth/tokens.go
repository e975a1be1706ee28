package auth

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SupportedAlgorithms lists the HMAC signing methods a TokenService accepts.
var SupportedAlgorithms = map[string]jwt.SigningMethod{
	jwt.SigningMethodHS256.Alg(): jwt.SigningMethodHS256,
	jwt.SigningMethodHS384.Alg(): jwt.SigningMethodHS384,
	jwt.SigningMethodHS512.Alg(): jwt.SigningMethodHS512,
}

// TokenService issues and verifies signed, time limited identity tokens whose
// subject is the username.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewTokenService fails when the secret is empty, the algorithm is not an
// HMAC method or the ttl is not positive.
func NewTokenService(secret, algorithm string, ttl time.Duration, logger *slog.Logger) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	method, ok := SupportedAlgorithms[algorithm]
	if !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", algorithm)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	return &TokenService{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Issue signs a token for subject that expires after the configured ttl.
func (s *TokenService) Issue(subject string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return token, nil
}

// Verify returns the token subject and true when the token is well formed,
// correctly signed and unexpired. Any other outcome is logged and reported as
// ("", false).
func (s *TokenService) Verify(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		s.logger.Info("token rejected", slog.String("reason", rejectReason(err)), slog.Any("err", err))
		return "", false
	}
	if !parsed.Valid || claims.Subject == "" {
		s.logger.Info("token rejected", slog.String("reason", "missing subject"))
		return "", false
	}

	return claims.Subject, true
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return "signature invalid"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	default:
		return "invalid"
	}
}
