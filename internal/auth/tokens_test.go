package auth

import (
	"bytes"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokens(t *testing.T, buf *bytes.Buffer) *TokenService {
	t.Helper()
	var logger *slog.Logger
	if buf != nil {
		logger = slog.New(slog.NewTextHandler(buf, nil))
	}
	s, err := NewTokenService("test-secret", "HS256", 30*time.Minute, logger)
	require.NoError(t, err)
	return s
}

func TestNewTokenService_Validation(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		alg    string
		ttl    time.Duration
	}{
		{"MissingSecret", "", "HS256", time.Minute},
		{"UnsupportedAlgorithm", "s", "RS256", time.Minute},
		{"NoneAlgorithm", "s", "none", time.Minute},
		{"ZeroTTL", "s", "HS256", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenService(tt.secret, tt.alg, tt.ttl, nil)
			assert.Error(t, err)
		})
	}

	for alg := range SupportedAlgorithms {
		_, err := NewTokenService("s", alg, time.Minute, nil)
		assert.NoError(t, err, alg)
	}
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	s := newTestTokens(t, nil)

	token, err := s.Issue("alice")
	require.NoError(t, err)

	sub, ok := s.Verify(token)
	require.True(t, ok)
	assert.Equal(t, "alice", sub)
}

func TestVerify_Rejections(t *testing.T) {
	var buf bytes.Buffer
	s := newTestTokens(t, &buf)

	good, err := s.Issue("alice")
	require.NoError(t, err)

	other, err := NewTokenService("other-secret", "HS256", time.Minute, nil)
	require.NoError(t, err)
	foreign, err := other.Issue("alice")
	require.NoError(t, err)

	hs512, err := NewTokenService("test-secret", "HS512", time.Minute, nil)
	require.NoError(t, err)
	wrongAlg, err := hs512.Issue("alice")
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "alice",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		reason string
	}{
		{"Empty", "", ""},
		{"Garbage", "not-a-token", "malformed"},
		{"ForeignSecret", foreign, "signature invalid"},
		{"WrongAlgorithm", wrongAlg, "signature invalid"},
		{"Tampered", tampered, "signature invalid"},
		{"NoSubject", noSubject, "missing subject"},
		{"NoExpiry", noExpiry, "invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			sub, ok := s.Verify(tt.token)
			assert.False(t, ok)
			assert.Empty(t, sub)
			if tt.reason != "" {
				assert.Contains(t, buf.String(), reasonAttr(tt.reason))
			}
		})
	}
}

// reasonAttr renders the reason attribute the way slog's text handler does.
func reasonAttr(reason string) string {
	if strings.Contains(reason, " ") {
		return "reason=" + strconv.Quote(reason)
	}
	return "reason=" + reason
}

func TestVerify_Expired(t *testing.T) {
	var buf bytes.Buffer
	s := newTestTokens(t, &buf)

	issuedAt := time.Now().Add(-time.Hour)
	s.now = func() time.Time { return issuedAt }
	token, err := s.Issue("alice")
	require.NoError(t, err)

	s.now = time.Now
	_, ok := s.Verify(token)
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "reason=expired")
}
