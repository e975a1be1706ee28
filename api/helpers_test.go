package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/scribe/api"
	"github.com/garnizeh/scribe/internal/config"
	"github.com/garnizeh/scribe/internal/content"
	"github.com/garnizeh/scribe/pkg/repository/mock"
	"github.com/garnizeh/scribe/pkg/webhook"
)

const testSecret = "testsecret"

func testConfig() *config.Config {
	return &config.Config{
		Env:           config.EnvDevelopment,
		JWTSecret:     testSecret,
		JWTAlgorithm:  "HS256",
		TokenDuration: time.Hour,
		BcryptCost:    bcrypt.MinCost,
		Webhook:       webhook.Config{Timeout: time.Second},
	}
}

func newMockRouter(t *testing.T, cfg *config.Config, m *mock.Mocks, disp content.Dispatcher) http.Handler {
	t.Helper()
	r, err := api.NewRouter(cfg, "test", "now", api.Deps{
		Users:     m.UserRepo,
		Wordpress: m.WordpressRepo,
		Jobs:      m.JobRepo,
		Webhook:   disp,
	})
	if err != nil {
		t.Fatalf("NewRouter error: %v", err)
	}
	return r
}

// mintToken signs a token the way the server does, with full control over claims.
func mintToken(t *testing.T, secret, subject string, expires time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expires),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

// do sends a request through h. body may be a string (sent raw) or any JSON-encodable value.
func do(t *testing.T, h http.Handler, method, path, token string, body any) (int, []byte, http.Header) {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, rdr)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()
	out, _ := io.ReadAll(res.Body)

	return res.StatusCode, out, res.Header
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("decode %s: %v", string(b), err)
	}
	return v
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func stringsReader(s string) io.Reader {
	return bytes.NewBufferString(s)
}
