package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/garnizeh/scribe/pkg/models"
	"github.com/garnizeh/scribe/pkg/repository/mock"
)

func TestAuthHandlers(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       any
		prepare    func(t *testing.T, m *mock.Mocks, h http.Handler)
		wantStatus int
		checkBody  func(t *testing.T, body []byte)
	}{
		{
			name:       "Register_InvalidRequest",
			path:       "/user/register",
			body:       "not a json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Register_MissingFields_Username",
			path:       "/user/register",
			body:       map[string]string{"email": "alice@x.com", "password": "pw123"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Register_MissingFields_Email",
			path:       "/user/register",
			body:       map[string]string{"username": "alice", "password": "pw123"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Register_MissingFields_Password",
			path:       "/user/register",
			body:       map[string]string{"username": "alice", "email": "alice@x.com"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Register_Success",
			path:       "/user/register",
			body:       map[string]string{"username": "alice", "email": "alice@x.com", "password": "pw123", "name": "Alice"},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				got := decode[map[string]any](t, b)
				if got["message"] != "User registered successfully" {
					t.Fatalf("unexpected body: %s", b)
				}
				for _, k := range []string{"password", "password_hash", "passwordHash"} {
					if _, ok := got[k]; ok {
						t.Fatalf("response leaks %s: %s", k, b)
					}
				}
			},
		},
		{
			name: "Register_Duplicate",
			path: "/user/register",
			body: map[string]string{"username": "alice", "email": "other@x.com", "password": "pw"},
			prepare: func(t *testing.T, m *mock.Mocks, h http.Handler) {
				if status, b, _ := do(t, h, http.MethodPost, "/user/register", "", map[string]string{"username": "alice", "email": "alice@x.com", "password": "pw123"}); status != http.StatusOK {
					t.Fatalf("seed register failed: %d %s", status, b)
				}
			},
			wantStatus: http.StatusConflict,
			checkBody: func(t *testing.T, b []byte) {
				if got := decode[map[string]any](t, b); got["error"] != "Username already registered" {
					t.Fatalf("unexpected body: %s", b)
				}
			},
		},
		{
			name: "Register_StoreFailure",
			path: "/user/register",
			body: map[string]string{"username": "bob", "email": "bob@x.com", "password": "pw"},
			prepare: func(t *testing.T, m *mock.Mocks, h http.Handler) {
				m.UserRepo.CreateErr = errors.New("disk full")
			},
			wantStatus: http.StatusInternalServerError,
			checkBody: func(t *testing.T, b []byte) {
				got := decode[map[string]any](t, b)
				if got["error"] != "Internal server error" || got["details"] == nil {
					t.Fatalf("expected generic error with details in development: %s", b)
				}
			},
		},
		{
			name:       "Login_InvalidRequest",
			path:       "/user/login",
			body:       "{",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Login_UnknownUser",
			path:       "/user/login",
			body:       map[string]string{"username": "ghost", "password": "pw"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "Login_WrongPassword",
			path: "/user/login",
			body: map[string]string{"username": "carol", "password": "wrong"},
			prepare: func(t *testing.T, m *mock.Mocks, h http.Handler) {
				do(t, h, http.MethodPost, "/user/register", "", map[string]string{"username": "carol", "email": "c@x.com", "password": "right"})
			},
			wantStatus: http.StatusUnauthorized,
			checkBody: func(t *testing.T, b []byte) {
				if got := decode[map[string]any](t, b); got["error"] != "Invalid username or password" {
					t.Fatalf("unexpected body: %s", b)
				}
			},
		},
		{
			name: "Login_Success",
			path: "/user/login",
			body: map[string]string{"username": "dave", "password": "pw"},
			prepare: func(t *testing.T, m *mock.Mocks, h http.Handler) {
				do(t, h, http.MethodPost, "/user/register", "", map[string]string{"username": "dave", "email": "d@x.com", "password": "pw", "name": "Dave"})
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				got := decode[map[string]any](t, b)
				if got["access_token"] == "" || got["access_token"] == nil {
					t.Fatalf("expected token in response: %s", b)
				}
				if got["token_type"] != "bearer" || got["username"] != "dave" || got["email"] != "d@x.com" || got["name"] != "Dave" {
					t.Fatalf("unexpected login body: %s", b)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mock.NewMocks()
			h := newMockRouter(t, testConfig(), m, nil)
			if tt.prepare != nil {
				tt.prepare(t, m, h)
			}

			status, body, hdr := do(t, h, http.MethodPost, tt.path, "", tt.body)
			if status != tt.wantStatus {
				t.Fatalf("expected status %d got %d: %s", tt.wantStatus, status, body)
			}
			if ct := hdr.Get("Content-Type"); ct != "application/json" {
				t.Fatalf("expected json content-type, got %q", ct)
			}
			if tt.checkBody != nil {
				tt.checkBody(t, body)
			}
		})
	}
}

func TestLogin_TokenAuthenticatesProtectedRoutes(t *testing.T) {
	m := mock.NewMocks()
	h := newMockRouter(t, testConfig(), m, nil)

	do(t, h, http.MethodPost, "/user/register", "", map[string]string{"username": "erin", "email": "e@x.com", "password": "pw"})
	_, b, _ := do(t, h, http.MethodPost, "/user/login", "", map[string]string{"username": "erin", "password": "pw"})
	token := decode[map[string]string](t, b)["access_token"]

	status, body, _ := do(t, h, http.MethodGet, "/user/me", token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", status, body)
	}
	if got := decode[map[string]any](t, body); got["username"] != "erin" {
		t.Fatalf("unexpected profile: %s", body)
	}
}

func TestProductionHidesDetails(t *testing.T) {
	cfg := testConfig()
	cfg.Env = "production"
	m := mock.NewMocks()
	m.UserRepo.CreateErr = errors.New("disk full")
	h := newMockRouter(t, cfg, m, nil)

	status, body, _ := do(t, h, http.MethodPost, "/user/register", "", map[string]string{"username": "x", "email": "x@x.com", "password": "pw"})
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", status)
	}
	got := decode[map[string]any](t, body)
	if _, ok := got["details"]; ok {
		t.Fatalf("details must be hidden in production: %s", body)
	}
	if got["error"] != "Internal server error" {
		t.Fatalf("unexpected body: %s", body)
	}
}

func seedUser(t *testing.T, m *mock.Mocks, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@x.com", PasswordHash: "h"}
	if _, err := m.UserRepo.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}
