package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/openpara/regionhub/internal/domain/user"
	"github.com/openpara/regionhub/internal/http/handlers"
	"github.com/openpara/regionhub/internal/repo/postgres"
	"github.com/openpara/regionhub/internal/security"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake implementations of the handler collaborator interfaces

type fakeUsersRepo struct {
	getByEmailFn func(ctx context.Context, email string) (user.User, error)
	createFn     func(ctx context.Context, email, passwordHash, name string) (user.User, error)
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return user.User{}, postgres.ErrUserNotFound
}

func (f *fakeUsersRepo) Create(ctx context.Context, email, passwordHash, name string) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, email, passwordHash, name)
	}
	return user.User{ID: "new-id", Email: email, PasswordHash: passwordHash, Name: name}, nil
}

type fakeIssuer struct {
	issueFn func(userID string) (string, error)
}

func (f *fakeIssuer) Issue(userID string) (string, error) {
	if f.issueFn != nil {
		return f.issueFn(userID)
	}
	return "token-for-" + userID, nil
}

// small helper function which returns the gin engine to mount one handler per test

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

func jsonBody(s string) *bytes.Buffer {
	return bytes.NewBufferString(s)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func messageFrom(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Message string `json:"message"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v, body=%s", err, w.Body.String())
	}

	return body.Message
}

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		repoSetUp   func(*fakeUsersRepo)
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "success",
			body:        `{"email":"a@x.com","password":"Secret123"}`,
			wantStatus:  http.StatusCreated,
			wantMessage: "Successfully registered.",
		},
		{
			name: "duplicate_email",
			body: `{"email":"a@x.com","password":"Secret123"}`,
			repoSetUp: func(f *fakeUsersRepo) {
				f.createFn = func(context.Context, string, string, string) (user.User, error) {
					return user.User{}, postgres.ErrEmailAlreadyUsed
				}
			},
			wantStatus:  http.StatusConflict,
			wantMessage: "User already exists. Please Log in.",
		},
		{
			name: "persistence_failure_is_generic",
			body: `{"email":"a@x.com","password":"Secret123"}`,
			repoSetUp: func(f *fakeUsersRepo) {
				f.createFn = func(context.Context, string, string, string) (user.User, error) {
					return user.User{}, errors.New("connection refused to db host 10.0.0.3")
				}
			},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "An error occurred. Please try again.",
		},
		{
			name:       "invalid_email",
			body:       `{"email":"not-an-email","password":"Secret123"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "short_password",
			body:       `{"email":"a@x.com","password":"short"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUsersRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewAuthHandler(repo, repo, &fakeIssuer{})
			r := setupRouter(http.MethodPost, "/register", h.Register)

			w := doJSON(t, r, http.MethodPost, "/register", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantMessage != "" && messageFrom(t, w) != tt.wantMessage {
				t.Fatalf("got message %q, want %q", messageFrom(t, w), tt.wantMessage)
			}

			// internals must never leak on 500
			if tt.wantStatus == http.StatusInternalServerError && bytes.Contains(w.Body.Bytes(), []byte("10.0.0.3")) {
				t.Fatalf("response leaked internals: %s", w.Body.String())
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	hash, err := security.HashPassword("Secret123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	knownUser := user.User{ID: "u1", Email: "a@x.com", PasswordHash: hash}

	lookup := func(_ context.Context, email string) (user.User, error) {
		if email == knownUser.Email {
			return knownUser, nil
		}
		return user.User{}, postgres.ErrUserNotFound
	}

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantMessage string
		wantToken   bool
	}{
		{
			name:       "success",
			body:       `{"email":"a@x.com","password":"Secret123"}`,
			wantStatus: http.StatusCreated,
			wantToken:  true,
		},
		{
			name:        "missing_password",
			body:        `{"email":"a@x.com"}`,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Missing email or password",
		},
		{
			name:        "missing_email",
			body:        `{"password":"Secret123"}`,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Missing email or password",
		},
		{
			name:        "empty_body",
			body:        `{}`,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Missing email or password",
		},
		{
			name:        "unknown_email",
			body:        `{"email":"nobody@x.com","password":"Secret123"}`,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "No account for that email address. Please register.",
		},
		{
			name:        "wrong_password",
			body:        `{"email":"a@x.com","password":"WrongPassword"}`,
			wantStatus:  http.StatusForbidden,
			wantMessage: "Incorrect password.",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUsersRepo{getByEmailFn: lookup}

			h := handlers.NewAuthHandler(repo, repo, &fakeIssuer{})
			r := setupRouter(http.MethodPost, "/login", h.Login)

			w := doJSON(t, r, http.MethodPost, "/login", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantMessage != "" && messageFrom(t, w) != tt.wantMessage {
				t.Fatalf("got message %q, want %q", messageFrom(t, w), tt.wantMessage)
			}

			if tt.wantToken {
				var body struct {
					Token string `json:"token"`
				}

				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
					t.Fatalf("unmarshal body: %v", err)
				}

				if body.Token == "" {
					t.Fatalf("expected a token in the response, body=%s", w.Body.String())
				}
			}
		})
	}
}

func TestLoginTokenIssueFailure(t *testing.T) {
	hash, err := security.HashPassword("Secret123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	repo := &fakeUsersRepo{getByEmailFn: func(context.Context, string) (user.User, error) {
		return user.User{ID: "u1", Email: "a@x.com", PasswordHash: hash}, nil
	}}

	issuer := &fakeIssuer{issueFn: func(string) (string, error) {
		return "", errors.New("signing failed")
	}}

	h := handlers.NewAuthHandler(repo, repo, issuer)
	r := setupRouter(http.MethodPost, "/login", h.Login)

	w := doJSON(t, r, http.MethodPost, "/login", `{"email":"a@x.com","password":"Secret123"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500, body=%s", w.Code, w.Body.String())
	}
}
