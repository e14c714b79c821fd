package middlewares_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openpara/regionhub/internal/auth"
	"github.com/openpara/regionhub/internal/domain/user"
	"github.com/openpara/regionhub/internal/http/middlewares"
	"github.com/openpara/regionhub/internal/repo/postgres"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeDecoder struct {
	decodeFn func(token string) (string, error)
}

func (f *fakeDecoder) Decode(token string) (string, error) {
	if f.decodeFn != nil {
		return f.decodeFn(token)
	}
	return "", auth.ErrTokenMalformed
}

type fakeUsers struct {
	getFn func(ctx context.Context, id string) (user.User, error)
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (user.User, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return user.User{}, postgres.ErrUserNotFound
}

func protectedRouter(m *middlewares.AuthMiddleware) *gin.Engine {
	r := gin.New()

	r.PATCH("/protected", m.RequireAuth(), func(c *gin.Context) {
		id, _ := middlewares.UserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": id})
	})

	return r
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name        string
		authHeader  string
		decoder     *fakeDecoder
		users       *fakeUsers
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "missing_header",
			authHeader:  "",
			decoder:     &fakeDecoder{},
			users:       &fakeUsers{},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Authentication Token missing",
		},
		{
			name:       "malformed_token",
			authHeader: "garbage",
			decoder: &fakeDecoder{decodeFn: func(string) (string, error) {
				return "", auth.ErrTokenMalformed
			}},
			users:       &fakeUsers{},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Token invalid",
		},
		{
			name:       "expired_token_same_message",
			authHeader: "expired",
			decoder: &fakeDecoder{decodeFn: func(string) (string, error) {
				return "", auth.ErrTokenExpired
			}},
			users:       &fakeUsers{},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Token invalid",
		},
		{
			name:       "bad_signature_same_message",
			authHeader: "tampered",
			decoder: &fakeDecoder{decodeFn: func(string) (string, error) {
				return "", auth.ErrBadSignature
			}},
			users:       &fakeUsers{},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Token invalid",
		},
		{
			name:       "token_for_deleted_user",
			authHeader: "valid-but-orphaned",
			decoder: &fakeDecoder{decodeFn: func(string) (string, error) {
				return "gone-user", nil
			}},
			users: &fakeUsers{getFn: func(_ context.Context, id string) (user.User, error) {
				return user.User{}, postgres.ErrUserNotFound
			}},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Token invalid",
		},
		{
			name:       "user_lookup_error",
			authHeader: "valid",
			decoder: &fakeDecoder{decodeFn: func(string) (string, error) {
				return "u1", nil
			}},
			users: &fakeUsers{getFn: func(context.Context, string) (user.User, error) {
				return user.User{}, errors.New("db down")
			}},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Token invalid",
		},
		{
			name:       "success_raw_token",
			authHeader: "valid",
			decoder: &fakeDecoder{decodeFn: func(string) (string, error) {
				return "u1", nil
			}},
			users: &fakeUsers{getFn: func(_ context.Context, id string) (user.User, error) {
				return user.User{ID: id, Email: "a@x.com"}, nil
			}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "success_bearer_scheme",
			authHeader: "Bearer valid",
			decoder: &fakeDecoder{decodeFn: func(token string) (string, error) {
				if token != "valid" {
					return "", auth.ErrTokenMalformed
				}
				return "u1", nil
			}},
			users: &fakeUsers{getFn: func(_ context.Context, id string) (user.User, error) {
				return user.User{ID: id, Email: "a@x.com"}, nil
			}},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			m := middlewares.NewAuthMiddleware(tt.decoder, tt.users)
			r := protectedRouter(m)

			req := httptest.NewRequest(http.MethodPatch, "/protected", nil)

			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantMessage == "" {
				return
			}

			var body struct {
				Message string `json:"message"`
			}

			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal body: %v", err)
			}

			if body.Message != tt.wantMessage {
				t.Fatalf("got message %q, want %q", body.Message, tt.wantMessage)
			}
		})
	}
}

func TestRequireAuthEndToEndWithCodec(t *testing.T) {
	// real codec, fake store: the gate and codec agree on the token format
	codec := auth.NewManager("test-secret", 5*time.Minute)

	users := &fakeUsers{getFn: func(_ context.Context, id string) (user.User, error) {
		if id != "u42" {
			return user.User{}, postgres.ErrUserNotFound
		}
		return user.User{ID: id, Email: "a@x.com"}, nil
	}}

	m := middlewares.NewAuthMiddleware(codec, users)
	r := protectedRouter(m)

	tok, err := codec.Issue("u42")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPatch, "/protected", nil)
	req.Header.Set("Authorization", tok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}
}
