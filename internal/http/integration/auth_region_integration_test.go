package integration__test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openpara/regionhub/internal/config"
	"github.com/openpara/regionhub/internal/db"
	apphttp "github.com/openpara/regionhub/internal/http"
)

func testConfig() config.Config {
	return config.Config{
		Env:            "test",
		JWTSecret:      "test-secret-key",
		TokenTTL:       5 * time.Minute,
		AuthRateLimit:  1000,
		AuthRateWindow: time.Minute,
		ListCacheTTL:   time.Second,
	}
}

func setupTestRouter(t *testing.T) (*gin.Engine, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")

	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping integration test")
	}

	gin.SetMode(gin.TestMode)

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)

	if err != nil {
		t.Fatalf("Failed to create pgx pool: %v", err)
	}

	t.Cleanup(pool.Close)

	if err := db.RunMigrations(ctx, dsn); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	router := apphttp.NewRouter(logger, pool, nil, nil, nil, testConfig())

	return router, pool
}

func resetDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		TRUNCATE events, regions, users
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func doRequest(router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()

	err := json.Unmarshal(w.Body.Bytes(), out)
	if err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}

func TestIntegration_Register_Login_EditRegion(t *testing.T) {
	router, pool := setupTestRouter(t)
	resetDB(t, pool)

	defer resetDB(t, pool)

	// register

	registerBody := `{"email":"sam@example.com","password":"password123","name":"Sam Doe"}`

	w := doRequest(router, http.MethodPost, "/register", registerBody, nil)

	if w.Code != http.StatusCreated {
		t.Fatalf("register got status %d, want %d, body=%s", w.Code, http.StatusCreated, w.Body.String())
	}

	// duplicate register is rejected

	w = doRequest(router, http.MethodPost, "/register", registerBody, nil)

	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register got status %d, want %d, body=%s", w.Code, http.StatusConflict, w.Body.String())
	}

	// login

	w = doRequest(router, http.MethodPost, "/login", `{"email":"sam@example.com","password":"password123"}`, nil)

	if w.Code != http.StatusCreated {
		t.Fatalf("login got status %d, want %d, body=%s", w.Code, http.StatusCreated, w.Body.String())
	}

	var loginResp struct {
		Token string `json:"token"`
	}

	mustReadJSON(t, w, &loginResp)

	if loginResp.Token == "" {
		t.Fatalf("login returned empty token: %s", w.Body.String())
	}

	// seed a region

	w = doRequest(router, http.MethodPost, "/regions", `{"NOC":"GBR","region":"Great Britain"}`, nil)

	if w.Code != http.StatusCreated {
		t.Fatalf("create region got status %d, want %d, body=%s", w.Code, http.StatusCreated, w.Body.String())
	}

	// PATCH without a token is rejected

	w = doRequest(router, http.MethodPatch, "/regions/GBR", `{"notes":"Host nation 2012"}`, nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated patch got status %d, want %d, body=%s", w.Code, http.StatusUnauthorized, w.Body.String())
	}

	// PATCH with the token succeeds

	w = doRequest(router, http.MethodPatch, "/regions/GBR", `{"notes":"Host nation 2012"}`, map[string]string{
		"Authorization": loginResp.Token,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("authenticated patch got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	// the note is visible on a fresh read

	w = doRequest(router, http.MethodGet, "/regions/GBR", "", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("get region got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var regionResp struct {
		NOC    string  `json:"NOC"`
		Region string  `json:"region"`
		Notes  *string `json:"notes"`
	}

	mustReadJSON(t, w, &regionResp)

	if regionResp.Notes == nil || *regionResp.Notes != "Host nation 2012" {
		t.Fatalf("notes not persisted: %s", w.Body.String())
	}
}
