package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Amdragz/fiya/internal/auth"
	"github.com/Amdragz/fiya/internal/cage"
	"github.com/Amdragz/fiya/internal/infrastructure/config"
	"github.com/Amdragz/fiya/internal/infrastructure/logging"
)

const (
	testJWTSecret    = "test-jwt-secret-0123456789abcdef"
	testDeviceSecret = "test-device-secret-0123456789abc"

	// A Chrome-ish User-Agent for tests that exercise cookie issuance.
	browserUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// testServer creates a Server wired to real services backed by a
// temporary SQLite database.
func testServer(t *testing.T) *Server {
	t.Helper()

	db := setupTestDB(t)
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")

	issuer := auth.NewTokenIssuer(testJWTSecret, 60, 60)
	users := auth.NewUserRepository(db)
	authSvc := auth.NewService(users, auth.NewSessionRepository(db), issuer, log)

	cageRepo := cage.NewRepository(db)
	cageSvc := cage.NewService(cageRepo, cageRepo, users, auth.NewSecretGenerator(testDeviceSecret), nil, log)

	srv, err := New(Deps{
		Config: config.ServerConfig{
			Host: "127.0.0.1",
			Port: 0,
			Timeouts: config.ServerTimeoutConfig{
				Read:  5,
				Write: 5,
				Idle:  5,
			},
		},
		Logger:  log,
		Auth:    authSvc,
		Cages:   cageSvc,
		Version: "test",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	return srv
}

// setupTestDB creates a temporary SQLite database with the full schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "api-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Single writer, same as production
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			phone_number TEXT,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL CHECK (role IN ('admin', 'customer')),
			spm_id TEXT,
			created_by TEXT REFERENCES users(id),
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		) STRICT;

		CREATE TABLE sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			refresh_token TEXT NOT NULL,
			expires_at TEXT NOT NULL,
			revoked INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		) STRICT;

		CREATE TABLE cages (
			id TEXT PRIMARY KEY,
			assigned_monitor TEXT NOT NULL,
			livestock_no INTEGER NOT NULL DEFAULT 0,
			temperature REAL NOT NULL DEFAULT 38.6,
			humidity REAL NOT NULL DEFAULT 0,
			pressure REAL NOT NULL DEFAULT 0,
			ammonia REAL NOT NULL DEFAULT 0,
			co2 REAL NOT NULL DEFAULT 0,
			coccidiosis REAL NOT NULL DEFAULT 0,
			newcastle REAL NOT NULL DEFAULT 0,
			salmonella REAL NOT NULL DEFAULT 0,
			healthy REAL NOT NULL DEFAULT 0,
			reading_at TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		) STRICT;

		CREATE TABLE cage_credentials (
			cage_id TEXT PRIMARY KEY REFERENCES cages(id) ON DELETE CASCADE,
			verifier TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		) STRICT;
	`
	if _, execErr := db.Exec(schema); execErr != nil {
		t.Fatalf("applying test schema: %v", execErr)
	}

	return db
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// envelope decodes a response body into a generic map.
func envelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
	}
	return resp
}

// signupAdmin registers an admin via the public endpoint and returns its id.
func signupAdmin(t *testing.T, router http.Handler, email string) string {
	t.Helper()

	body := `{"name": "Test Admin", "email": "` + email + `", "phone_number": "08000000000", "password": "admin-password"}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/users", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body: %s", w.Code, w.Body.String())
	}

	data := envelope(t, w)["data"].(map[string]any)
	return data["id"].(string)
}

// loginAdmin signs in an admin created by signupAdmin and returns the token pair.
func loginAdmin(t *testing.T, router http.Handler, email string) (accessToken, refreshToken string) {
	t.Helper()

	body := `{"email": "` + email + `", "password": "admin-password", "user_type": "admin"}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", body, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body: %s", w.Code, w.Body.String())
	}

	data := envelope(t, w)["data"].(map[string]any)
	return data["access_token"].(string), data["refresh_token"].(string)
}

// ─── Health Endpoint Tests ─────────────────────────────────────────

func TestHealth(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/health", "", "")

	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want %d", w.Code, http.StatusOK)
	}

	resp := envelope(t, w)
	data := resp["data"].(map[string]any)
	if data["status"] != "ok" {
		t.Errorf("status = %v, want ok", data["status"])
	}
	if data["version"] != "test" {
		t.Errorf("version = %v, want test", data["version"])
	}
}

func TestHealth_ContentType(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/health", "", "")

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}
}

// ─── Middleware Tests ──────────────────────────────────────────────

func TestRequestID_Generated(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/health", "", "")

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header to be set")
	}
}

func TestRequestID_PreservesClient(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "client-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "client-123" {
		t.Errorf("X-Request-ID = %q, want %q", got, "client-123")
	}
}

func TestCORS_Preflight(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("ACAO = %q, want %q", got, "http://localhost:3000")
	}
}

func TestProtectedRoute_NoToken(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/auth/me", "", "")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	resp := envelope(t, w)
	if resp["message"] != "Unauthorized" {
		t.Errorf("message = %v, want Unauthorized", resp["message"])
	}
	if int(resp["status"].(float64)) != http.StatusUnauthorized {
		t.Errorf("envelope status = %v, want %d", resp["status"], http.StatusUnauthorized)
	}
}

func TestProtectedRoute_GarbageToken(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/auth/me", "", "not-a-jwt")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
