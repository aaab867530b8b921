package cage

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Amdragz/fiya/internal/auth"
	"github.com/Amdragz/fiya/internal/infrastructure/config"
	"github.com/Amdragz/fiya/internal/infrastructure/logging"
)

const testDeviceSecret = "test-device-secret-0123456789abc"

// testDB creates a temporary SQLite database with the cage schema (and
// the users table the service checks against) applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "cage-test-*.db")
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

	// Single writer, same as production — and keeps per-connection
	// pragmas stable for tests that toggle them.
	db.SetMaxOpenConns(1)

	migrationSQL := `
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

		CREATE INDEX idx_cages_assigned_monitor ON cages(assigned_monitor);

		CREATE TABLE cage_credentials (
			cage_id TEXT PRIMARY KEY REFERENCES cages(id) ON DELETE CASCADE,
			verifier TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		) STRICT;
	`
	if _, err := db.Exec(migrationSQL); err != nil {
		t.Fatalf("applying cage migration: %v", err)
	}

	return db
}

// testLogger creates a logger for tests.
func testLogger() *logging.Logger {
	return logging.New(config.LoggingConfig{Level: "error", Format: "text"}, "test")
}

// testService wires a cage service against a test database. The
// returned user is a seeded admin to act as the provisioning caller.
func testService(t *testing.T, db *sql.DB) (*Service, *auth.User) {
	t.Helper()

	users := auth.NewUserRepository(db)
	user := &auth.User{
		Name:         "Provisioner",
		Email:        "provisioner@example.com",
		PasswordHash: "irrelevant",
		Role:         auth.RoleAdmin,
	}
	if err := users.Create(t.Context(), user); err != nil {
		t.Fatalf("seeding user: %v", err)
	}

	repo := NewRepository(db)
	secrets := auth.NewSecretGenerator(testDeviceSecret)
	svc := NewService(repo, repo, users, secrets, nil, testLogger())
	return svc, user
}
