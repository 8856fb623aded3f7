// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"eventfolio/internal/database"
	"eventfolio/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "eventfolio")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "eventfolio")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testCategory inserts a throwaway category and registers its cleanup.
// Deleting the category cascades nothing — events must be cleaned first,
// so events created under it should use testEvent.
func testCategory(t *testing.T, db *sql.DB) *models.Category {
	t.Helper()

	s := NewCategoryStore(db)
	name := "Test Cat " + uuid.NewString()[:8]
	created, err := s.Create(&models.Category{Name: name})
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE id = $1", created.ID) })
	return created
}

// testEvent inserts a throwaway event under the given category and
// registers its cleanup (media rows cascade away with it).
func testEvent(t *testing.T, db *sql.DB, categoryID uuid.UUID, title string) *models.Event {
	t.Helper()

	s := NewEventStore(db)
	created, err := s.Create(&models.Event{
		CategoryID: categoryID,
		Title:      title,
	})
	if err != nil {
		t.Fatalf("create test event: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM events WHERE id = $1", created.ID) })
	return created
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// cleanEnquiries removes test enquiries by name. Call in t.Cleanup().
func cleanEnquiries(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	for _, name := range names {
		db.Exec("DELETE FROM enquiries WHERE name = $1", name)
	}
}
