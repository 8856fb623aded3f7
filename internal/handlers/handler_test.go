// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable.
// The response cache is disabled so assertions always hit the stores.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"eventfolio/internal/database"
	"eventfolio/internal/middleware"
	"eventfolio/internal/models"
	"eventfolio/internal/session"
	"eventfolio/internal/storage"
	"eventfolio/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "eventfolio")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "eventfolio")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB         *sql.DB
	Categories *store.CategoryStore
	Events     *store.EventStore
	Enquiries  *store.EnquiryStore
	Resolver   storage.Resolver
	Admin      *Admin
	Public     *Public
}

// newTestEnv creates a complete test environment. Object storage and the
// response cache are left nil — tests exercise the database paths.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)

	categories := store.NewCategoryStore(db)
	events := store.NewEventStore(db)
	enquiries := store.NewEnquiryStore(db)
	resolver := storage.NewBaseURLResolver("http://media.test")

	admin := NewAdmin(categories, events, enquiries, nil, resolver, nil)
	public := NewPublic(categories, events, enquiries, resolver, nil)

	return &testEnv{
		DB:         db,
		Categories: categories,
		Events:     events,
		Enquiries:  enquiries,
		Resolver:   resolver,
		Admin:      admin,
		Public:     public,
	}
}

// testCategory inserts a throwaway category and registers its cleanup.
func (env *testEnv) testCategory(t *testing.T) *models.Category {
	t.Helper()

	created, err := env.Categories.Create(&models.Category{
		Name: "Handler Cat " + uuid.NewString()[:8],
	})
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM categories WHERE id = $1", created.ID) })
	return created
}

// testEvent inserts a throwaway event and registers its cleanup.
func (env *testEnv) testEvent(t *testing.T, categoryID uuid.UUID, title string) *models.Event {
	t.Helper()

	created, err := env.Events.Create(&models.Event{
		CategoryID: categoryID,
		Title:      title,
	})
	if err != nil {
		t.Fatalf("create test event: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM events WHERE id = $1", created.ID) })
	return created
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withSession adds session data to a request using the middleware key.
func withSession(r *http.Request, data *session.Data) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.SessionKey, data))
}
