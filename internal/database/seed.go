package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user and a handful of portfolio categories. It is a no-op when
// users already exist. The admin is prompted to set up 2FA on first login
// (totp_enabled = false).
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// Hash the default admin password.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, "admin@eventfolio.local", string(hash), "Admin", "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// Starter categories matching the public site's navigation.
	seedCategories := []struct {
		name string
		slug string
		sort int
	}{
		{"Weddings", "weddings", 0},
		{"Birthdays & Celebrations", "birthdays-celebrations", 1},
		{"Public Events", "public-events", 2},
	}
	for _, c := range seedCategories {
		if _, err := db.Exec(`
			INSERT INTO categories (name, slug, sort_order) VALUES ($1, $2, $3)
		`, c.name, c.slug, c.sort); err != nil {
			return fmt.Errorf("seed category %q: %w", c.name, err)
		}
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@eventfolio.local",
		"password", "admin",
	)

	return nil
}
