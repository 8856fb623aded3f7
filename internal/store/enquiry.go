// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"eventfolio/internal/models"
)

// EnquiryStore manages public booking enquiries.
type EnquiryStore struct {
	db *sql.DB
}

// NewEnquiryStore returns a new EnquiryStore.
func NewEnquiryStore(db *sql.DB) *EnquiryStore {
	return &EnquiryStore{db: db}
}

const enquiryColumns = `id, event_id, name, phone, email, event_type,
	event_date, location, message, is_read, created_at`

// scanEnquiry scans an enquiry row from the result set.
func scanEnquiry(scanner interface{ Scan(...any) error }) (*models.Enquiry, error) {
	var q models.Enquiry
	err := scanner.Scan(
		&q.ID, &q.EventID, &q.Name, &q.Phone, &q.Email, &q.EventType,
		&q.EventDate, &q.Location, &q.Message, &q.IsRead, &q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Create persists a public submission. ID, created_at, and is_read are
// server-assigned; no event linkage is accepted from this path.
func (s *EnquiryStore) Create(q *models.Enquiry) (*models.Enquiry, error) {
	row := s.db.QueryRow(`
		INSERT INTO enquiries (name, phone, email, event_type, event_date, location, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+enquiryColumns,
		q.Name, q.Phone, q.Email, q.EventType, q.EventDate, q.Location, q.Message,
	)
	created, err := scanEnquiry(row)
	if err != nil {
		return nil, fmt.Errorf("create enquiry: %w", err)
	}
	return created, nil
}

// List returns enquiries newest first, optionally only unread ones.
func (s *EnquiryStore) List(unreadOnly bool) ([]models.Enquiry, error) {
	query := `SELECT ` + enquiryColumns + ` FROM enquiries`
	if unreadOnly {
		query += ` WHERE NOT is_read`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list enquiries: %w", err)
	}
	defer rows.Close()

	var items []models.Enquiry
	for rows.Next() {
		q, err := scanEnquiry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan enquiry: %w", err)
		}
		items = append(items, *q)
	}
	return items, rows.Err()
}

// FindByID retrieves an enquiry by ID. Returns nil if not found.
func (s *EnquiryStore) FindByID(id uuid.UUID) (*models.Enquiry, error) {
	row := s.db.QueryRow(`SELECT `+enquiryColumns+` FROM enquiries WHERE id = $1`, id)
	q, err := scanEnquiry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find enquiry by id: %w", err)
	}
	return q, nil
}

// MarkRead flags an enquiry as handled. The only mutation this entity
// supports after creation.
func (s *EnquiryStore) MarkRead(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE enquiries SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark enquiry read: %w", err)
	}
	return nil
}

// LinkEvent sets the weak event reference from the admin surface.
func (s *EnquiryStore) LinkEvent(id uuid.UUID, eventID *uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE enquiries SET event_id = $1 WHERE id = $2`, eventID, id)
	if err != nil {
		return fmt.Errorf("link enquiry event: %w", err)
	}
	return nil
}

// Delete removes an enquiry.
func (s *EnquiryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM enquiries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete enquiry: %w", err)
	}
	return nil
}

// CountUnread returns the number of unread enquiries, for the admin dashboard.
func (s *EnquiryStore) CountUnread() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM enquiries WHERE NOT is_read`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread enquiries: %w", err)
	}
	return count, nil
}
