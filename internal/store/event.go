// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"eventfolio/internal/models"
	"eventfolio/internal/slug"
)

// EventStore manages portfolio events and their media galleries.
type EventStore struct {
	db *sql.DB
}

// NewEventStore returns a new EventStore.
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

// Filter narrows the event listing. A nil Featured means "no featured
// filtering at all"; the handler maps parameter presence onto it.
type Filter struct {
	CategorySlug string
	Featured     *bool
}

// createAttempts bounds insert retries when concurrent creations race past
// the application-level slug probe and collide on the unique constraint.
const createAttempts = 3

const eventColumns = `e.id, e.category_id, e.title, e.slug, e.event_date,
	e.location, e.description, e.featured, e.created_at`

const mediaColumns = `m.id, m.event_id, m.media_type, m.file_key, m.caption,
	m.sort_order, m.is_cover, m.created_at`

// scanMediaItem scans a media row from the result set.
func scanMediaItem(scanner interface{ Scan(...any) error }) (*models.MediaItem, error) {
	var m models.MediaItem
	err := scanner.Scan(
		&m.ID, &m.EventID, &m.MediaType, &m.FileKey, &m.Caption,
		&m.SortOrder, &m.IsCover, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns events matching the filter, newest first (event_date DESC
// NULLS LAST, then created_at DESC — undated events sort after dated ones).
// Each event carries its category, its ordered media gallery, and a
// has_video flag computed with an EXISTS subquery. The whole listing costs
// exactly two queries regardless of result size.
func (s *EventStore) List(f Filter) ([]models.Event, error) {
	where, args := filterClause(f)

	rows, err := s.db.Query(`
		SELECT `+eventColumns+`,
		       c.id, c.name, c.slug, c.sort_order, c.created_at, c.updated_at,
		       EXISTS (
		           SELECT 1 FROM media_items v
		           WHERE v.event_id = e.id AND v.media_type = 'video'
		       ) AS has_video
		FROM events e
		JOIN categories c ON c.id = e.category_id
		`+where+`
		ORDER BY e.event_date DESC NULLS LAST, e.created_at DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		var c models.Category
		err := rows.Scan(
			&e.ID, &e.CategoryID, &e.Title, &e.Slug, &e.Date,
			&e.Location, &e.Description, &e.Featured, &e.CreatedAt,
			&c.ID, &c.Name, &c.Slug, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
			&e.HasVideo,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Category = &c
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return events, nil
	}

	// Batch-load galleries for the same filtered set in one query, then
	// fan them out in memory. Avoids a per-event media query at list scale.
	if err := s.attachMedia(events, where, args); err != nil {
		return nil, err
	}
	return events, nil
}

// attachMedia loads media for every event selected by the filter clause
// and assigns each gallery to its event, preserving (sort_order, id) order.
func (s *EventStore) attachMedia(events []models.Event, where string, args []any) error {
	rows, err := s.db.Query(`
		SELECT `+mediaColumns+`
		FROM media_items m
		JOIN events e ON e.id = m.event_id
		JOIN categories c ON c.id = e.category_id
		`+where+`
		ORDER BY m.event_id, m.sort_order, m.id
	`, args...)
	if err != nil {
		return fmt.Errorf("list event media: %w", err)
	}
	defer rows.Close()

	byEvent := make(map[uuid.UUID][]models.MediaItem, len(events))
	for rows.Next() {
		m, err := scanMediaItem(rows)
		if err != nil {
			return fmt.Errorf("scan media: %w", err)
		}
		byEvent[m.EventID] = append(byEvent[m.EventID], *m)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range events {
		events[i].Media = byEvent[events[i].ID]
	}
	return nil
}

// filterClause builds the WHERE clause shared by List and attachMedia.
func filterClause(f Filter) (string, []any) {
	var conds []string
	var args []any

	if f.CategorySlug != "" {
		args = append(args, f.CategorySlug)
		conds = append(conds, fmt.Sprintf("c.slug = $%d", len(args)))
	}
	if f.Featured != nil {
		args = append(args, *f.Featured)
		conds = append(conds, fmt.Sprintf("e.featured = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	where := "WHERE " + conds[0]
	for _, c := range conds[1:] {
		where += " AND " + c
	}
	return where, args
}

// FindBySlug retrieves a single event with its category and full media
// gallery. Returns nil if no event has that slug.
func (s *EventStore) FindBySlug(eventSlug string) (*models.Event, error) {
	row := s.db.QueryRow(`
		SELECT `+eventColumns+`,
		       c.id, c.name, c.slug, c.sort_order, c.created_at, c.updated_at
		FROM events e
		JOIN categories c ON c.id = e.category_id
		WHERE e.slug = $1
	`, eventSlug)

	var e models.Event
	var c models.Category
	err := row.Scan(
		&e.ID, &e.CategoryID, &e.Title, &e.Slug, &e.Date,
		&e.Location, &e.Description, &e.Featured, &e.CreatedAt,
		&c.ID, &c.Name, &c.Slug, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find event by slug: %w", err)
	}
	e.Category = &c

	media, err := s.MediaForEvent(e.ID)
	if err != nil {
		return nil, err
	}
	e.Media = media
	e.HasVideo = models.AnyVideo(media)
	return &e, nil
}

// FindByID retrieves an event with category and gallery by ID. Returns nil
// if not found. Used by the admin surface.
func (s *EventStore) FindByID(id uuid.UUID) (*models.Event, error) {
	row := s.db.QueryRow(`
		SELECT `+eventColumns+`,
		       c.id, c.name, c.slug, c.sort_order, c.created_at, c.updated_at
		FROM events e
		JOIN categories c ON c.id = e.category_id
		WHERE e.id = $1
	`, id)

	var e models.Event
	var c models.Category
	err := row.Scan(
		&e.ID, &e.CategoryID, &e.Title, &e.Slug, &e.Date,
		&e.Location, &e.Description, &e.Featured, &e.CreatedAt,
		&c.ID, &c.Name, &c.Slug, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find event by id: %w", err)
	}
	e.Category = &c

	media, err := s.MediaForEvent(e.ID)
	if err != nil {
		return nil, err
	}
	e.Media = media
	e.HasVideo = models.AnyVideo(media)
	return &e, nil
}

// MediaForEvent returns an event's gallery ordered by (sort_order, id).
func (s *EventStore) MediaForEvent(eventID uuid.UUID) ([]models.MediaItem, error) {
	rows, err := s.db.Query(`
		SELECT `+mediaColumns+`
		FROM media_items m
		WHERE m.event_id = $1
		ORDER BY m.sort_order, m.id
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("media for event: %w", err)
	}
	defer rows.Close()

	var items []models.MediaItem
	for rows.Next() {
		m, err := scanMediaItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// slugTaken reports whether a slug is used by any event other than excludeID.
// Passing uuid.Nil excludes nothing (new records).
func (s *EventStore) slugTaken(candidate string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM events WHERE slug = $1 AND id <> $2)
	`, candidate, excludeID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts a new event. An empty slug is derived from the title with
// numeric-suffix probing (title, title-2, title-3, ...). If a concurrent
// creation wins the race between probe and insert, the unique constraint
// rejects the insert and the probe is retried with the next free suffix.
// A manually supplied slug is passed through unchanged; a collision on it
// surfaces as ErrDuplicate.
func (s *EventStore) Create(e *models.Event) (*models.Event, error) {
	autoSlug := e.Slug == ""

	for attempt := 0; attempt < createAttempts; attempt++ {
		if autoSlug {
			generated, err := slug.Unique(e.Title, func(candidate string) (bool, error) {
				return s.slugTaken(candidate, uuid.Nil)
			})
			if err != nil {
				return nil, fmt.Errorf("create event: %w", err)
			}
			e.Slug = generated
		}

		row := s.db.QueryRow(`
			INSERT INTO events (category_id, title, slug, event_date, location, description, featured)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, category_id, title, slug, event_date, location, description, featured, created_at
		`, e.CategoryID, e.Title, e.Slug, e.Date, e.Location, e.Description, e.Featured)

		var created models.Event
		err := row.Scan(
			&created.ID, &created.CategoryID, &created.Title, &created.Slug, &created.Date,
			&created.Location, &created.Description, &created.Featured, &created.CreatedAt,
		)
		if err == nil {
			return &created, nil
		}
		if isUniqueViolation(err) {
			if autoSlug {
				// Lost the race; clear and re-probe.
				e.Slug = ""
				continue
			}
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	return nil, ErrDuplicate
}

// Update modifies an existing event. The slug is only recomputed when
// submitted empty (probing excludes the event itself, so an unchanged
// title keeps its slug); created_at is never touched.
func (s *EventStore) Update(e *models.Event) error {
	if e.Slug == "" {
		generated, err := slug.Unique(e.Title, func(candidate string) (bool, error) {
			return s.slugTaken(candidate, e.ID)
		})
		if err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		e.Slug = generated
	}

	_, err := s.db.Exec(`
		UPDATE events SET
			category_id = $1, title = $2, slug = $3, event_date = $4,
			location = $5, description = $6, featured = $7
		WHERE id = $8
	`, e.CategoryID, e.Title, e.Slug, e.Date, e.Location, e.Description, e.Featured, e.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// Delete removes an event. Media rows cascade; enquiries referencing the
// event keep their row with the reference nulled (both enforced by the
// schema).
func (s *EventStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// --- Media gallery management (admin surface) ---

// AddMedia inserts a gallery item for an event and returns it.
func (s *EventStore) AddMedia(m *models.MediaItem) (*models.MediaItem, error) {
	row := s.db.QueryRow(`
		INSERT INTO media_items (event_id, media_type, file_key, caption, sort_order, is_cover)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, event_id, media_type, file_key, caption, sort_order, is_cover, created_at
	`, m.EventID, m.MediaType, m.FileKey, m.Caption, m.SortOrder, m.IsCover,
	)
	created, err := scanMediaItem(row)
	if err != nil {
		return nil, fmt.Errorf("add media: %w", err)
	}
	return created, nil
}

// FindMedia retrieves a single gallery item by ID. Returns nil if not found.
func (s *EventStore) FindMedia(id uuid.UUID) (*models.MediaItem, error) {
	row := s.db.QueryRow(`
		SELECT `+mediaColumns+` FROM media_items m WHERE m.id = $1
	`, id)
	m, err := scanMediaItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media: %w", err)
	}
	return m, nil
}

// UpdateMedia modifies a gallery item's presentation fields.
func (s *EventStore) UpdateMedia(m *models.MediaItem) error {
	_, err := s.db.Exec(`
		UPDATE media_items SET
			media_type = $1, caption = $2, sort_order = $3, is_cover = $4
		WHERE id = $5
	`, m.MediaType, m.Caption, m.SortOrder, m.IsCover, m.ID)
	if err != nil {
		return fmt.Errorf("update media: %w", err)
	}
	return nil
}

// DeleteMedia removes a gallery item and returns it so the caller can
// clean up the corresponding storage object.
func (s *EventStore) DeleteMedia(id uuid.UUID) (*models.MediaItem, error) {
	row := s.db.QueryRow(`
		DELETE FROM media_items WHERE id = $1
		RETURNING id, event_id, media_type, file_key, caption, sort_order, is_cover, created_at
	`, id)
	m, err := scanMediaItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete media: %w", err)
	}
	return m, nil
}
