// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Event is a portfolio entry with an ordered media gallery. Slug is unique
// across all events and derived from the title when not supplied.
type Event struct {
	ID          uuid.UUID  `json:"id"`
	CategoryID  uuid.UUID  `json:"-"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Date        *time.Time `json:"date"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
	Featured    bool       `json:"featured"`
	CreatedAt   time.Time  `json:"created_at"`

	// Virtual fields populated by store methods.
	Category *Category   `json:"category,omitempty"`
	Media    []MediaItem `json:"-"`
	HasVideo bool        `json:"has_video"`
}

// CoverItem selects the single media item that represents the event in
// list views: the first item flagged is_cover (by sort order, then id),
// falling back to the first item overall. Returns nil for an empty gallery.
func CoverItem(media []MediaItem) *MediaItem {
	if len(media) == 0 {
		return nil
	}
	sorted := SortMedia(media)
	for i := range sorted {
		if sorted[i].IsCover {
			return &sorted[i]
		}
	}
	return &sorted[0]
}

// AnyVideo reports whether the gallery contains at least one video item.
// The event list query computes this in SQL; this helper covers paths that
// already hold the gallery in memory.
func AnyVideo(media []MediaItem) bool {
	for i := range media {
		if media[i].IsVideo() {
			return true
		}
	}
	return false
}

// SortMedia returns a copy of media ordered by (sort_order, id) ascending,
// the gallery display order.
func SortMedia(media []MediaItem) []MediaItem {
	sorted := make([]MediaItem, len(media))
	copy(sorted, media)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SortOrder != sorted[j].SortOrder {
			return sorted[i].SortOrder < sorted[j].SortOrder
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})
	return sorted
}
