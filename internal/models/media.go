// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// MediaType distinguishes image and video gallery items.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// ValidMediaType reports whether t is a known media type.
func ValidMediaType(t MediaType) bool {
	return t == MediaTypeImage || t == MediaTypeVideo
}

// MediaItem is one entry in an event's gallery. The file itself lives in
// object storage; FileKey is the opaque locator. Items are owned by their
// event and removed with it (ON DELETE CASCADE).
type MediaItem struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"-"`
	MediaType MediaType `json:"media_type"`
	FileKey   string    `json:"-"`
	Caption   string    `json:"caption"`
	SortOrder int       `json:"order"`
	IsCover   bool      `json:"is_cover"`
	CreatedAt time.Time `json:"-"`
}

// IsVideo returns true for video items.
func (m *MediaItem) IsVideo() bool {
	return m.MediaType == MediaTypeVideo
}
