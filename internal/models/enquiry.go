// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// EventType classifies what kind of occasion an enquiry is about.
type EventType string

const (
	EventTypeWedding  EventType = "wedding"
	EventTypeBirthday EventType = "birthday"
	EventTypePublic   EventType = "public"
	EventTypeOther    EventType = "other"
)

// Enquiry is an unauthenticated public booking request. EventID is a weak
// reference: deleting the event nulls it rather than removing the enquiry.
// IsRead is toggled from the admin surface only.
type Enquiry struct {
	ID        uuid.UUID  `json:"id"`
	EventID   *uuid.UUID `json:"event_id,omitempty"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	EventType EventType  `json:"event_type"`
	EventDate *time.Time `json:"event_date"`
	Location  string     `json:"location"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
}
