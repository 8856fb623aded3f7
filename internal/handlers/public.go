// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"eventfolio/internal/cache"
	"eventfolio/internal/models"
	"eventfolio/internal/storage"
	"eventfolio/internal/store"
)

// Public groups the unauthenticated JSON API: category and event listings,
// event detail, and enquiry intake. Read endpoints check the Valkey
// response cache before touching the database.
type Public struct {
	categories *store.CategoryStore
	events     *store.EventStore
	enquiries  *store.EnquiryStore
	resolver   storage.Resolver
	respCache  *cache.ResponseCache
}

// NewPublic creates a new Public handler group. respCache may be nil to
// disable caching (tests).
func NewPublic(categories *store.CategoryStore, events *store.EventStore, enquiries *store.EnquiryStore, resolver storage.Resolver, respCache *cache.ResponseCache) *Public {
	return &Public{
		categories: categories,
		events:     events,
		enquiries:  enquiries,
		resolver:   resolver,
		respCache:  respCache,
	}
}

// coverJSON is the single representative media item on a list entry.
type coverJSON struct {
	MediaType models.MediaType `json:"media_type"`
	FileURL   string           `json:"file_url"`
	Caption   string           `json:"caption"`
}

// eventListJSON is one entry in the public event listing.
type eventListJSON struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Slug     string           `json:"slug"`
	Date     *string          `json:"date"`
	Location string           `json:"location"`
	Featured bool             `json:"featured"`
	Category *models.Category `json:"category"`
	Cover    *coverJSON       `json:"cover"`
	HasVideo bool             `json:"has_video"`
}

// mediaJSON is a full gallery item on the event detail response.
type mediaJSON struct {
	ID        string           `json:"id"`
	MediaType models.MediaType `json:"media_type"`
	FileURL   string           `json:"file_url"`
	Caption   string           `json:"caption"`
	Order     int              `json:"order"`
	IsCover   bool             `json:"is_cover"`
}

// eventDetailJSON is the full public representation of one event.
type eventDetailJSON struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Slug        string           `json:"slug"`
	Date        *string          `json:"date"`
	Location    string           `json:"location"`
	Description string           `json:"description"`
	Featured    bool             `json:"featured"`
	Category    *models.Category `json:"category"`
	Media       []mediaJSON      `json:"media"`
}

// Categories lists all categories ordered by (order, name).
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	if p.serveCached(w, r) {
		return
	}

	cats, err := p.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	// Public payload hides the admin-only event count.
	for i := range cats {
		cats[i].EventCount = 0
	}
	if cats == nil {
		cats = []models.Category{}
	}

	p.writeCached(w, r, http.StatusOK, cats)
}

// Events lists events, optionally narrowed by ?category=<slug> and
// ?featured=<bool-like>. The featured filter triggers on parameter
// presence: "?featured=" filters to non-featured events, while omitting
// the parameter returns featured and non-featured alike.
func (p *Public) Events(w http.ResponseWriter, r *http.Request) {
	if p.serveCached(w, r) {
		return
	}

	filter := store.Filter{
		CategorySlug: r.URL.Query().Get("category"),
	}
	if r.URL.Query().Has("featured") {
		val := parseBoolish(r.URL.Query().Get("featured"))
		filter.Featured = &val
	}

	events, err := p.events.List(filter)
	if err != nil {
		slog.Error("list events failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]eventListJSON, 0, len(events))
	for i := range events {
		items = append(items, p.toListJSON(&events[i]))
	}

	p.writeCached(w, r, http.StatusOK, items)
}

// EventDetail returns one event by slug with its full gallery.
func (p *Public) EventDetail(w http.ResponseWriter, r *http.Request) {
	if p.serveCached(w, r) {
		return
	}

	slugParam := chi.URLParam(r, "slug")
	event, err := p.events.FindBySlug(slugParam)
	if err != nil {
		slog.Error("find event by slug failed", "error", err, "slug", slugParam)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	p.writeCached(w, r, http.StatusOK, p.toDetailJSON(event))
}

// enquiryInput is the public enquiry submission body. Server-assigned
// fields (id, created_at, is_read) and the admin-only event link are not
// part of this shape; readJSON drops them if a client sends them anyway.
type enquiryInput struct {
	Name      string `json:"name" validate:"required,max=120"`
	Phone     string `json:"phone" validate:"max=40"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	EventType string `json:"event_type" validate:"omitempty,oneof=wedding birthday public other"`
	EventDate string `json:"event_date" validate:"omitempty,datetime=2006-01-02"`
	Location  string `json:"location" validate:"max=160"`
	Message   string `json:"message" validate:"max=4000"`
}

// EnquiryCreate validates and persists a public booking enquiry.
func (p *Public) EnquiryCreate(w http.ResponseWriter, r *http.Request) {
	var in enquiryInput
	if err := readJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		writeFieldErrors(w, fieldErrors(err))
		return
	}

	eventType := models.EventType(in.EventType)
	if in.EventType == "" {
		eventType = models.EventTypeOther
	}

	created, err := p.enquiries.Create(&models.Enquiry{
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		EventType: eventType,
		EventDate: parseDate(in.EventDate),
		Location:  in.Location,
		Message:   in.Message,
	})
	if err != nil {
		slog.Error("create enquiry failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("enquiry received", "id", created.ID, "event_type", created.EventType)
	writeJSON(w, http.StatusCreated, created)
}

// parseBoolish maps a query value onto the featured flag: a
// case-insensitive member of {"1","true","yes","y"} is true, anything
// else (including empty) is false.
func parseBoolish(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}

// toListJSON shapes an event for the list response, resolving the cover
// item's file URL through the storage collaborator.
func (p *Public) toListJSON(e *models.Event) eventListJSON {
	item := eventListJSON{
		ID:       e.ID.String(),
		Title:    e.Title,
		Slug:     e.Slug,
		Date:     formatDate(e.Date),
		Location: e.Location,
		Featured: e.Featured,
		Category: e.Category,
		HasVideo: e.HasVideo,
	}
	if cover := models.CoverItem(e.Media); cover != nil {
		item.Cover = &coverJSON{
			MediaType: cover.MediaType,
			FileURL:   p.resolver.FileURL(cover.FileKey, cover.MediaType),
			Caption:   cover.Caption,
		}
	}
	return item
}

// toDetailJSON shapes an event for the detail response with the full
// ordered gallery. No cover/has_video summary fields here — the client
// has the whole gallery.
func (p *Public) toDetailJSON(e *models.Event) eventDetailJSON {
	media := make([]mediaJSON, 0, len(e.Media))
	for _, m := range models.SortMedia(e.Media) {
		media = append(media, mediaJSON{
			ID:        m.ID.String(),
			MediaType: m.MediaType,
			FileURL:   p.resolver.FileURL(m.FileKey, m.MediaType),
			Caption:   m.Caption,
			Order:     m.SortOrder,
			IsCover:   m.IsCover,
		})
	}
	return eventDetailJSON{
		ID:          e.ID.String(),
		Title:       e.Title,
		Slug:        e.Slug,
		Date:        formatDate(e.Date),
		Location:    e.Location,
		Description: e.Description,
		Featured:    e.Featured,
		Category:    e.Category,
		Media:       media,
	}
}

// serveCached writes a cached response body if one exists for this request.
func (p *Public) serveCached(w http.ResponseWriter, r *http.Request) bool {
	if p.respCache == nil {
		return false
	}
	body, ok := p.respCache.Get(r.Context(), cache.RequestKey(r.URL.Path, r.URL.RawQuery))
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
	return true
}

// writeCached serializes v, stores it in the response cache, and sends it.
func (p *Public) writeCached(w http.ResponseWriter, r *http.Request, status int, v any) {
	if p.respCache == nil {
		writeJSON(w, status, v)
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshal response failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	p.respCache.Set(r.Context(), cache.RequestKey(r.URL.Path, r.URL.RawQuery), payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}
