// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"eventfolio/internal/cache"
	"eventfolio/internal/models"
	"eventfolio/internal/storage"
	"eventfolio/internal/store"
)

// maxUploadBytes caps media uploads at 256 MB — large enough for short
// highlight videos.
const maxUploadBytes = 256 << 20

// Admin groups the authenticated record-editor API over the same
// entities the public site reads. Every write invalidates the public
// response cache.
type Admin struct {
	categories    *store.CategoryStore
	events        *store.EventStore
	enquiries     *store.EnquiryStore
	storageClient *storage.Client
	resolver      storage.Resolver
	respCache     *cache.ResponseCache
}

// NewAdmin creates a new Admin handler group. storageClient may be nil if
// object storage is not configured (uploads are then rejected).
func NewAdmin(categories *store.CategoryStore, events *store.EventStore, enquiries *store.EnquiryStore, storageClient *storage.Client, resolver storage.Resolver, respCache *cache.ResponseCache) *Admin {
	return &Admin{
		categories:    categories,
		events:        events,
		enquiries:     enquiries,
		storageClient: storageClient,
		resolver:      resolver,
		respCache:     respCache,
	}
}

// invalidate clears the public response cache after a write.
func (a *Admin) invalidate(r *http.Request) {
	if a.respCache != nil {
		a.respCache.InvalidateAll(r.Context())
	}
}

// idParam parses the {id} URL parameter as a UUID.
func idParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// Dashboard returns headline counts for the admin landing view.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	cats, err := a.categories.List()
	if err != nil {
		slog.Error("dashboard categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	events, err := a.events.List(store.Filter{})
	if err != nil {
		slog.Error("dashboard events failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	unread, err := a.enquiries.CountUnread()
	if err != nil {
		slog.Error("dashboard enquiries failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"categories":       len(cats),
		"events":           len(events),
		"unread_enquiries": unread,
	})
}

// --- Categories ---

// categoryInput is the admin create/update body for a category.
type categoryInput struct {
	Name      string `json:"name" validate:"required,max=80"`
	Slug      string `json:"slug" validate:"omitempty,max=90"`
	SortOrder int    `json:"order"`
}

// CategoriesList returns all categories with their event counts.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	cats, err := a.categories.List()
	if err != nil {
		slog.Error("admin list categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	writeJSON(w, http.StatusOK, cats)
}

// CategoryCreate inserts a category, deriving the slug from the name when
// not supplied.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if err := readJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		writeFieldErrors(w, fieldErrors(err))
		return
	}

	created, err := a.categories.Create(&models.Category{
		Name:      in.Name,
		Slug:      in.Slug,
		SortOrder: in.SortOrder,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "a category with that name or slug already exists")
			return
		}
		slog.Error("create category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	a.invalidate(r)
	writeJSON(w, http.StatusCreated, created)
}

// CategoryUpdate modifies an existing category.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	existing, err := a.categories.FindByID(id)
	if err != nil {
		slog.Error("find category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var in categoryInput
	if err := readJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		writeFieldErrors(w, fieldErrors(err))
		return
	}

	existing.Name = in.Name
	existing.Slug = in.Slug
	existing.SortOrder = in.SortOrder
	if err := a.categories.Update(existing); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "a category with that name or slug already exists")
			return
		}
		slog.Error("update category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	a.invalidate(r)
	writeJSON(w, http.StatusOK, existing)
}

// CategoryDelete removes a category. Deletion is refused with a 409 while
// any event still references it.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if err := a.categories.Delete(id); err != nil {
		if errors.Is(err, store.ErrCategoryInUse) {
			writeError(w, http.StatusConflict, "category still has events")
			return
		}
		slog.Error("delete category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	a.invalidate(r)
	w.WriteHeader(http.StatusNoContent)
}

// --- Events ---

// eventInput is the admin create/update body for an event.
type eventInput struct {
	CategoryID  string `json:"category_id" validate:"required,uuid"`
	Title       string `json:"title" validate:"required,max=160"`
	Slug        string `json:"slug" validate:"omitempty,max=180"`
	Date        string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Location    string `json:"location" validate:"max=160"`
	Description string `json:"description" validate:"max=20000"`
	Featured    bool   `json:"featured"`
}

// adminEventJSON is the admin representation: raw file keys plus resolved
// URLs, no public summary fields.
type adminEventJSON struct {
	*models.Event
	Media []adminMediaJSON `json:"media"`
}

type adminMediaJSON struct {
	models.MediaItem
	FileKey string `json:"file_key"`
	FileURL string `json:"file_url"`
}

func (a *Admin) toAdminJSON(e *models.Event) adminEventJSON {
	media := make([]adminMediaJSON, 0, len(e.Media))
	for _, m := range e.Media {
		media = append(media, adminMediaJSON{
			MediaItem: m,
			FileKey:   m.FileKey,
			FileURL:   a.resolver.FileURL(m.FileKey, m.MediaType),
		})
	}
	return adminEventJSON{Event: e, Media: media}
}

// EventsList returns all events with galleries for the admin table.
func (a *Admin) EventsList(w http.ResponseWriter, r *http.Request) {
	events, err := a.events.List(store.Filter{})
	if err != nil {
		slog.Error("admin list events failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]adminEventJSON, 0, len(events))
	for i := range events {
		items = append(items, a.toAdminJSON(&events[i]))
	}
	writeJSON(w, http.StatusOK, items)
}

// EventGet returns one event by ID.
func (a *Admin) EventGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	event, err := a.events.FindByID(id)
	if err != nil {
		slog.Error("admin find event failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, a.toAdminJSON(event))
}

// EventCreate inserts an event. A blank slug is derived from the title
// with collision probing; a supplied slug is used as-is.
func (a *Admin) EventCreate(w http.ResponseWriter, r *http.Request) {
	var in eventInput
	if err := readJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validate.Struct(in); err != nil {
		writeFieldErrors(w, fieldErrors(err))
		return
	}

	categoryID, _ := uuid.Parse(in.CategoryID)
	category, err := a.categories.FindByID(categoryID)
	if err != nil {
		slog.Error("find category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if category == nil {
		writeFieldErrors(w, map[string]string{"category_id": "Unknown category."})
		return
	}

	created, err := a.events.Create(&models.Event{
		CategoryID:  categoryID,
		Title:       in.Title,
		Slug:        in.Slug,
		Date:        parseDate(in.Date),
		Location:    in.Location,
		Description: in.Description,
		Featured:    in.Featured,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "an event with that slug already exists")
			return
		}
		slog.Error("create event failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	created.Category = category

	a.invalidate(r)
	writeJSON(w, http.StatusCreated, a.toAdminJSON(created))
}

// EventUpdate modifies an event. Submitting the existing slug keeps it
// (idempotent re-save); submitting an empty slug re-derives it from the
// title.
func (a *Admin) EventUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	existing, err := a.events.FindByID(id)
	if err != nil {
		slog.Error("admin find event failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var in eventInput
	if err := readJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validate.Struct(in); err != nil {
		writeFieldErrors(w, fieldErrors(err))
		return
	}

	categoryID, _ := uuid.Parse(in.CategoryID)
	category, err := a.categories.FindByID(categoryID)
	if err != nil {
		slog.Error("find category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if category == nil {
		writeFieldErrors(w, map[string]string{"category_id": "Unknown category."})
		return
	}

	existing.CategoryID = categoryID
	existing.Title = in.Title
	existing.Slug = in.Slug
	existing.Date = parseDate(in.Date)
	existing.Location = in.Location
	existing.Description = in.Description
	existing.Featured = in.Featured

	if err := a.events.Update(existing); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "an event with that slug already exists")
			return
		}
		slog.Error("update event failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	a.invalidate(r)
	updated, err := a.events.FindByID(id)
	if err != nil || updated == nil {
		writeJSON(w, http.StatusOK, a.toAdminJSON(existing))
		return
	}
	writeJSON(w, http.StatusOK, a.toAdminJSON(updated))
}

// EventDelete removes an event. Its media rows cascade away and any
// enquiries pointing at it keep their row with a nulled reference.
func (a *Admin) EventDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	// Collect file keys first so the objects can be removed after the rows.
	media, err := a.events.MediaForEvent(id)
	if err != nil {
		slog.Error("load event media failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := a.events.Delete(id); err != nil {
		slog.Error("delete event failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if a.storageClient != nil {
		for _, m := range media {
			if err := a.storageClient.Delete(r.Context(), m.FileKey); err != nil {
				slog.Warn("delete media object failed", "key", m.FileKey, "error", err)
			}
		}
	}

	a.invalidate(r)
	w.WriteHeader(http.StatusNoContent)
}

// --- Media ---

// MediaUpload accepts a multipart upload for an event's gallery: the file
// plus media_type, caption, order, and is_cover form fields. The object
// key is namespaced by event slug.
func (a *Admin) MediaUpload(w http.ResponseWriter, r *http.Request) {
	if a.storageClient == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage not configured")
		return
	}

	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	event, err := a.events.FindByID(id)
	if err != nil {
		slog.Error("admin find event failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeFieldErrors(w, map[string]string{"file": "This field is required."})
		return
	}
	defer file.Close()

	mediaType := models.MediaType(r.FormValue("media_type"))
	if mediaType == "" {
		mediaType = models.MediaTypeImage
	}
	if !models.ValidMediaType(mediaType) {
		writeFieldErrors(w, map[string]string{"media_type": "Must be one of: image, video."})
		return
	}

	key := "events/" + event.Slug + "/" + uuid.NewString() + strings.ToLower(path.Ext(header.Filename))
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := a.storageClient.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		slog.Error("media upload failed", "error", err, "key", key)
		writeError(w, http.StatusBadGateway, "storage upload failed")
		return
	}

	created, err := a.events.AddMedia(&models.MediaItem{
		EventID:   event.ID,
		MediaType: mediaType,
		FileKey:   key,
		Caption:   r.FormValue("caption"),
		SortOrder: atoiOrZero(r.FormValue("order")),
		IsCover:   parseBoolish(r.FormValue("is_cover")),
	})
	if err != nil {
		slog.Error("add media failed", "error", err)
		// The row failed; don't leave the object orphaned.
		if derr := a.storageClient.Delete(r.Context(), key); derr != nil {
			slog.Warn("orphan cleanup failed", "key", key, "error", derr)
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	a.invalidate(r)
	writeJSON(w, http.StatusCreated, adminMediaJSON{
		MediaItem: *created,
		FileKey:   created.FileKey,
		FileURL:   a.resolver.FileURL(created.FileKey, created.MediaType),
	})
}

// mediaUpdateInput mutates a gallery item's presentation fields. The file
// itself is immutable; replace means delete + upload.
type mediaUpdateInput struct {
	MediaType string `json:"media_type" validate:"required,oneof=image video"`
	Caption   string `json:"caption" validate:"max=240"`
	SortOrder int    `json:"order"`
	IsCover   bool   `json:"is_cover"`
}

// MediaUpdate modifies caption, ordering, type, and cover flag.
func (a *Admin) MediaUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	existing, err := a.events.FindMedia(id)
	if err != nil {
		slog.Error("find media failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var in mediaUpdateInput
	if err := readJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(in); err != nil {
		writeFieldErrors(w, fieldErrors(err))
		return
	}

	existing.MediaType = models.MediaType(in.MediaType)
	existing.Caption = in.Caption
	existing.SortOrder = in.SortOrder
	existing.IsCover = in.IsCover

	if err := a.events.UpdateMedia(existing); err != nil {
		slog.Error("update media failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	a.invalidate(r)
	writeJSON(w, http.StatusOK, adminMediaJSON{
		MediaItem: *existing,
		FileKey:   existing.FileKey,
		FileURL:   a.resolver.FileURL(existing.FileKey, existing.MediaType),
	})
}

// MediaDelete removes a gallery item and its stored object.
func (a *Admin) MediaDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	deleted, err := a.events.DeleteMedia(id)
	if err != nil {
		slog.Error("delete media failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if deleted == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if a.storageClient != nil {
		if err := a.storageClient.Delete(r.Context(), deleted.FileKey); err != nil {
			slog.Warn("delete media object failed", "key", deleted.FileKey, "error", err)
		}
	}

	a.invalidate(r)
	w.WriteHeader(http.StatusNoContent)
}

// --- Enquiries ---

// EnquiriesList returns enquiries newest first; ?unread=1 narrows to
// unhandled ones.
func (a *Admin) EnquiriesList(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Has("unread") && parseBoolish(r.URL.Query().Get("unread"))
	items, err := a.enquiries.List(unreadOnly)
	if err != nil {
		slog.Error("list enquiries failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if items == nil {
		items = []models.Enquiry{}
	}
	writeJSON(w, http.StatusOK, items)
}

// EnquiryMarkRead flags an enquiry as handled.
func (a *Admin) EnquiryMarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	existing, err := a.enquiries.FindByID(id)
	if err != nil {
		slog.Error("find enquiry failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if err := a.enquiries.MarkRead(id); err != nil {
		slog.Error("mark enquiry read failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	existing.IsRead = true
	writeJSON(w, http.StatusOK, existing)
}

// enquiryLinkInput sets or clears the weak event reference.
type enquiryLinkInput struct {
	EventID string `json:"event_id" validate:"omitempty,uuid"`
}

// EnquiryLinkEvent attaches an enquiry to an event (or detaches with an
// empty event_id). Admin-only; the public intake never sets this.
func (a *Admin) EnquiryLinkEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	existing, err := a.enquiries.FindByID(id)
	if err != nil {
		slog.Error("find enquiry failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var in enquiryLinkInput
	if err := readJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(in); err != nil {
		writeFieldErrors(w, fieldErrors(err))
		return
	}

	var eventID *uuid.UUID
	if in.EventID != "" {
		parsed, _ := uuid.Parse(in.EventID)
		event, err := a.events.FindByID(parsed)
		if err != nil {
			slog.Error("find event failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if event == nil {
			writeFieldErrors(w, map[string]string{"event_id": "Unknown event."})
			return
		}
		eventID = &parsed
	}

	if err := a.enquiries.LinkEvent(id, eventID); err != nil {
		slog.Error("link enquiry failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	existing.EventID = eventID
	writeJSON(w, http.StatusOK, existing)
}

// EnquiryDelete removes an enquiry.
func (a *Admin) EnquiryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err := a.enquiries.Delete(id); err != nil {
		slog.Error("delete enquiry failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// atoiOrZero parses a form integer, defaulting to zero.
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
