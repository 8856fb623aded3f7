package store

import (
	"testing"

	"github.com/google/uuid"

	"eventfolio/internal/models"
)

func TestEnquiryStoreCreateAndMarkRead(t *testing.T) {
	db := testDB(t)
	s := NewEnquiryStore(db)

	name := "Enquiry Test " + uuid.NewString()[:8]
	t.Cleanup(func() { cleanEnquiries(t, db, name) })

	created, err := s.Create(&models.Enquiry{
		Name:      name,
		Phone:     "+40 700 000 000",
		Email:     "enquirer@example.com",
		EventType: models.EventTypeWedding,
		Location:  "Cluj-Napoca",
		Message:   "Looking for a photographer in June.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.ID == uuid.Nil {
		t.Error("expected server-assigned ID")
	}
	if created.IsRead {
		t.Error("new enquiry must start unread")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected server-assigned created_at")
	}
	if created.EventID != nil {
		t.Error("public intake must not link an event")
	}

	if err := s.MarkRead(created.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil || !found.IsRead {
		t.Errorf("after MarkRead: %+v, want is_read=true", found)
	}
}

func TestEnquiryStoreListUnreadOnly(t *testing.T) {
	db := testDB(t)
	s := NewEnquiryStore(db)

	readName := "Read Enquiry " + uuid.NewString()[:8]
	unreadName := "Unread Enquiry " + uuid.NewString()[:8]
	t.Cleanup(func() { cleanEnquiries(t, db, readName, unreadName) })

	read, err := s.Create(&models.Enquiry{Name: readName, EventType: models.EventTypeOther})
	if err != nil {
		t.Fatalf("Create read: %v", err)
	}
	if err := s.MarkRead(read.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	unread, err := s.Create(&models.Enquiry{Name: unreadName, EventType: models.EventTypeOther})
	if err != nil {
		t.Fatalf("Create unread: %v", err)
	}

	items, err := s.List(true)
	if err != nil {
		t.Fatalf("List unread: %v", err)
	}
	var sawRead, sawUnread bool
	for i := range items {
		if items[i].ID == read.ID {
			sawRead = true
		}
		if items[i].ID == unread.ID {
			sawUnread = true
		}
	}
	if sawRead {
		t.Error("unread listing included a read enquiry")
	}
	if !sawUnread {
		t.Error("unread listing missed an unread enquiry")
	}
}

func TestEnquiryStoreEventLinkNulledOnDelete(t *testing.T) {
	db := testDB(t)
	s := NewEnquiryStore(db)
	events := NewEventStore(db)
	cat := testCategory(t, db)
	event := testEvent(t, db, cat.ID, "Linked "+uuid.NewString()[:8])

	name := "Linked Enquiry " + uuid.NewString()[:8]
	t.Cleanup(func() { cleanEnquiries(t, db, name) })

	created, err := s.Create(&models.Enquiry{Name: name, EventType: models.EventTypePublic})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.LinkEvent(created.ID, &event.ID); err != nil {
		t.Fatalf("LinkEvent: %v", err)
	}

	linked, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if linked.EventID == nil || *linked.EventID != event.ID {
		t.Fatalf("EventID = %v, want %v", linked.EventID, event.ID)
	}

	// Deleting the event keeps the enquiry, reference nulled.
	if err := events.Delete(event.ID); err != nil {
		t.Fatalf("Delete event: %v", err)
	}
	after, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID after delete: %v", err)
	}
	if after == nil {
		t.Fatal("enquiry deleted along with event")
	}
	if after.EventID != nil {
		t.Errorf("EventID = %v after event delete, want nil", after.EventID)
	}
}
