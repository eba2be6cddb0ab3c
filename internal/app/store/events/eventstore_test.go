package eventstore_test

import (
	"testing"

	eventstore "github.com/dalemusser/photoshare/internal/app/store/events"
	"github.com/dalemusser/photoshare/internal/testutil"
)

func TestStore_ListByParticipant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mine := fixtures.CreateEvent(ctx, "Party", "host", "guest")
	fixtures.CreateEvent(ctx, "Other", "host")

	events, err := store.ListByParticipant(ctx, "guest")
	if err != nil {
		t.Fatalf("ListByParticipant failed: %v", err)
	}
	if len(events) != 1 || events[0].ID != mine.ID {
		t.Fatalf("expected only %s, got %+v", mine.ID, events)
	}
}

func TestStore_ReplaceAddsPhoto(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e := fixtures.CreateEvent(ctx, "Party", "host")
	e.AddPhoto("https://cdn/p.jpg")
	if err := store.Replace(ctx, e); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	got, err := store.GetByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Photos) != 1 || got.Photos[0] != "https://cdn/p.jpg" {
		t.Errorf("photos: got %v", got.Photos)
	}
}
