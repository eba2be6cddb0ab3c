package userstore_test

import (
	"testing"
	"time"

	userstore "github.com/dalemusser/photoshare/internal/app/store/users"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"github.com/dalemusser/photoshare/internal/testutil"
)

func TestStore_CreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := models.NewUser("u1", "maria", "maria@example.com", time.Now())
	if _, err := store.Create(ctx, u); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	users, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(users) != 1 || users[0].Username != "maria" {
		t.Fatalf("unexpected users: %+v", users)
	}
	if users[0].Groups == nil {
		t.Error("expected empty, non-nil groups slice")
	}
}
