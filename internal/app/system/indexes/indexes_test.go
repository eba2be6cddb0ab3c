package indexes_test

import (
	"context"
	"testing"

	"github.com/dalemusser/photoshare/internal/app/system/indexes"
	"github.com/dalemusser/photoshare/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func indexNames(t *testing.T, ctx context.Context, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes on %s failed: %v", coll, err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	expected := map[string][]string{
		"groups":        {"idx_groups_members"},
		"events":        {"idx_events_participants", "idx_events_start"},
		"posts":         {"idx_posts_user_created", "idx_posts_expiration", "idx_posts_event"},
		"relationships": {"idx_relationships_user_target"},
		"accounts":      {"uniq_accounts_emailci", "idx_accounts_provider_subject"},
	}
	for coll, want := range expected {
		got := indexNames(t, ctx, db, coll)
		for _, name := range want {
			if !got[name] {
				t.Errorf("expected index %q on %s", name, coll)
			}
		}
	}
}

func TestEnsureAll_AnonymousAccountsDoNotCollide(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	c := db.Collection("accounts")
	if _, err := c.InsertOne(ctx, bson.M{"_id": "a1", "provider": "anonymous"}); err != nil {
		t.Fatalf("insert a1: %v", err)
	}
	if _, err := c.InsertOne(ctx, bson.M{"_id": "a2", "provider": "anonymous"}); err != nil {
		t.Fatalf("second emailless account should be allowed: %v", err)
	}
	if _, err := c.InsertOne(ctx, bson.M{"_id": "a3", "email_ci": "x@y.z"}); err != nil {
		t.Fatalf("insert a3: %v", err)
	}
	if _, err := c.InsertOne(ctx, bson.M{"_id": "a4", "email_ci": "x@y.z"}); err == nil {
		t.Fatal("expected duplicate email_ci to be rejected")
	}
}
