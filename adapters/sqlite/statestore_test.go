package sqlite_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/artpar/windowkit/adapters/sqlite"
	"github.com/artpar/windowkit/domain/gui"
	"github.com/artpar/windowkit/ports"
)

func setupTestDB(t *testing.T) (*sqlite.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp("", "windowkit-test-*.db")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	path := f.Name()
	f.Close()

	db, err := sqlite.Open(path)
	if err != nil {
		os.Remove(path)
		t.Fatalf("open database: %v", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		os.Remove(path)
		t.Fatalf("migrate: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.Remove(path)
	}

	return db, cleanup
}

func TestStateStore_PutAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewStateStore(db)
	ctx := context.Background()

	rec := ports.Record{
		User:    "alice",
		Pinned:  true,
		Elems:   []string{"screen", "titlebar", "pin"},
		BuiltAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	if err := store.Put(ctx, "inventory", rec); err != nil {
		t.Fatalf("put record: %v", err)
	}

	got, ok, err := store.Get(ctx, "inventory", "alice")
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if !ok {
		t.Fatal("expected record to exist")
	}
	if got.User != "alice" {
		t.Errorf("User = %s, want alice", got.User)
	}
	if !got.Pinned {
		t.Error("Pinned should be true")
	}
	if len(got.Elems) != 3 || got.Elems[0] != "screen" {
		t.Errorf("Elems = %v, want [screen titlebar pin]", got.Elems)
	}
	if !got.BuiltAt.Equal(rec.BuiltAt) {
		t.Errorf("BuiltAt = %v, want %v", got.BuiltAt, rec.BuiltAt)
	}
}

func TestStateStore_Upsert(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewStateStore(db)
	ctx := context.Background()

	rec := ports.Record{User: "alice", Pinned: false, BuiltAt: time.Now().UTC()}
	if err := store.Put(ctx, "inventory", rec); err != nil {
		t.Fatalf("put record: %v", err)
	}

	rec.Pinned = true
	rec.Elems = []string{"screen"}
	if err := store.Put(ctx, "inventory", rec); err != nil {
		t.Fatalf("upsert record: %v", err)
	}

	got, _, err := store.Get(ctx, "inventory", "alice")
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if !got.Pinned {
		t.Error("Pinned should be true after upsert")
	}
	if len(got.Elems) != 1 {
		t.Errorf("Elems len = %d, want 1", len(got.Elems))
	}
}

func TestStateStore_PutRejectsReservedKey(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewStateStore(db)

	err := store.Put(context.Background(), "inventory", ports.Record{User: ports.VersionKey})
	if err == nil {
		t.Fatal("expected error for reserved user id")
	}
}

func TestStateStore_GetMissing(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewStateStore(db)

	_, ok, err := store.Get(context.Background(), "inventory", "nobody")
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if ok {
		t.Error("expected no record for unknown user")
	}
}

func TestStateStore_Delete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewStateStore(db)
	ctx := context.Background()

	rec := ports.Record{User: "alice", BuiltAt: time.Now().UTC()}
	if err := store.Put(ctx, "inventory", rec); err != nil {
		t.Fatalf("put record: %v", err)
	}

	if err := store.Delete(ctx, "inventory", "alice"); err != nil {
		t.Fatalf("delete record: %v", err)
	}

	_, ok, _ := store.Get(ctx, "inventory", "alice")
	if ok {
		t.Error("expected record to be gone after delete")
	}

	// Deleting a missing record is not an error.
	if err := store.Delete(ctx, "inventory", "nobody"); err != nil {
		t.Errorf("delete missing record: %v", err)
	}
}

func TestStateStore_List(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewStateStore(db)
	ctx := context.Background()

	now := time.Now().UTC()
	users := []string{"alice", "bob", "carol"}
	for _, u := range users {
		rec := ports.Record{User: gui.UserID(u), BuiltAt: now}
		if err := store.Put(ctx, "inventory", rec); err != nil {
			t.Fatalf("put %s: %v", u, err)
		}
	}
	if err := store.Put(ctx, "chat", ports.Record{User: "dave", BuiltAt: now}); err != nil {
		t.Fatalf("put dave: %v", err)
	}

	recs, err := store.List(ctx, "inventory")
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("len = %d, want 3", len(recs))
	}
	// Ordered by user id.
	if recs[0].User != "alice" {
		t.Errorf("first record = %s, want alice", recs[0].User)
	}
}

func TestStateStore_Version(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewStateStore(db)
	ctx := context.Background()

	v, err := store.Version(ctx, "inventory")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if v != "" {
		t.Errorf("version = %q, want empty before SetVersion", v)
	}

	if err := store.SetVersion(ctx, "inventory", "v1"); err != nil {
		t.Fatalf("set version: %v", err)
	}
	if err := store.SetVersion(ctx, "inventory", "v2"); err != nil {
		t.Fatalf("overwrite version: %v", err)
	}

	v, err = store.Version(ctx, "inventory")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if v != "v2" {
		t.Errorf("version = %q, want v2", v)
	}
}

func TestStateStore_Purge(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewStateStore(db)
	ctx := context.Background()

	now := time.Now().UTC()
	store.SetVersion(ctx, "inventory", "v1")
	store.Put(ctx, "inventory", ports.Record{User: "alice", BuiltAt: now})
	store.Put(ctx, "inventory", ports.Record{User: "bob", BuiltAt: now})
	store.Put(ctx, "chat", ports.Record{User: "carol", BuiltAt: now})

	if err := store.Purge(ctx, "inventory"); err != nil {
		t.Fatalf("purge: %v", err)
	}

	recs, _ := store.List(ctx, "inventory")
	if len(recs) != 0 {
		t.Errorf("records after purge = %d, want 0", len(recs))
	}
	v, _ := store.Version(ctx, "inventory")
	if v != "" {
		t.Errorf("version after purge = %q, want empty", v)
	}

	// Other namespaces survive.
	recs, _ = store.List(ctx, "chat")
	if len(recs) != 1 {
		t.Errorf("chat records = %d, want 1", len(recs))
	}
}

func TestMigration_Idempotent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if err := db.Migrate(); err != nil {
		t.Fatalf("second migration: %v", err)
	}
}
