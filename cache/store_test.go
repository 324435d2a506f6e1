package cache

import (
	"testing"
	"time"

	"safety-inspection-api/models"
)

func snapshotIDs(entries []SnapshotEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	if got := Snapshot(store, "inspections"); got != nil {
		t.Fatalf("missing key must read as empty, got %v", got)
	}

	entries := []SnapshotEntry{
		{ID: "a", Type: models.TypeHSE, Status: models.StatusPendingReview, Title: "Walkway check"},
		{ID: "b", Type: models.TypeHSE, Status: models.StatusApproved},
	}
	if err := SaveSnapshot(store, "inspections", entries); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got := Snapshot(store, "inspections")
	if len(got) != 2 || got[0].ID != "a" || got[1].Status != models.StatusApproved {
		t.Fatalf("round trip lost data: %+v", got)
	}
}

func TestSnapshotIgnoresCorruptValue(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Save("inspections", []byte("{broken")); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if got := Snapshot(store, "inspections"); got != nil {
		t.Fatalf("corrupt value must read as empty, got %v", got)
	}
}

func TestSaveSnapshotNilWritesEmptyList(t *testing.T) {
	store := NewMemoryStore()
	if err := SaveSnapshot(store, "inspections", nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if got := string(store.Load("inspections", nil)); got != "[]" {
		t.Fatalf("stored %q, want []", got)
	}
}

func TestReplaceID(t *testing.T) {
	store := NewMemoryStore()
	seed := []SnapshotEntry{
		{ID: "1736899200000", Type: models.TypeHSE, Status: models.StatusPendingReview},
		{ID: "other", Type: models.TypeHSE, Status: models.StatusApproved},
	}
	if err := SaveSnapshot(store, "inspections", seed); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if err := ReplaceID(store, "inspections", "1736899200000", "srv-1"); err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	got := snapshotIDs(Snapshot(store, "inspections"))
	if len(got) != 2 || got[0] != "srv-1" || got[1] != "other" {
		t.Fatalf("ids = %v", got)
	}

	// Replacing an absent id is a no-op.
	if err := ReplaceID(store, "inspections", "gone", "srv-2"); err != nil {
		t.Fatalf("no-op replace failed: %v", err)
	}
	if got := snapshotIDs(Snapshot(store, "inspections")); len(got) != 2 || got[0] != "srv-1" {
		t.Fatalf("no-op replace changed data: %v", got)
	}
}

func TestReplaceIDDropsStaleDuplicate(t *testing.T) {
	store := NewMemoryStore()
	seed := []SnapshotEntry{
		{ID: "1736899200000", Type: models.TypeHSE, Status: models.StatusPendingReview},
		{ID: "srv-1", Type: models.TypeHSE, Status: models.StatusApproved},
	}
	if err := SaveSnapshot(store, "inspections", seed); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if err := ReplaceID(store, "inspections", "1736899200000", "srv-1"); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	got := Snapshot(store, "inspections")
	if len(got) != 1 || got[0].ID != "srv-1" || got[0].Status != models.StatusApproved {
		t.Fatalf("stale entry must be dropped, got %+v", got)
	}
}

func TestSetStatus(t *testing.T) {
	store := NewMemoryStore()
	seed := []SnapshotEntry{
		{ID: "a", Type: models.TypeHSE, Status: models.StatusPendingReview},
		{ID: "b", Type: models.TypeHSE, Status: models.StatusPendingReview},
	}
	if err := SaveSnapshot(store, "inspections", seed); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if err := SetStatus(store, "inspections", "b", models.StatusRejected); err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	got := Snapshot(store, "inspections")
	if got[0].Status != models.StatusPendingReview || got[1].Status != models.StatusRejected {
		t.Fatalf("statuses = %+v", got)
	}

	// Unknown ids change nothing.
	if err := SetStatus(store, "inspections", "zzz", models.StatusApproved); err != nil {
		t.Fatalf("no-op set failed: %v", err)
	}
	if got := Snapshot(store, "inspections"); got[1].Status != models.StatusRejected {
		t.Fatalf("no-op set changed data: %+v", got)
	}
}

func TestSnapshotFromInspections(t *testing.T) {
	submitted := time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC)
	entries := SnapshotFromInspections([]models.Inspection{
		{ID: "insp-1", Type: models.TypeManhours, Status: models.StatusApproved, Title: "March manhours", SubmittedAt: &submitted},
	})
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if entries[0].Title != "March manhours" || entries[0].SubmittedAt == nil {
		t.Fatalf("projection wrong: %+v", entries[0])
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	store := NewMemoryStore()

	value := []byte("original")
	if err := store.Save("key", value); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	value[0] = 'X'

	loaded := store.Load("key", nil)
	if string(loaded) != "original" {
		t.Fatalf("store must copy on write, got %q", loaded)
	}

	loaded[0] = 'Y'
	if string(store.Load("key", nil)) != "original" {
		t.Fatalf("store must copy on read")
	}

	if got := store.Load("missing", []byte("fallback")); string(got) != "fallback" {
		t.Fatalf("fallback not returned, got %q", got)
	}
}
