// Package cache holds the server-side copy of the legacy client sync
// snapshots: one JSON list of inspection summaries per storage key. The
// snapshots are a fallback for offline-era clients, never authoritative;
// every operation here degrades quietly.
package cache

import (
	"encoding/json"
	"sync"
	"time"

	"safety-inspection-api/models"
)

// Store is the key-value capability the workflow depends on. Load
// returns fallback when the key is missing or unreadable.
type Store interface {
	Load(key string, fallback []byte) []byte
	Save(key string, value []byte) error
}

// MemoryStore is a map-backed Store used in tests and as a last resort
// when the on-disk cache cannot be opened.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Load(key string, fallback []byte) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if value, ok := s.data[key]; ok {
		out := make([]byte, len(value))
		copy(out, value)
		return out
	}
	return fallback
}

func (s *MemoryStore) Save(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	return nil
}

// SnapshotEntry is one cached inspection summary.
type SnapshotEntry struct {
	ID          string                  `json:"id"`
	Type        models.InspectionType   `json:"type"`
	Status      models.InspectionStatus `json:"status"`
	Title       string                  `json:"title"`
	SubmittedAt *time.Time              `json:"submitted_at,omitempty"`
}

// Snapshot decodes the entries stored under key; a missing or corrupt
// value reads as an empty snapshot.
func Snapshot(store Store, key string) []SnapshotEntry {
	raw := store.Load(key, nil)
	if len(raw) == 0 {
		return nil
	}
	var entries []SnapshotEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	return entries
}

// SaveSnapshot encodes and stores the entries under key.
func SaveSnapshot(store Store, key string, entries []SnapshotEntry) error {
	if entries == nil {
		entries = []SnapshotEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return store.Save(key, raw)
}

// SnapshotFromInspections projects full records into snapshot entries.
func SnapshotFromInspections(inspections []models.Inspection) []SnapshotEntry {
	entries := make([]SnapshotEntry, 0, len(inspections))
	for i := range inspections {
		insp := &inspections[i]
		entries = append(entries, SnapshotEntry{
			ID:          insp.ID,
			Type:        insp.Type,
			Status:      insp.Status,
			Title:       insp.DisplayTitle(),
			SubmittedAt: insp.SubmittedAt,
		})
	}
	return entries
}

// ReplaceID rewrites a provisional id to its server id inside the
// snapshot under key, dropping the stale entry when both ids are
// already present so no record appears twice.
func ReplaceID(store Store, key, oldID, newID string) error {
	entries := Snapshot(store, key)
	if len(entries) == 0 {
		return nil
	}

	hasNew := false
	for i := range entries {
		if entries[i].ID == newID {
			hasNew = true
			break
		}
	}

	out := entries[:0]
	changed := false
	for _, entry := range entries {
		if entry.ID == oldID {
			changed = true
			if hasNew {
				continue
			}
			entry.ID = newID
		}
		out = append(out, entry)
	}
	if !changed {
		return nil
	}
	return SaveSnapshot(store, key, out)
}

// SetStatus updates the cached status of one entry, if present.
func SetStatus(store Store, key, id string, status models.InspectionStatus) error {
	entries := Snapshot(store, key)
	changed := false
	for i := range entries {
		if entries[i].ID == id {
			entries[i].Status = status
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return SaveSnapshot(store, key, entries)
}
