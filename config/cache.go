package config

import (
	"log"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// SyncCache is the embedded store backing the legacy client sync
// snapshots; nil when the directory cannot be opened (callers fall back
// to an in-memory store).
var SyncCache *badger.DB

func InitSyncCache() {
	dir := os.Getenv("CACHE_DIR")
	if dir == "" {
		dir = "data/sync-cache"
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		log.Printf("Warning: failed to create cache directory: %v", err)
		return
	}

	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		log.Printf("Warning: sync cache unavailable: %v", err)
		return
	}

	SyncCache = db
	log.Println("Sync cache opened at", dir)
}

func CloseSyncCache() {
	if SyncCache != nil {
		if err := SyncCache.Close(); err != nil {
			log.Printf("Warning: sync cache close failed: %v", err)
		}
	}
}
