package cache

import (
	"errors"
	"log"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore persists sync snapshots in an embedded Badger database so
// they survive restarts.
type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func (s *BadgerStore) Load(key string, fallback []byte) []byte {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			log.Printf("sync cache read failed for %s: %v", key, err)
		}
		return fallback
	}
	return out
}

func (s *BadgerStore) Save(key string, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}
