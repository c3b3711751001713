// Package persistence provides an opaque snapshot store for foundry worlds.
// Binary world serialisation is explicitly out of scope for the core (a
// host program supplies its own encoder); this package only persists
// whatever opaque blob the caller hands it, keyed by a snapshot name, per
// spec.md §1's "persistent storage of world state beyond opaque snapshot
// pass-through" non-goal.
package persistence

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// SnapshotStore persists opaque snapshot blobs under a string key. foundry
// never constructs the blob itself — a host program encodes its own world
// state (or a subset of it) and passes the result through Save/Load
// unexamined.
type SnapshotStore interface {
	Save(key string, blob []byte) error
	Load(key string) ([]byte, error)
	Delete(key string) error
	Close() error
}

// BadgerStore is a SnapshotStore backed by a badger key-value database.
// Grounded in badger's own embedded-KV usage pattern (open, View/Update,
// Close); chosen over bbolt because the pack's stack already includes it.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (creating if necessary) a badger database at dir.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("persistence: opening badger store at %s: %w", dir, err)
	}
	return &BadgerStore{db: db}, nil
}

// Save writes blob under key, overwriting any snapshot previously saved
// under the same key.
func (s *BadgerStore) Save(key string, blob []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), blob)
	})
}

// Load reads the blob previously saved under key.
func (s *BadgerStore) Load(key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			out = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("persistence: loading snapshot %q: %w", key, err)
	}
	return out, nil
}

// Delete removes the snapshot saved under key, if any.
func (s *BadgerStore) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Close releases the underlying badger database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
