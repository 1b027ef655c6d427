// Package store implements a persistent ordered collection backed by bbolt.
package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	"src.boundview.dev/pkg/datasource"
	"src.boundview.dev/pkg/logutil"
	"src.boundview.dev/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[store] ")

const (
	bucketItems = "items"
	bucketMeta  = "meta"

	keyOrder = "order"
)

var initDB = map[string](func(*bolt.Tx) error){
	"initialize item table": func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketItems))
		return err
	},
	"initialize metadata table": func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketMeta))
		return err
	},
}

// Store is a datasource.Collection whose items are persisted to a bbolt
// database. Each mutation is written to the database before it becomes
// visible; a mutation that fails to be written has no effect.
type Store struct {
	*datasource.Collection
	db *bolt.DB
}

var _ storedefs.Store = (*Store)(nil)

// Open opens the database at the given path, creating it if it doesn't exist,
// and loads the items stored in it.
func Open(dbname string) (*Store, error) {
	db, err := bolt.Open(dbname, 0644, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	st, err := newStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

func newStore(db *bolt.DB) (*Store, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return fmt.Errorf("failed to %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var items []datasource.Item
	err = db.View(func(tx *bolt.Tx) error {
		items, err = loadItems(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	coll, err := datasource.NewCollection(items...)
	if err != nil {
		return nil, err
	}
	st := &Store{coll, db}
	coll.SetCommitHook(st.commit)
	return st, nil
}

// Close closes the database. The Store must not be mutated afterwards.
func (s *Store) Close() error {
	return s.db.Close()
}

// Writes the difference between two states of the collection.
func (s *Store) commit(before, after []datasource.Item) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketItems))
		old := make(map[string]datasource.Item, len(before))
		for _, it := range before {
			old[it.ID] = it
		}
		for _, it := range after {
			if prev, ok := old[it.ID]; ok && sameItem(prev, it) {
				delete(old, it.ID)
				continue
			}
			delete(old, it.ID)
			if err := putItem(b, it); err != nil {
				return err
			}
		}
		for id := range old {
			if err := b.Delete([]byte(id)); err != nil {
				return err
			}
		}
		return putOrder(tx.Bucket([]byte(bucketMeta)), after)
	})
}

// OpenCollection opens the database at the given path as a Store, or returns
// an empty in-memory collection if path is "". The returned function releases
// the resources held by the collection.
func OpenCollection(path string) (storedefs.Store, func() error, error) {
	if path == "" {
		c, err := datasource.NewCollection()
		return c, func() error { return nil }, err
	}
	st, err := Open(path)
	if err != nil {
		return nil, nil, err
	}
	return st, st.Close, nil
}
