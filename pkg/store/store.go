// Package store keeps named JSON documents in a bbolt database.
//
// The stopwatch stores its model tree and settings as documents. Every write
// bumps a change sequence number, which Watch polls to notice writes made
// through other handles.
package store

import (
	"fmt"
	"time"

	"github.com/wraith13/never-stop-watch/pkg/logutil"
	bolt "go.etcd.io/bbolt"
)

var logger = logutil.GetLogger("[store] ")

const (
	bucketDocuments = "documents"
	bucketMeta      = "meta"
)

// Functions that initialize the database, keyed by description.
var initDB = map[string]func(*bolt.Tx) error{}

// Store is a database of named documents. It is safe for concurrent use.
type Store struct {
	db *bolt.DB
}

// Open opens the database at path, creating it if it does not exist.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	st, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Println("opened", path)
	return st, nil
}

// New creates a Store from an open database, initializing it if needed.
func New(db *bolt.DB) (*Store, error) {
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
	return &Store{db}, nil
}

// Path returns the file name of the database.
func (s *Store) Path() string { return s.db.Path() }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }
