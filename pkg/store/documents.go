package store

import (
	"encoding/json"
	"errors"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// ErrNoDocument is returned by Get when there is no document with the name.
var ErrNoDocument = errors.New("no such document")

func init() {
	initDB["initialize document table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketDocuments))
		return err
	}
	initDB["initialize meta table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketMeta))
		return err
	}
}

// Get decodes the document with the given name into v.
func (s *Store) Get(name string, v any) error {
	return s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketDocuments)).Get([]byte(name))
		if data == nil {
			return fmt.Errorf("%w: %q", ErrNoDocument, name)
		}
		return json.Unmarshal(data, v)
	})
}

// GetRaw returns the JSON encoding of the document with the given name.
func (s *Store) GetRaw(name string) ([]byte, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketDocuments)).Get([]byte(name))
		if data == nil {
			return fmt.Errorf("%w: %q", ErrNoDocument, name)
		}
		raw = append([]byte(nil), data...)
		return nil
	})
	return raw, err
}

// Put stores the JSON encoding of v under name.
func (s *Store) Put(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", name, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(bucketDocuments)).Put([]byte(name), data); err != nil {
			return err
		}
		return bump(tx)
	})
}

// Delete removes the document with the given name. Deleting a document that
// does not exist is not an error and does not change the sequence number.
func (s *Store) Delete(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketDocuments))
		if b.Get([]byte(name)) == nil {
			return nil
		}
		if err := b.Delete([]byte(name)); err != nil {
			return err
		}
		return bump(tx)
	})
}

// Names returns the names of all documents, sorted.
func (s *Store) Names() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketDocuments)).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

// Seq returns the change sequence number. It grows with every write.
func (s *Store) Seq() (uint64, error) {
	var seq uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		seq = tx.Bucket([]byte(bucketMeta)).Sequence()
		return nil
	})
	return seq, err
}

func bump(tx *bolt.Tx) error {
	_, err := tx.Bucket([]byte(bucketMeta)).NextSequence()
	return err
}
