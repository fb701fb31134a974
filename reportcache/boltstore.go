package reportcache

import (
	"bytes"
	"encoding/gob"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/apkglink/apkglink/linkdb"
)

var reportsBucket = []byte("reports")

// BoltStore is a disk-backed persistence tier for integrity reports,
// opened against its own bbolt database file the way the teacher's
// apkgdb.DB opens one bucket per on-disk concern (apkgdb/db.go). Unlike
// Cache, a BoltStore never evicts: it exists so a CLI invocation can
// reuse yesterday's report for an unchanged package without paying for a
// fresh closure walk, and is explicitly invalidated by the caller instead.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens (creating if absent) a bbolt database at path and
// ensures its reports bucket exists.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(reportsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

// Close releases the underlying bbolt file handle.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Get returns the persisted report for key, if any.
func (s *BoltStore) Get(key string) (*linkdb.IntegrityReport, bool, error) {
	var report *linkdb.IntegrityReport
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(reportsBucket).Get([]byte(key))
		if raw == nil {
			return nil
		}
		dec := gob.NewDecoder(bytes.NewReader(raw))
		var r linkdb.IntegrityReport
		if err := dec.Decode(&r); err != nil {
			return fmt.Errorf("reportcache: decode %s: %w", key, err)
		}
		report = &r
		found = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return report, found, nil
}

// Put persists report under key, overwriting any prior value.
func (s *BoltStore) Put(key string, report *linkdb.IntegrityReport) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(report); err != nil {
		return fmt.Errorf("reportcache: encode %s: %w", key, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(reportsBucket).Put([]byte(key), buf.Bytes())
	})
}

// Delete removes key's persisted report, if present.
func (s *BoltStore) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(reportsBucket).Delete([]byte(key))
	})
}
