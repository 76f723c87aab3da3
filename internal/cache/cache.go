// Package cache keeps analyzed sessions in a bbolt database so unchanged
// logs are not replayed again.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	bolt "go.etcd.io/bbolt"

	"github.com/TimelordUK/wcstats/internal/analysis"
)

var sessionsBucket = []byte("sessions")

// Store is a bbolt-backed analysis.Cache
type Store struct {
	db *bolt.DB
}

type entry struct {
	Size        int64             `json:"size"`
	ModTime     int64             `json:"mod_time"`
	Fingerprint string            `json:"fingerprint"`
	Session     *analysis.Session `json:"session"`
}

// Open opens or creates the cache database at path
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Get returns the cached session when the log and options are unchanged
func (s *Store) Get(key analysis.CacheKey) (*analysis.Session, bool) {
	var e entry
	found := false

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(sessionsBucket).Get([]byte(key.LogPath))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil || !found {
		return nil, false
	}

	if e.Size != key.Stamp.Size || e.ModTime != key.Stamp.ModTime.UnixNano() || e.Fingerprint != key.Fingerprint {
		return nil, false
	}
	return e.Session, e.Session != nil
}

// Put stores a session, replacing any older entry for the same log
func (s *Store) Put(key analysis.CacheKey, sess *analysis.Session) error {
	data, err := json.Marshal(entry{
		Size:        key.Stamp.Size,
		ModTime:     key.Stamp.ModTime.UnixNano(),
		Fingerprint: key.Fingerprint,
		Session:     sess,
	})
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put([]byte(key.LogPath), data)
	})
}

// Prune removes entries whose log file no longer exists
func (s *Store) Prune() (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionsBucket)
		var stale [][]byte
		err := b.ForEach(func(k, _ []byte) error {
			if _, err := os.Stat(string(k)); os.IsNotExist(err) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
