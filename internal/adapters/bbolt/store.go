// Package bbolt implements the ports.Dictionary interface using bbolt
// (embedded B+ tree). Keywords live in a single "dictionary" bucket keyed by
// the keyword bytes, with a small JSON entry as the value. Writes are
// transactional — a crash mid-write cannot corrupt previously committed data.
package bbolt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/corey/acm/internal/ports"
	bolt "go.etcd.io/bbolt"
)

var bucketDictionary = []byte("dictionary")

// entryJSON is the stored form of one dictionary entry.
type entryJSON struct {
	Hits      uint64 `json:"hits"`
	AddedUnix int64  `json:"added_unix"`
}

// Store implements ports.Dictionary backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add stores a keyword. Returns false if it was already present.
func (s *Store) Add(keyword string) (bool, error) {
	if keyword == "" {
		return false, fmt.Errorf("empty keyword")
	}
	added := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketDictionary)
		if err != nil {
			return err
		}
		if b.Get([]byte(keyword)) != nil {
			return nil
		}
		data, err := json.Marshal(entryJSON{AddedUnix: time.Now().Unix()})
		if err != nil {
			return fmt.Errorf("marshal entry: %w", err)
		}
		if err := b.Put([]byte(keyword), data); err != nil {
			return err
		}
		added = true
		return nil
	})
	return added, err
}

// Remove deletes a keyword. Returns false if it was not present.
func (s *Store) Remove(keyword string) (bool, error) {
	removed := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDictionary)
		if b == nil || b.Get([]byte(keyword)) == nil {
			return nil
		}
		if err := b.Delete([]byte(keyword)); err != nil {
			return err
		}
		removed = true
		return nil
	})
	return removed, err
}

// All returns every stored entry.
func (s *Store) All() ([]ports.Entry, error) {
	var entries []ports.Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDictionary)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var e entryJSON
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("unmarshal entry %q: %w", k, err)
			}
			entries = append(entries, ports.Entry{
				Keyword:   string(k),
				Hits:      e.Hits,
				AddedUnix: e.AddedUnix,
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// RecordHits adds per-keyword hit counts in one transaction. Keywords no
// longer in the dictionary are skipped — a scan may race a removal.
func (s *Store) RecordHits(hits map[string]uint64) error {
	if len(hits) == 0 {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDictionary)
		if b == nil {
			return nil
		}
		for kw, n := range hits {
			if n == 0 {
				continue
			}
			raw := b.Get([]byte(kw))
			if raw == nil {
				continue
			}
			var e entryJSON
			if err := json.Unmarshal(raw, &e); err != nil {
				return fmt.Errorf("unmarshal entry %q: %w", kw, err)
			}
			e.Hits += n
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("marshal entry: %w", err)
			}
			if err := b.Put([]byte(kw), data); err != nil {
				return err
			}
		}
		return nil
	})
}
