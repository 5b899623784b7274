// Package bbolt implements the ports.PriceStore interface using bbolt
// (embedded B+ tree). Price histories live in one bucket keyed by spool ID;
// the usage ledger is an append-only bucket keyed by sequence number.
// Values are JSON — the blobs are tiny, and crash safety comes from bbolt's
// transactional writes.
package bbolt

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/corey/spool/internal/ports"
)

// Bucket keys
var (
	bucketPrices = []byte("prices")
	bucketUsage  = []byte("usage")
)

// Store implements ports.PriceStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

var _ ports.PriceStore = (*Store)(nil)

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketPrices); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketUsage)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bbolt init buckets: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveHistory persists the full price history for a spool, overwriting any
// prior value.
func (s *Store) SaveHistory(spoolID string, history *ports.PriceHistory) error {
	if history == nil {
		return fmt.Errorf("nil history")
	}
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPrices).Put([]byte(spoolID), data)
	})
}

// LoadHistory retrieves the price history for a spool.
// Returns nil, nil if the spool was never tracked.
func (s *Store) LoadHistory(spoolID string) (*ports.PriceHistory, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := tx.Bucket(bucketPrices).Get([]byte(spoolID)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var h ports.PriceHistory
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("unmarshal history %s: %w", spoolID, err)
	}
	return &h, nil
}

// LoadAllHistories retrieves every tracked spool's history.
func (s *Store) LoadAllHistories() (map[string]*ports.PriceHistory, error) {
	out := make(map[string]*ports.PriceHistory)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPrices).ForEach(func(k, v []byte) error {
			var h ports.PriceHistory
			if err := json.Unmarshal(v, &h); err != nil {
				return fmt.Errorf("unmarshal history %s: %w", k, err)
			}
			out[string(k)] = &h
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AppendUsage adds one entry to the usage ledger under the next sequence
// number, preserving append order across restarts.
func (s *Store) AppendUsage(entry *ports.UsageEntry) error {
	if entry == nil {
		return fmt.Errorf("nil usage entry")
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal usage entry: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUsage)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return b.Put(key, data)
	})
}

// LoadUsage retrieves the full usage ledger in append order. Big-endian
// sequence keys make bbolt's key order the insertion order.
func (s *Store) LoadUsage() ([]*ports.UsageEntry, error) {
	var out []*ports.UsageEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketUsage).ForEach(func(k, v []byte) error {
			var e ports.UsageEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("unmarshal usage entry: %w", err)
			}
			out = append(out, &e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
