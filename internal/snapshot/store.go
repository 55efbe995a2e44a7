// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package snapshot

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/runstats/internal/logging"
	"github.com/tomtom215/runstats/internal/metrics"
	"github.com/tomtom215/runstats/internal/models"
)

const (
	keyPrefix = "report:"
	driver    = "badger"
)

var (
	// ErrNotFound is returned by Load when no live snapshot exists.
	ErrNotFound = errors.New("snapshot not found")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("snapshot store closed")
)

// record is the stored value.
type record struct {
	StoredAt time.Time      `json:"storedAt"`
	Report   *models.Report `json:"report"`
}

// Store is a BadgerDB-backed snapshot store. It is safe for concurrent use.
type Store struct {
	db     *badger.DB
	config Config

	mu     sync.RWMutex
	closed bool
}

// Open opens or creates the store described by cfg.
func Open(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.withDefaults()

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	// BadgerDB logs through its own logger; silence it.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Dur("ttl", cfg.TTL).
		Msg("Snapshot store opened")

	return &Store{db: db, config: cfg}, nil
}

// TTL returns the snapshot lifetime.
func (s *Store) TTL() time.Duration {
	return s.config.TTL
}

func (s *Store) checkOpen() error {
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Save stores report under key, replacing any earlier snapshot.
func (s *Store) Save(key string, report *models.Report, storedAt time.Time) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return err
	}

	data, err := json.Marshal(record{StoredAt: storedAt.UTC(), Report: report})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	start := time.Now()
	err = s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(keyPrefix+key), data).WithTTL(s.config.TTL)
		return txn.SetEntry(e)
	})
	metrics.RecordDBQuery("snapshot_save", driver, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load returns the snapshot stored under key and when it was stored.
func (s *Store) Load(key string) (*models.Report, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, time.Time{}, err
	}

	var rec record
	start := time.Now()
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		metrics.RecordDBQuery("snapshot_load", driver, time.Since(start), nil)
		return nil, time.Time{}, ErrNotFound
	}
	metrics.RecordDBQuery("snapshot_load", driver, time.Since(start), err)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load snapshot: %w", err)
	}
	if rec.Report == nil {
		return nil, time.Time{}, ErrNotFound
	}
	return rec.Report, rec.StoredAt, nil
}

// DropAll removes every snapshot.
func (s *Store) DropAll() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := s.db.DropPrefix([]byte(keyPrefix)); err != nil {
		return fmt.Errorf("drop snapshots: %w", err)
	}
	return nil
}

// Len counts live snapshots.
func (s *Store) Len() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return 0, err
	}

	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// RunGC reclaims value log space until BadgerDB reports nothing to rewrite.
func (s *Store) RunGC() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.config.InMemory {
		return nil
	}

	for {
		err := s.db.RunValueLogGC(s.config.GCRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Close shuts the store down, giving up after CloseTimeout.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	timeout := s.config.CloseTimeout
	s.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- s.db.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("close BadgerDB: %w", err)
		}
		logging.Info().Msg("Snapshot store closed")
		return nil
	case <-time.After(timeout):
		logging.Warn().Dur("timeout", timeout).Msg("BadgerDB close timed out")
		return fmt.Errorf("badgerdb close timeout after %v", timeout)
	}
}
