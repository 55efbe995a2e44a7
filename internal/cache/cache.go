// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/runstats/internal/logging"
	"github.com/tomtom215/runstats/internal/metrics"
	"github.com/tomtom215/runstats/internal/models"
)

// Defaults applied by NewReportCache for zero Options fields.
const (
	DefaultTTL        = 3 * time.Minute
	DefaultMaxEntries = 256
	DefaultStaleFor   = 30 * time.Minute
)

// Loader computes a report on a cache miss.
type Loader func(ctx context.Context) (*models.Report, error)

// Snapshotter persists the last good report per key outside the process.
// *snapshot.Store implements it.
type Snapshotter interface {
	Save(key string, report *models.Report, storedAt time.Time) error
	Load(key string) (*models.Report, time.Time, error)
	DropAll() error
}

// Options configures a ReportCache.
type Options struct {
	// TTL is how long a report is served as fresh.
	TTL time.Duration

	// MaxEntries bounds the number of cached keys.
	MaxEntries int

	// StaleFor is how long an expired report is kept as a fallback.
	StaleFor time.Duration

	// Snapshots, when set, receives every computed report and backs the
	// stale fallback once the in-memory entry is gone.
	Snapshots Snapshotter

	// Now overrides the clock. Tests only.
	Now func() time.Time
}

// Result is the outcome of a Get.
type Result struct {
	Report *models.Report

	// Cached is true when the report came from the cache or from a
	// computation shared with concurrent callers.
	Cached bool

	// Stale is true when the report expired and a recompute failed.
	Stale bool

	// Age is the time since the report was stored.
	Age time.Duration
}

// Stats tracks cache performance.
type Stats struct {
	Hits        int64
	Misses      int64
	StaleServed int64
	Evictions   int64
	Entries     int
	LastCleanup time.Time
}

// entry is a node of the recency list. head.next is the most recently used.
type entry struct {
	key       string
	report    *models.Report
	storedAt  time.Time
	expiresAt time.Time
	prev      *entry
	next      *entry
}

// ReportCache is safe for concurrent use.
type ReportCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	staleFor   time.Duration
	maxEntries int
	now        func() time.Time
	snapshots  Snapshotter

	items map[string]*entry
	head  *entry
	tail  *entry

	// generation is bumped by Invalidate so that computations started
	// before it never repopulate the cache.
	generation uint64
	flights    singleflight.Group

	stats Stats
}

// NewReportCache creates an empty cache.
func NewReportCache(opts Options) *ReportCache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.StaleFor < 0 {
		opts.StaleFor = 0
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &ReportCache{
		ttl:        opts.TTL,
		staleFor:   opts.StaleFor,
		maxEntries: opts.MaxEntries,
		now:        opts.Now,
		snapshots:  opts.Snapshots,
		items:      make(map[string]*entry),
		head:       &entry{},
		tail:       &entry{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// TTL returns the freshness period.
func (c *ReportCache) TTL() time.Duration {
	return c.ttl
}

// Get returns the fresh report for key, or computes it with load. When load
// fails and allowStale is set, the last good report for key is returned
// with Stale set and a nil error.
func (c *ReportCache) Get(ctx context.Context, key string, allowStale bool, load Loader) (Result, error) {
	c.mu.Lock()
	now := c.now()
	if e, ok := c.items[key]; ok && now.Before(e.expiresAt) {
		c.moveToFront(e)
		c.stats.Hits++
		c.mu.Unlock()
		metrics.CacheHits.Inc()
		return Result{Report: e.report, Cached: true, Age: now.Sub(e.storedAt)}, nil
	}
	gen := c.generation
	c.stats.Misses++
	c.mu.Unlock()
	metrics.CacheMisses.Inc()

	flightKey := key + "#" + strconv.FormatUint(gen, 10)
	v, err, shared := c.flights.Do(flightKey, func() (interface{}, error) {
		report, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if storedAt, ok := c.store(key, report, gen); ok {
			c.persist(ctx, key, report, storedAt)
		}
		return report, nil
	})
	if err == nil {
		return Result{Report: v.(*models.Report), Cached: shared}, nil
	}

	if allowStale {
		if res, ok := c.lastGood(key); ok {
			metrics.CacheStaleServed.Inc()
			return res, nil
		}
		if res, ok := c.lastSnapshot(ctx, key, gen); ok {
			metrics.CacheStaleServed.Inc()
			return res, nil
		}
	}
	return Result{}, err
}

// lastGood returns an expired entry still inside its grace period.
func (c *ReportCache) lastGood(key string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return Result{}, false
	}
	now := c.now()
	if now.After(e.expiresAt.Add(c.staleFor)) {
		return Result{}, false
	}
	c.stats.StaleServed++
	return Result{Report: e.report, Cached: true, Stale: !now.Before(e.expiresAt), Age: now.Sub(e.storedAt)}, true
}

// lastSnapshot loads a persisted report for key. Snapshots older than the
// fresh period plus grace period are ignored.
func (c *ReportCache) lastSnapshot(ctx context.Context, key string, gen uint64) (Result, bool) {
	if c.snapshots == nil {
		return Result{}, false
	}
	report, storedAt, err := c.snapshots.Load(key)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("key", key).Msg("No report snapshot")
		return Result{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return Result{}, false
	}
	now := c.now()
	if now.After(storedAt.Add(c.ttl + c.staleFor)) {
		return Result{}, false
	}
	c.stats.StaleServed++
	return Result{Report: report, Cached: true, Stale: true, Age: now.Sub(storedAt)}, true
}

func (c *ReportCache) persist(ctx context.Context, key string, report *models.Report, storedAt time.Time) {
	if c.snapshots == nil {
		return
	}
	if err := c.snapshots.Save(key, report, storedAt); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Failed to persist report snapshot")
	}
}

// store inserts report unless Invalidate ran since gen was read. It returns
// the store time and whether the report was kept.
func (c *ReportCache) store(key string, report *models.Report, gen uint64) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return time.Time{}, false
	}
	now := c.now()
	if e, ok := c.items[key]; ok {
		e.report = report
		e.storedAt = now
		e.expiresAt = now.Add(c.ttl)
		c.moveToFront(e)
		return now, true
	}

	e := &entry{key: key, report: report, storedAt: now, expiresAt: now.Add(c.ttl)}
	c.addToFront(e)
	c.items[key] = e
	for len(c.items) > c.maxEntries {
		c.removeEntry(c.tail.prev)
		c.stats.Evictions++
		metrics.CacheEvictions.Inc()
	}
	metrics.CacheSize.Set(float64(len(c.items)))
	return now, true
}

// Invalidate drops every entry, including stale fallbacks and snapshots,
// and returns how many in-memory entries were removed.
func (c *ReportCache) Invalidate() int {
	c.mu.Lock()
	n := len(c.items)
	c.items = make(map[string]*entry)
	c.head.next = c.tail
	c.tail.prev = c.head
	c.generation++
	c.stats.Evictions += int64(n)
	metrics.CacheSize.Set(0)
	c.mu.Unlock()

	if c.snapshots != nil {
		if err := c.snapshots.DropAll(); err != nil {
			logging.Warn().Err(err).Msg("Failed to drop report snapshots")
		}
	}
	return n
}

// Prune removes entries whose grace period has passed and returns how many
// were removed.
func (c *ReportCache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for e := c.tail.prev; e != c.head; {
		prev := e.prev
		if now.After(e.expiresAt.Add(c.staleFor)) {
			c.removeEntry(e)
			removed++
		}
		e = prev
	}

	c.stats.Evictions += int64(removed)
	c.stats.LastCleanup = now
	metrics.CacheEvictions.Add(float64(removed))
	metrics.CacheSize.Set(float64(len(c.items)))
	return removed
}

// Len returns the number of entries, stale ones included.
func (c *ReportCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// GetStats returns a snapshot of the cache statistics.
func (c *ReportCache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = len(c.items)
	return s
}

// HitRate returns hits / (hits + misses) as a percentage.
func (c *ReportCache) HitRate() float64 {
	s := c.GetStats()
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// List helpers; callers hold mu.

func (c *ReportCache) addToFront(e *entry) {
	e.prev = c.head
	e.next = c.head.next
	c.head.next.prev = e
	c.head.next = e
}

func (c *ReportCache) moveToFront(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	c.addToFront(e)
}

func (c *ReportCache) removeEntry(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	delete(c.items, e.key)
}
