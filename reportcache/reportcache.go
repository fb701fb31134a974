// Package reportcache caches linkdb.IntegrityReport values keyed by the
// focus package name, so repeated integrity checks against an unchanged
// database don't re-walk the dependency closure every time. It is grounded
// directly on the teacher's packageCache (apkgdb/cache.go): an LRU list
// plus TTL eviction, periodically swept by a background goroutine, with
// the same memory-pressure escape valve.
package reportcache

import (
	"container/list"
	"runtime"
	"sync"
	"time"

	"github.com/apkglink/apkglink/applog"
	"github.com/apkglink/apkglink/linkdb"
)

const (
	cleanupInterval      = 5 * time.Minute
	defaultTTL           = 24 * time.Hour
	memoryEvictFraction  = 4 // evict 1/4 of entries under pressure
	memoryThresholdRatio = 0.75
)

type entry struct {
	key        string
	report     *linkdb.IntegrityReport
	lastAccess time.Time
	element    *list.Element
}

// Cache is an in-memory LRU+TTL cache of integrity reports.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	lru     *list.List
	ttl     time.Duration
	stopCh  chan struct{}
	log     *applog.Logger
}

// New starts a Cache with the default TTL and cleanup interval. Call Stop
// when done to release its background goroutine.
func New(log *applog.Logger) *Cache {
	c := &Cache{
		entries: make(map[string]*entry),
		lru:     list.New(),
		ttl:     defaultTTL,
		stopCh:  make(chan struct{}),
		log:     log,
	}
	go c.cleanupLoop()
	return c
}

// Get returns a cached report for key, if present and not yet evicted,
// moving it to the front of the LRU list.
func (c *Cache) Get(key string) (*linkdb.IntegrityReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	e.lastAccess = time.Now()
	c.lru.MoveToFront(e.element)
	return e.report, true
}

// Put inserts or refreshes the cached report for key.
func (c *Cache) Put(key string, report *linkdb.IntegrityReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.report = report
		e.lastAccess = time.Now()
		c.lru.MoveToFront(e.element)
		return
	}

	e := &entry{key: key, report: report, lastAccess: time.Now()}
	e.element = c.lru.PushFront(e)
	c.entries[key] = e
}

// Invalidate removes key from the cache; callers should do this for any
// package name touched by an install, delete or rule-set edit, since those
// operations can change another package's integrity report.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return
	}
	c.lru.Remove(e.element)
	delete(c.entries, key)
}

// InvalidateAll clears the entire cache, for use after a full Relink pass.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
	c.lru = list.New()
}

// Size returns the current entry count.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stop halts the cleanup goroutine.
func (c *Cache) Stop() {
	close(c.stopCh)
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCh:
			return
		}
	}
}

func (c *Cache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	expired, evicted := 0, 0

	for c.lru.Len() > 0 {
		elem := c.lru.Back()
		e := elem.Value.(*entry)
		if now.Sub(e.lastAccess) < c.ttl {
			break
		}
		c.lru.Remove(elem)
		delete(c.entries, e.key)
		expired++
	}

	if memoryPressureHigh() {
		target := c.lru.Len() / memoryEvictFraction
		if target < 1 && c.lru.Len() > 0 {
			target = 1
		}
		for i := 0; i < target && c.lru.Len() > 0; i++ {
			elem := c.lru.Back()
			e := elem.Value.(*entry)
			c.lru.Remove(elem)
			delete(c.entries, e.key)
			evicted++
		}
	}

	if c.log != nil && (expired > 0 || evicted > 0) {
		c.log.Debugf("cache cleanup: %d expired, %d memory-evicted, %d remaining", expired, evicted, c.lru.Len())
	}
}

func memoryPressureHigh() bool {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	const maxHeap = 1 << 30
	if m.HeapAlloc > maxHeap {
		return true
	}
	return m.HeapSys > 0 && float64(m.HeapAlloc)/float64(m.HeapSys) > memoryThresholdRatio
}
