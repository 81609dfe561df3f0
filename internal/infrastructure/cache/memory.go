package cache

import (
	"context"
	"sync"
	"time"

	"github.com/AlvinMun/bestbeforeai/internal/domain"
)

// scanEntry represents a single cached scan with expiration
type scanEntry struct {
	scan       domain.OCRScan
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory OCR scan cache with TTL support
type MemoryCache struct {
	data  map[string]scanEntry
	mutex sync.RWMutex

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryCache creates a new in-memory cache that sweeps expired entries every interval
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}

	cache := &MemoryCache{
		data: make(map[string]scanEntry),
		stop: make(chan struct{}),
	}

	go cache.cleanupExpired(cleanupInterval)

	return cache
}

// Get retrieves a copy of a cached scan
func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.OCRScan, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.data[key]
	if !exists || time.Now().After(entry.expiration) {
		return nil, domain.ErrCacheMiss
	}

	scan := entry.scan
	return &scan, nil
}

// Set stores a copy of scan with TTL
func (c *MemoryCache) Set(ctx context.Context, key string, scan *domain.OCRScan, ttl time.Duration) error {
	if scan == nil {
		return domain.ErrInvalidRequest
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = scanEntry{
		scan:       *scan,
		expiration: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a cached scan
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Exists checks if a key exists in the cache and is not expired
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.data[key]
	if !exists {
		return false, nil
	}

	return !time.Now().After(entry.expiration), nil
}

// Close stops the cleanup goroutine
func (c *MemoryCache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *MemoryCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep(time.Now())
		}
	}
}

// sweep drops every entry expired at now
func (c *MemoryCache) sweep(now time.Time) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for key, entry := range c.data {
		if now.After(entry.expiration) {
			delete(c.data, key)
		}
	}
}

// Size returns the current number of entries, expired ones included until swept
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all entries
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]scanEntry)
}
