package news

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"earnings-sentiment/internal/interfaces"
	"earnings-sentiment/internal/logger"
	"earnings-sentiment/internal/types"
)

// Cache is a file-per-key response cache with a fixed TTL.
type Cache struct {
	dir string
	ttl time.Duration
	mu  sync.RWMutex
}

type cacheEntry struct {
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		dir = ".cache/news"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Get returns the cached bytes for key unless missing or expired.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, false
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Key != key {
		return nil, false
	}
	if c.ttl > 0 && time.Since(entry.Timestamp) > c.ttl {
		return nil, false
	}
	return entry.Data, true
}

func (c *Cache) Set(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := json.Marshal(cacheEntry{Key: key, Data: data, Timestamp: time.Now()})
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(key), raw, 0o644)
}

// CleanupExpired removes entries older than the TTL and returns how many were removed.
func (c *Cache) CleanupExpired() (int, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) > c.ttl {
			if os.Remove(filepath.Join(c.dir, e.Name())) == nil {
				removed++
			}
		}
	}
	return removed, nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, fmt.Sprintf("%x.json", md5.Sum([]byte(key))))
}

// MakeKey joins key parts.
func MakeKey(parts ...string) string {
	return strings.Join(parts, "|")
}

// CachedProvider serves repeated (ticker, from, to) lookups from a Cache.
// Only successful responses are cached.
type CachedProvider struct {
	inner interfaces.NewsProvider
	cache *Cache
}

var _ interfaces.CachedNewsProvider = (*CachedProvider)(nil)

func NewCachedProvider(inner interfaces.NewsProvider, cache *Cache) *CachedProvider {
	return &CachedProvider{inner: inner, cache: cache}
}

func (p *CachedProvider) Name() string { return p.inner.Name() }

func (p *CachedProvider) key(ticker string, from, to time.Time) string {
	return MakeKey(p.inner.Name(), ticker, from.Format(types.DateLayout), to.Format(types.DateLayout))
}

// Cached returns a stored response without touching the network.
func (p *CachedProvider) Cached(ctx context.Context, ticker string, from, to time.Time) ([]types.NewsItem, bool) {
	data, ok := p.cache.Get(p.key(ticker, from, to))
	if !ok {
		return nil, false
	}
	var items []types.NewsItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}
	logger.Debug(ctx, "News cache hit", "ticker", ticker, "items", len(items))
	return items, true
}

func (p *CachedProvider) CompanyNews(ctx context.Context, ticker string, from, to time.Time) ([]types.NewsItem, error) {
	if items, ok := p.Cached(ctx, ticker, from, to); ok {
		return items, nil
	}

	items, err := p.inner.CompanyNews(ctx, ticker, from, to)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(items); err == nil {
		if err := p.cache.Set(p.key(ticker, from, to), data); err != nil {
			logger.Warn(ctx, "Failed to write news cache", "ticker", ticker, "error", err)
		}
	}
	return items, nil
}
