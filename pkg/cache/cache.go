// Package cache is the query cache behind the list views.
//
// The policy is invalidate-and-refetch: a successful mutation calls Forget
// for its resource, which drops every cached list for that resource, and the
// next read goes to the backend. Nothing is ever patched locally, because
// the backend recomputes derived fields (discounted price, promo flag) that
// the client does not reproduce.
//
// Two drivers exist, selected by CACHE_DRIVER: an in-process memory store
// (the default) and Redis for setups where several CLI invocations should
// share warm lists.
package cache

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/shashiranjanraj/storeadmin/config"
	"github.com/shashiranjanraj/storeadmin/pkg/logger"
	"github.com/shashiranjanraj/storeadmin/pkg/metrics"
)

const keyPrefix = "storeadmin:"

// Driver is a cache backend.
type Driver interface {
	// Get unmarshals the value at key into dest; false on miss.
	Get(key string, dest interface{}) bool
	// Set stores value under key for the given TTL.
	Set(key string, value interface{}, ttl time.Duration) error
	// DelPrefix removes every key with the given prefix.
	DelPrefix(prefix string) error
	// Name identifies the driver in metrics.
	Name() string
}

// Cache wraps a driver with the configured TTL and key conventions.
type Cache struct {
	driver Driver
	ttl    time.Duration
}

// New builds a Cache over the given driver.
func New(driver Driver) *Cache {
	return &Cache{driver: driver, ttl: config.CacheTTL()}
}

// FromConfig selects the driver from CACHE_DRIVER. When Redis is configured
// but unreachable, it logs a warning and falls back to memory — a cold cache
// is an inconvenience, not a failure.
func FromConfig() *Cache {
	if config.CacheDriver() == "redis" {
		d, err := NewRedisDriver()
		if err == nil {
			return New(d)
		}
		logger.Warn("cache: redis unavailable, falling back to memory", "error", err)
	}
	return New(NewMemoryDriver())
}

// ListKey derives the cache key for a list query from its resource name and
// parameters. Params are serialized in sorted order so logically identical
// queries share a key.
func ListKey(resource string, params url.Values) string {
	var sb strings.Builder
	sb.WriteString(keyPrefix)
	sb.WriteString(resource)
	sb.WriteString(":list")

	if len(params) > 0 {
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteByte('?')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(k)
			sb.WriteByte('=')
			sb.WriteString(params.Get(k))
		}
	}
	return sb.String()
}

// Get retrieves a cached list result. Hit/miss counters feed metrics.
func (c *Cache) Get(key string, dest interface{}) bool {
	if c.driver.Get(key, dest) {
		metrics.CacheHits.WithLabelValues(c.driver.Name()).Inc()
		return true
	}
	metrics.CacheMisses.WithLabelValues(c.driver.Name()).Inc()
	return false
}

// Set stores a list result under key.
func (c *Cache) Set(key string, value interface{}) error {
	return c.driver.Set(key, value, c.ttl)
}

// Forget invalidates every cached list for a resource ("products",
// "categories", "orders"). Called after every successful mutation.
func (c *Cache) Forget(resource string) error {
	return c.driver.DelPrefix(keyPrefix + resource + ":")
}
