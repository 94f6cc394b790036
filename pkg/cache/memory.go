package cache

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// MemoryDriver is the in-process cache backend. Values are stored as JSON
// so Get/Set behave identically to the Redis driver.
type MemoryDriver struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{entries: make(map[string]memoryEntry)}
}

func (d *MemoryDriver) Name() string { return "memory" }

func (d *MemoryDriver) Get(key string, dest interface{}) bool {
	d.mu.RLock()
	e, ok := d.entries[key]
	d.mu.RUnlock()

	if !ok {
		return false
	}
	if time.Now().After(e.expiresAt) {
		d.mu.Lock()
		delete(d.entries, key)
		d.mu.Unlock()
		return false
	}

	return json.Unmarshal(e.data, dest) == nil
}

func (d *MemoryDriver) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.entries[key] = memoryEntry{data: data, expiresAt: time.Now().Add(ttl)}
	d.mu.Unlock()
	return nil
}

func (d *MemoryDriver) DelPrefix(prefix string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key := range d.entries {
		if strings.HasPrefix(key, prefix) {
			delete(d.entries, key)
		}
	}
	return nil
}
