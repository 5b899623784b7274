package app

import (
	"github.com/corey/spool/internal/ports"
)

// DefaultCacheSize is the default capacity of the full-record cache.
const DefaultCacheSize = 200

// recordCache is a capacity-bounded cache of fully parsed records. Eviction
// is FIFO: when the cache is full, the first-inserted entry goes, not the
// least recently used. The cache never does I/O and is guarded by the
// owning Store's mutex, so it carries no lock of its own.
type recordCache struct {
	capacity int
	order    []string
	entries  map[string]*ports.ProfileRecord
}

func newRecordCache(capacity int) *recordCache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &recordCache{
		capacity: capacity,
		entries:  make(map[string]*ports.ProfileRecord),
	}
}

func (c *recordCache) get(filename string) (*ports.ProfileRecord, bool) {
	rec, ok := c.entries[filename]
	return rec, ok
}

// put inserts rec, evicting the oldest entry when at capacity. Re-inserting
// a resident filename replaces the value without touching its queue slot.
func (c *recordCache) put(filename string, rec *ports.ProfileRecord) {
	if _, resident := c.entries[filename]; !resident {
		if len(c.order) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, filename)
	}
	c.entries[filename] = rec
}

func (c *recordCache) drop(filename string) {
	if _, ok := c.entries[filename]; !ok {
		return
	}
	delete(c.entries, filename)
	for i, f := range c.order {
		if f == filename {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *recordCache) len() int {
	return len(c.entries)
}
