package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Record is one file's last-known scan outcome.
type Record struct {
	Size    int64  `json:"size"`
	ModTime int64  `json:"modTime"`
	Total   uint64 `json:"total"`
	Code    uint64 `json:"code"`
}

// Cache maps file path to its last recorded Record, persisted as a JSON
// sidecar. A bloomFilter answers "definitely not cached" before the map
// lookup, cheap insurance once the record set is large (a repo-wide scan
// over tens of thousands of files).
type Cache struct {
	path    string
	mu      sync.Mutex
	Filter  *bloomFilter      `json:"filter"`
	Records map[string]Record `json:"records"`
}

// Load reads a Cache from path. A missing file returns an empty, usable
// Cache rather than an error — a first run always starts cold.
func Load(path string) (*Cache, error) {
	c := &Cache{path: path, Records: make(map[string]Record)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache: reading %s: %w", path, err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("cache: parsing %s: %w", path, err)
		}
	}
	return c, nil
}

// Save persists the Cache back to its load path as JSON.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0644)
}

// Fresh reports whether path's cached Record still matches size/modTime,
// meaning a rescan can be skipped and the cached stats reused.
func (c *Cache) Fresh(path string, size, modTime int64) (Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Filter != nil && !c.Filter.MightContain(path) {
		return Record{}, false
	}
	rec, ok := c.Records[path]
	if !ok || rec.Size != size || rec.ModTime != modTime {
		return Record{}, false
	}
	return rec, true
}

// Remember records path's latest scan outcome, growing the bloom filter
// lazily so Cache stays usable even when the eventual file count was not
// known up front.
func (c *Cache) Remember(path string, rec Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Filter == nil || len(c.Records)+1 > c.Filter.Size/8 {
		c.Filter = newBloomFilter(maxInt(len(c.Records)+1, 1024), 0.01)
		for p := range c.Records {
			c.Filter.Add(p)
		}
	}
	c.Filter.Add(path)
	c.Records[path] = rec
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
