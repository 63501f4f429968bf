package requestcache

import "sort"

// Cache maps request keys to raw response bodies.
//
// It is not safe for concurrent use, a Cache is owned by a single Fetcher
// for the duration of a run. The zero value is not usable, a Cache must come
// from NewCache or NewCacheFrom.
type Cache struct {
	entries map[string]string
}

// NewCache returns an empty cache.
func NewCache() Cache {
	return Cache{entries: map[string]string{}}
}

// NewCacheFrom wraps an existing mapping, the map is not copied.
func NewCacheFrom(entries map[string]string) Cache {
	if entries == nil {
		entries = map[string]string{}
	}
	return Cache{entries: entries}
}

func (c Cache) Get(key string) (string, bool) {
	body, ok := c.entries[key]
	return body, ok
}

func (c Cache) Set(key, body string) {
	c.entries[key] = body
}

func (c Cache) Len() int {
	return len(c.entries)
}

// Keys returns every key in ascending order.
func (c Cache) Keys() []string {
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries returns a copy of the underlying mapping.
func (c Cache) Entries() map[string]string {
	out := make(map[string]string, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}
