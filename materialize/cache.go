/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package materialize

import (
	"context"
	"sync"
)

// FetchCache wraps a Fetcher so each URL is fetched at most once, even when
// several import scripts request it concurrently. Failures are cached too.
type FetchCache struct {
	fetcher Fetcher

	mu      sync.Mutex
	entries map[string]*fetchEntry
	order   []string // eviction order
	maxSize int
}

type fetchEntry struct {
	once sync.Once
	body []byte
	err  error
}

// NewFetchCache creates a cache holding at most maxSize URLs. When full, the
// oldest entry is evicted.
func NewFetchCache(fetcher Fetcher, maxSize int) *FetchCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &FetchCache{
		fetcher: fetcher,
		entries: make(map[string]*fetchEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
	}
}

// Fetch implements Fetcher.
func (c *FetchCache) Fetch(ctx context.Context, url string) ([]byte, error) {
	c.mu.Lock()
	entry, ok := c.entries[url]
	if !ok {
		if len(c.entries) >= c.maxSize {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		entry = &fetchEntry{}
		c.entries[url] = entry
		c.order = append(c.order, url)
	}
	c.mu.Unlock()

	// Load outside the lock
	entry.once.Do(func() {
		entry.body, entry.err = c.fetcher.Fetch(ctx, url)
	})
	return entry.body, entry.err
}

// Size returns the number of cached URLs.
func (c *FetchCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
