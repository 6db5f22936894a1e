/*
Copyright © 2026 the nctable authors.
This file is part of nctable.

nctable is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

nctable is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with nctable.  If not, see <http://www.gnu.org/licenses/>.
*/

package nctable

import (
	"sync"

	"github.com/golang/groupcache/lru"
	"github.com/golang/groupcache/singleflight"
)

// DefaultCacheEntries is the default capacity of each cache tier.
const DefaultCacheEntries = 32

// TierStats counts the activity of one cache tier.
type TierStats struct {
	// Hits is the number of requests answered from the cache.
	Hits int64

	// Computed is the number of values computed successfully.
	Computed int64

	// Entries is the number of values currently held.
	Entries int
}

// tier is a bounded cache of computed results. Concurrent requests for a
// missing key share a single computation. Every value belongs to a
// generation; values computed for an older generation are discarded.
type tier struct {
	maxEntries int
	flight     singleflight.Group

	mu             sync.Mutex
	cache          *lru.Cache
	gen            uint64
	hits, computed int64
}

func newTier(maxEntries int) *tier {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	return &tier{maxEntries: maxEntries, cache: lru.New(maxEntries)}
}

// get returns the value stored under key, computing and storing it with
// compute if it is missing. Errors are returned but not stored. If the
// tier has moved past gen, ErrSuperseded is returned instead.
func (t *tier) get(key string, gen uint64, compute func() (interface{}, error)) (interface{}, error) {
	t.mu.Lock()
	if t.gen != gen {
		t.mu.Unlock()
		return nil, ErrSuperseded
	}
	if v, ok := t.cache.Get(key); ok {
		t.hits++
		t.mu.Unlock()
		return v, nil
	}
	t.mu.Unlock()

	v, err := t.flight.Do(key, func() (interface{}, error) {
		t.mu.Lock()
		if v, ok := t.cache.Get(key); ok && t.gen == gen {
			t.mu.Unlock()
			return v, nil
		}
		t.mu.Unlock()

		v, err := compute()
		if err != nil {
			return nil, err
		}
		t.mu.Lock()
		t.computed++
		if t.gen == gen {
			t.cache.Add(key, v)
		}
		t.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gen != gen {
		return nil, ErrSuperseded
	}
	return v, nil
}

// purge empties the tier and moves it to generation gen.
func (t *tier) purge(gen uint64) {
	t.mu.Lock()
	t.cache = lru.New(t.maxEntries)
	t.gen = gen
	t.mu.Unlock()
}

func (t *tier) stats() TierStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TierStats{Hits: t.hits, Computed: t.computed, Entries: t.cache.Len()}
}
