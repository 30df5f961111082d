package api

import (
	"container/list"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// GeoJSONCache holds rendered zone FeatureCollections by run ID. Stored runs
// never change, so entries only leave by age or by LRU eviction. Concurrent
// misses for the same run share one render.
type GeoJSONCache struct {
	maxRuns int
	ttl     time.Duration
	now     func() time.Time

	mu     sync.Mutex
	lru    *list.List // front = most recently served
	byRun  map[string]*list.Element
	hits   int64
	misses int64

	renders singleflight.Group
}

type renderedRun struct {
	runID      string
	body       []byte
	renderedAt time.Time
}

// CacheStats is reported on /health.
type CacheStats struct {
	Runs    int     `json:"runs"`
	MaxRuns int     `json:"max_runs"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// NewGeoJSONCache keeps at most maxRuns rendered runs for ttl each. A
// non-positive maxRuns disables storage; renders are still shared.
func NewGeoJSONCache(maxRuns int, ttl time.Duration) *GeoJSONCache {
	return &GeoJSONCache{
		maxRuns: maxRuns,
		ttl:     ttl,
		now:     time.Now,
		lru:     list.New(),
		byRun:   make(map[string]*list.Element),
	}
}

// Load returns the cached body for runID, calling render on a miss. hit
// reports whether the body came from the cache. Render errors are returned
// and never stored. A nil cache always renders.
func (c *GeoJSONCache) Load(runID string, render func() ([]byte, error)) (body []byte, hit bool, err error) {
	if c == nil {
		body, err = render()
		return body, false, err
	}
	if body, ok := c.lookup(runID); ok {
		return body, true, nil
	}

	v, err, _ := c.renders.Do(runID, func() (any, error) {
		b, err := render()
		if err != nil {
			return nil, err
		}
		c.store(runID, b)
		return b, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]byte), false, nil
}

func (c *GeoJSONCache) lookup(runID string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.byRun[runID]
	if !ok {
		c.misses++
		return nil, false
	}
	rr := el.Value.(*renderedRun)
	if c.now().Sub(rr.renderedAt) > c.ttl {
		c.lru.Remove(el)
		delete(c.byRun, runID)
		c.misses++
		return nil, false
	}
	c.lru.MoveToFront(el)
	c.hits++
	return rr.body, true
}

func (c *GeoJSONCache) store(runID string, body []byte) {
	if c.maxRuns <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.byRun[runID]; ok {
		el.Value = &renderedRun{runID: runID, body: body, renderedAt: c.now()}
		c.lru.MoveToFront(el)
		return
	}
	for c.lru.Len() >= c.maxRuns {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.byRun, oldest.Value.(*renderedRun).runID)
	}
	c.byRun[runID] = c.lru.PushFront(&renderedRun{runID: runID, body: body, renderedAt: c.now()})
}

// Stats returns occupancy and hit counters. A nil cache reports zeros.
func (c *GeoJSONCache) Stats() CacheStats {
	if c == nil {
		return CacheStats{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	st := CacheStats{
		Runs:    c.lru.Len(),
		MaxRuns: c.maxRuns,
		Hits:    c.hits,
		Misses:  c.misses,
	}
	if total := c.hits + c.misses; total > 0 {
		st.HitRate = float64(c.hits) / float64(total)
	}
	return st
}
