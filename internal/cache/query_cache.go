package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/guttosm/contractpulse/internal/logger"
)

// Lookup outcomes reported to an Observer.
const (
	ResultFresh = "fresh"
	ResultStale = "stale"
	ResultMiss  = "miss"
)

// Default windows: stale after 5 minutes, dropped after 10.
const (
	DefaultStale     = 5 * time.Minute
	DefaultRetention = 10 * time.Minute
)

// FetchFunc produces the JSON payload for a key on a miss or refresh.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Observer receives one call per lookup.
type Observer interface {
	CacheLookup(result string)
}

// Option customizes a QueryCache.
type Option func(*QueryCache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *QueryCache) { c.now = now }
}

// WithObserver reports lookup outcomes (fresh, stale, miss).
func WithObserver(o Observer) Option {
	return func(c *QueryCache) { c.observer = o }
}

// WithRefreshTimeout bounds every fetch run by the cache, on a miss or in a
// background refresh.
func WithRefreshTimeout(d time.Duration) Option {
	return func(c *QueryCache) { c.refreshTimeout = d }
}

// QueryCache serves JSON payloads from a Store with stale-while-revalidate
// semantics. Concurrent fetches for one key are collapsed into one call.
// Fetch errors are never stored.
type QueryCache struct {
	store          Store
	stale          time.Duration
	retention      time.Duration
	now            func() time.Time
	observer       Observer
	refreshTimeout time.Duration
	log            zerolog.Logger

	group singleflight.Group

	mu         sync.Mutex
	refreshing map[string]struct{}
	wg         sync.WaitGroup
}

// New builds a QueryCache over store. Non-positive windows fall back to the
// defaults; retention is never shorter than stale.
func New(store Store, stale, retention time.Duration, opts ...Option) *QueryCache {
	if stale <= 0 {
		stale = DefaultStale
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	if retention < stale {
		retention = stale
	}
	c := &QueryCache{
		store:          store,
		stale:          stale,
		retention:      retention,
		now:            time.Now,
		refreshTimeout: 30 * time.Second,
		log:            logger.Component("cache"),
		refreshing:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the payload for key.
//
// Behavior:
//   - entry younger than the stale window: returned as-is.
//   - entry between stale and retention: returned, and a background refresh
//     is started unless one is already running for key.
//   - no entry (or an unreadable one): fetch runs synchronously and its
//     result is stored for the retention window.
func (c *QueryCache) Get(ctx context.Context, key string, fetch FetchFunc) ([]byte, error) {
	e, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed, fetching")
		ok = false
	}

	if ok {
		age := c.now().Sub(e.FetchedAt)
		switch {
		case age < c.stale:
			c.observe(ResultFresh)
			return e.Value, nil
		case age < c.retention:
			c.observe(ResultStale)
			c.refreshAsync(ctx, key, fetch)
			return e.Value, nil
		}
	}

	c.observe(ResultMiss)
	return c.load(ctx, key, fetch)
}

// Invalidate drops keys from the store.
func (c *QueryCache) Invalidate(ctx context.Context, keys ...string) error {
	return c.store.Delete(ctx, keys...)
}

// Wait blocks until running background refreshes finish.
func (c *QueryCache) Wait() {
	c.wg.Wait()
}

// load runs fetch once per key for all concurrent callers. The shared fetch
// is detached from the caller that started it, so one client going away does
// not fail the others; each caller still stops waiting when its own ctx ends.
func (c *QueryCache) load(ctx context.Context, key string, fetch FetchFunc) ([]byte, error) {
	ch := c.group.DoChan(key, func() (interface{}, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
		defer cancel()

		val, err := fetch(shared)
		if err != nil {
			return nil, err
		}
		e := Entry{Value: val, FetchedAt: c.now()}
		if err := c.store.Set(shared, key, e, c.retention); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
		return val, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *QueryCache) refreshAsync(ctx context.Context, key string, fetch FetchFunc) {
	c.mu.Lock()
	if _, busy := c.refreshing[key]; busy {
		c.mu.Unlock()
		return
	}
	c.refreshing[key] = struct{}{}
	c.wg.Add(1)
	c.mu.Unlock()

	// The request that noticed the stale entry may finish first.
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
	go func() {
		defer c.wg.Done()
		defer cancel()
		defer func() {
			c.mu.Lock()
			delete(c.refreshing, key)
			c.mu.Unlock()
		}()

		if _, err := c.load(bg, key, fetch); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("background refresh failed")
			return
		}
		c.log.Debug().Str("key", key).Msg("cache refreshed")
	}()
}

func (c *QueryCache) observe(result string) {
	if c.observer != nil {
		c.observer.CacheLookup(result)
	}
}

// Load is the typed form of Get: fetch's result is JSON-encoded for the store
// and decoded back into T.
func Load[T any](ctx context.Context, c *QueryCache, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	var out T
	raw, err := c.Get(ctx, key, func(ctx context.Context) ([]byte, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		return b, nil
	})
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, nil
}
