package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

type countingObserver struct {
	mu   sync.Mutex
	seen []string
}

func (o *countingObserver) CacheLookup(result string) {
	o.mu.Lock()
	o.seen = append(o.seen, result)
	o.mu.Unlock()
}

func newTestCache(t *testing.T) (*QueryCache, *fakeClock, *countingObserver) {
	t.Helper()
	clk := &fakeClock{t: time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)}
	obs := &countingObserver{}
	c := New(NewMemoryStore(clk.Now), 5*time.Minute, 10*time.Minute, WithClock(clk.Now), WithObserver(obs))
	return c, clk, obs
}

// sequenceFetch returns "1", "2", ... on successive calls.
func sequenceFetch(calls *int32) FetchFunc {
	return func(context.Context) ([]byte, error) {
		n := atomic.AddInt32(calls, 1)
		return []byte{byte('0' + n)}, nil
	}
}

func TestQueryCache_Windows(t *testing.T) {
	cases := []struct {
		name      string
		advance   time.Duration
		wantValue string
		wantCalls int32
		wantSeen  []string
	}{
		{name: "fresh hit", advance: 4 * time.Minute, wantValue: "1", wantCalls: 1, wantSeen: []string{ResultMiss, ResultFresh}},
		{name: "stale hit serves old value and refreshes", advance: 6 * time.Minute, wantValue: "1", wantCalls: 2, wantSeen: []string{ResultMiss, ResultStale}},
		{name: "expired refetches synchronously", advance: 11 * time.Minute, wantValue: "2", wantCalls: 2, wantSeen: []string{ResultMiss, ResultMiss}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, clk, obs := newTestCache(t)
			var calls int32
			ctx := context.Background()

			if v, err := c.Get(ctx, "k", sequenceFetch(&calls)); err != nil || string(v) != "1" {
				t.Fatalf("first get: v=%q err=%v", v, err)
			}

			clk.Advance(tc.advance)
			v, err := c.Get(ctx, "k", sequenceFetch(&calls))
			if err != nil {
				t.Fatalf("second get: %v", err)
			}
			c.Wait()

			if string(v) != tc.wantValue {
				t.Fatalf("value=%q, want %q", v, tc.wantValue)
			}
			if got := atomic.LoadInt32(&calls); got != tc.wantCalls {
				t.Fatalf("fetch calls=%d, want %d", got, tc.wantCalls)
			}
			if diff := cmp.Diff(tc.wantSeen, obs.seen); diff != "" {
				t.Fatalf("lookups mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestQueryCache_StaleRefreshUpdatesEntry(t *testing.T) {
	c, clk, _ := newTestCache(t)
	var calls int32
	ctx := context.Background()

	_, _ = c.Get(ctx, "k", sequenceFetch(&calls))
	clk.Advance(6 * time.Minute)
	_, _ = c.Get(ctx, "k", sequenceFetch(&calls))
	c.Wait()

	v, err := c.Get(ctx, "k", sequenceFetch(&calls))
	if err != nil || string(v) != "2" {
		t.Fatalf("after refresh v=%q err=%v, want 2", v, err)
	}
	if calls != 2 {
		t.Fatalf("refreshed entry should be fresh, calls=%d", calls)
	}
}

func TestQueryCache_ErrorsAreNotCached(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()
	boom := errors.New("source down")

	var calls int32
	failing := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return nil, boom
	}

	for i := 0; i < 2; i++ {
		if _, err := c.Get(ctx, "k", failing); !errors.Is(err, boom) {
			t.Fatalf("want boom, got %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("failed fetch must be retried, calls=%d", calls)
	}

	v, err := c.Get(ctx, "k", func(context.Context) ([]byte, error) { return []byte("ok"), nil })
	if err != nil || string(v) != "ok" {
		t.Fatalf("recovery v=%q err=%v", v, err)
	}
}

func TestQueryCache_FailedRefreshKeepsStaleValue(t *testing.T) {
	c, clk, _ := newTestCache(t)
	ctx := context.Background()

	_, _ = c.Get(ctx, "k", func(context.Context) ([]byte, error) { return []byte("old"), nil })
	clk.Advance(6 * time.Minute)

	v, err := c.Get(ctx, "k", func(context.Context) ([]byte, error) { return nil, errors.New("down") })
	c.Wait()
	if err != nil || string(v) != "old" {
		t.Fatalf("stale get v=%q err=%v", v, err)
	}

	v, err = c.Get(ctx, "k", func(context.Context) ([]byte, error) { return []byte("new"), nil })
	c.Wait()
	if err != nil || string(v) != "old" {
		t.Fatalf("entry should still be served stale, v=%q err=%v", v, err)
	}
}

func TestQueryCache_CollapsesConcurrentMisses(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()

	var calls int32
	release := make(chan struct{})
	slow := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []byte("v"), nil
	}

	const n = 8
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if v, err := c.Get(ctx, "k", slow); err != nil || string(v) != "v" {
				t.Errorf("concurrent get v=%q err=%v", v, err)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("fetch calls=%d, want 1", got)
	}
}

func TestQueryCache_CanceledCallerDoesNotFailWaiters(t *testing.T) {
	c, _, _ := newTestCache(t)

	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	fetchErr := make(chan error, 1)
	slow := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		close(started)
		<-release
		fetchErr <- ctx.Err()
		return []byte("v"), nil
	}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstDone := make(chan error, 1)
	go func() {
		_, err := c.Get(firstCtx, "k", slow)
		firstDone <- err
	}()
	<-started

	type result struct {
		v   []byte
		err error
	}
	secondDone := make(chan result, 1)
	go func() {
		v, err := c.Get(context.Background(), "k", slow)
		secondDone <- result{v, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	if err := <-firstDone; !errors.Is(err, context.Canceled) {
		t.Fatalf("first caller err=%v, want context.Canceled", err)
	}

	close(release)
	got := <-secondDone
	if got.err != nil || string(got.v) != "v" {
		t.Fatalf("waiter v=%q err=%v", got.v, got.err)
	}
	if err := <-fetchErr; err != nil {
		t.Fatalf("shared fetch saw ctx err=%v", err)
	}

	if v, err := c.Get(context.Background(), "k", slow); err != nil || string(v) != "v" {
		t.Fatalf("stored entry v=%q err=%v", v, err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("fetch calls=%d, want 1", n)
	}
}

func TestQueryCache_Invalidate(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()
	var calls int32

	_, _ = c.Get(ctx, "k", sequenceFetch(&calls))
	if err := c.Invalidate(ctx, "k"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	v, _ := c.Get(ctx, "k", sequenceFetch(&calls))
	if string(v) != "2" {
		t.Fatalf("invalidated key should refetch, got %q", v)
	}
}

func TestNew_NormalizesWindows(t *testing.T) {
	c := New(NewMemoryStore(nil), 0, 0)
	if c.stale != DefaultStale || c.retention != DefaultRetention {
		t.Fatalf("defaults not applied: stale=%v retention=%v", c.stale, c.retention)
	}
	c = New(NewMemoryStore(nil), time.Minute, time.Second)
	if c.retention != time.Minute {
		t.Fatalf("retention should be raised to stale, got %v", c.retention)
	}
}

func TestLoad_Typed(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Name  string   `json:"name"`
		Items []string `json:"items"`
	}
	want := payload{Name: "x", Items: []string{}}

	var calls int
	fetch := func(context.Context) (payload, error) {
		calls++
		return want, nil
	}
	for i := 0; i < 2; i++ {
		got, err := Load(ctx, c, "typed", fetch)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("payload mismatch (-want +got):\n%s", diff)
		}
	}
	if calls != 1 {
		t.Fatalf("second load should hit the cache, calls=%d", calls)
	}
}
