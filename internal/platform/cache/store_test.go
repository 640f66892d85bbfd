package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "players", []string{"p1"})
	if _, ok := store.Get(context.Background(), "players"); !ok {
		t.Fatalf("expected cached value before ttl")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), "players"); ok {
		t.Fatalf("expected value to expire after ttl")
	}
}

func TestLoad_TypedAndNilStore(t *testing.T) {
	t.Parallel()

	loader := func(context.Context) ([]int, error) { return []int{1, 2}, nil }

	got, err := Load(context.Background(), nil, "k", loader)
	if err != nil || len(got) != 2 {
		t.Fatalf("nil store load: got=%v err=%v", got, err)
	}

	store := NewStore(time.Minute)
	store.Set(context.Background(), "wrong", "text")
	if _, err := Load(context.Background(), store, "wrong", loader); err == nil {
		t.Fatalf("expected type mismatch error")
	}

	got, err = Load(context.Background(), store, "ints", loader)
	if err != nil || len(got) != 2 {
		t.Fatalf("typed load: got=%v err=%v", got, err)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
