package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_SharesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
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
			if v != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_Expiry(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Second)
	clock := time.Unix(100, 0)
	store.now = func() time.Time { return clock }

	store.Set(context.Background(), "k", 7)
	if v, ok := store.Get(context.Background(), "k"); !ok || v != 7 {
		t.Fatalf("expected cached value, got %d %v", v, ok)
	}

	clock = clock.Add(2 * time.Second)
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestStore_LoaderErrorIsNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	boom := errors.New("boom")
	if _, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("failed load must not be cached")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore[string](0)
	store.Set(context.Background(), "team:id:a", "A")
	store.Set(context.Background(), "team:id:b", "B")
	store.Set(context.Background(), "player:id:p", "P")

	store.DeletePrefix(context.Background(), "team:")
	if _, ok := store.Get(context.Background(), "team:id:a"); ok {
		t.Fatalf("expected team keys removed")
	}
	if _, ok := store.Get(context.Background(), "player:id:p"); !ok {
		t.Fatalf("expected player key kept")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
