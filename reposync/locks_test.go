package reposync

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLocker(t *testing.T) {
	locks := NewLocker()

	t.Run("LockUnlock", func(t *testing.T) {
		ctx := t.Context()
		key := t.Name()
		for range 2 {
			unlock, err := locks.Lock(ctx, key)
			if err != nil {
				t.Fatal(err)
			}
			unlock()
			unlock() // Extra calls are no-ops.
		}
	})

	t.Run("TryLock", func(t *testing.T) {
		ctx := t.Context()
		key := t.Name()
		unlock, err := locks.Lock(ctx, key)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := locks.TryLock(key); ok {
			t.Error("wanted TryLock to fail while held")
		}
		if u, ok := locks.TryLock(key + "-other"); !ok {
			t.Error("wanted TryLock on another key to succeed")
		} else {
			u()
		}
		unlock()
		u, ok := locks.TryLock(key)
		if !ok {
			t.Fatal("wanted TryLock to succeed after release")
		}
		u()
	})

	t.Run("LockCanceled", func(t *testing.T) {
		key := t.Name()
		unlock, err := locks.Lock(t.Context(), key)
		if err != nil {
			t.Fatal(err)
		}
		defer unlock()
		ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
		defer cancel()
		if _, err := locks.Lock(ctx, key); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Exclusive", func(t *testing.T) {
		ctx := t.Context()
		key := t.Name()
		var (
			wg     sync.WaitGroup
			active atomic.Int32
		)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock, err := locks.Lock(ctx, key)
				if err != nil {
					t.Error(err)
					return
				}
				defer unlock()
				if n := active.Add(1); n != 1 {
					t.Errorf("%d holders", n)
				}
				time.Sleep(time.Millisecond)
				active.Add(-1)
			}()
		}
		wg.Wait()
	})
}
