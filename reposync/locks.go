package reposync

import (
	"context"
	"sync"
)

// Locker hands out exclusive locks keyed by repository id.
//
// The zero value is not usable; use NewLocker.
type Locker struct {
	mu sync.RWMutex
	m  map[string]chan struct{}
}

// NewLocker returns a ready Locker.
func NewLocker() *Locker {
	return &Locker{
		m: make(map[string]chan struct{}),
	}
}

// Getch returns the token channel for "key", creating it if needed. Holding
// the lock means holding the channel's single token.
func (l *Locker) getch(key string) chan struct{} {
	l.mu.RLock()
	ch, ok := l.m[key]
	l.mu.RUnlock()
	if !ok {
		l.mu.Lock()
		defer l.mu.Unlock()
		ch, ok = l.m[key]
		if !ok {
			ch = make(chan struct{}, 1)
			ch <- struct{}{}
			l.m[key] = ch
		}
	}
	return ch
}

// Lock waits for the lock on "key" or for the Context to be done.
//
// The returned function releases the lock and must be called exactly once.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	ch := l.getch(key)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-ch:
		return release(ch), nil
	}
}

// TryLock takes the lock on "key" if it's free, reporting whether it did.
//
// If the lock was taken, the returned function releases it and must be
// called exactly once.
func (l *Locker) TryLock(key string) (func(), bool) {
	ch := l.getch(key)
	select {
	case <-ch:
		return release(ch), true
	default:
		return nil, false
	}
}

func release(ch chan struct{}) func() {
	var once sync.Once
	return func() {
		once.Do(func() { ch <- struct{}{} })
	}
}
