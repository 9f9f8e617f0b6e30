package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrLockNotObtained = errors.New("system busy, please try again later (lock)")

type Lock interface {
	Release(ctx context.Context) error
}

// Locker serializes work on a key across processes (Redis) or within one (local).
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

// LocalLocker is the in-process Locker used when Redis is disabled.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *LocalLocker) Obtain(ctx context.Context, key string, _ time.Duration) (Lock, error) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	acquired := make(chan struct{})
	go func() {
		m.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
		return localLock{m: m}, nil
	case <-ctx.Done():
		// Hand the mutex back once the pending Lock completes.
		go func() {
			<-acquired
			m.Unlock()
		}()
		return nil, ctx.Err()
	}
}

type localLock struct {
	m *sync.Mutex
}

func (l localLock) Release(context.Context) error {
	l.m.Unlock()
	return nil
}
