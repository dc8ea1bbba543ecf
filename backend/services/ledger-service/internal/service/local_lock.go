package service

import (
	"context"
	"sync"
)

// LocalPlateLocker is an in-process PlateLocker used when no Redis is configured.
// It only serialises callers inside one process.
type LocalPlateLocker struct {
	mu    sync.Mutex
	locks map[string]*plateLock
}

type plateLock struct {
	ch   chan struct{}
	refs int
}

// NewLocalPlateLocker returns an empty locker.
func NewLocalPlateLocker() *LocalPlateLocker {
	return &LocalPlateLocker{locks: make(map[string]*plateLock)}
}

// Lock blocks until the plate is free or ctx is done.
func (l *LocalPlateLocker) Lock(ctx context.Context, plate string) (func(), error) {
	l.mu.Lock()
	pl, ok := l.locks[plate]
	if !ok {
		pl = &plateLock{ch: make(chan struct{}, 1)}
		l.locks[plate] = pl
	}
	pl.refs++
	l.mu.Unlock()

	select {
	case pl.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(plate, pl)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-pl.ch
			l.unref(plate, pl)
		})
	}, nil
}

func (l *LocalPlateLocker) unref(plate string, pl *plateLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pl.refs--
	if pl.refs == 0 {
		delete(l.locks, plate)
	}
}
