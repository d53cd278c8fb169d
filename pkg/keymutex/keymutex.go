// Package keymutex provides mutual exclusion per key. Locks for different keys never block
// each other and idle keys are released so the table does not grow with the key space.
package keymutex

import (
	"context"
	"sync"
)

type entry struct {
	ch   chan struct{} // buffered(1): holding the token means holding the lock
	refs int
}

type KeyMutex[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*entry
}

func New[K comparable]() *KeyMutex[K] {
	return &KeyMutex[K]{locks: make(map[K]*entry)}
}

// Lock blocks until the lock for key is held or ctx is done. An uncontended lock is
// acquired regardless of ctx.
// The returned function releases the lock and must be called exactly once.
func (m *KeyMutex[K]) Lock(ctx context.Context, key K) (func(), error) {
	m.mu.Lock()
	e, ok := m.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		m.locks[key] = e
	}
	e.refs++
	m.mu.Unlock()

	// a free lock is taken even when ctx is already done
	select {
	case e.ch <- struct{}{}:
	default:
		select {
		case e.ch <- struct{}{}:
		case <-ctx.Done():
			m.release(key, e)
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			m.release(key, e)
		})
	}, nil
}

func (m *KeyMutex[K]) release(key K, e *entry) {
	m.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(m.locks, key)
	}
	m.mu.Unlock()
}

// Len returns the number of keys currently locked or waited on.
func (m *KeyMutex[K]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
