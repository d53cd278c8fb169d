package keymutex

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyMutex_SerializesSameKey(t *testing.T) {
	m := New[int64]()
	ctx := context.Background()

	var (
		inside  int32
		maxSeen int32
		wg      sync.WaitGroup
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := m.Lock(ctx, 1)
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			n := atomic.AddInt32(&inside, 1)
			for {
				old := atomic.LoadInt32(&maxSeen)
				if n <= old || atomic.CompareAndSwapInt32(&maxSeen, old, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen)
	assert.Zero(t, m.Len())
}

func TestKeyMutex_DifferentKeysDoNotBlock(t *testing.T) {
	m := New[int64]()
	ctx := context.Background()

	unlock1, err := m.Lock(ctx, 1)
	require.NoError(t, err)
	defer unlock1()

	done := make(chan struct{})
	go func() {
		unlock2, err := m.Lock(ctx, 2)
		if err == nil {
			unlock2()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on another key blocked")
	}
}

func TestKeyMutex_ContextCancel(t *testing.T) {
	m := New[string]()

	unlock, err := m.Lock(context.Background(), "rescue")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = m.Lock(ctx, "rescue")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock() // second call is a no-op
	assert.Zero(t, m.Len())
}

func TestKeyMutex_FreeLockIgnoresDoneContext(t *testing.T) {
	m := New[int64]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for range 200 {
		unlock, err := m.Lock(ctx, 7)
		require.NoError(t, err)
		unlock()
	}
	assert.Zero(t, m.Len())

	unlock, err := m.Lock(context.Background(), 7)
	require.NoError(t, err)
	defer unlock()

	_, err = m.Lock(ctx, 7)
	assert.ErrorIs(t, err, context.Canceled)
}
