package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_SerializesSameKey(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lock, err := locker.Obtain(ctx, "k", time.Second)
			require.NoError(t, err)
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			_ = lock.Release(ctx)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestLocalLocker_HonoursContext(t *testing.T) {
	locker := NewLocalLocker()
	held, err := locker.Obtain(context.Background(), "k", time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Obtain(ctx, "k", time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, held.Release(context.Background()))
	again, err := locker.Obtain(context.Background(), "k", time.Second)
	require.NoError(t, err)
	_ = again.Release(context.Background())
}
