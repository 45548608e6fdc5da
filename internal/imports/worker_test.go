package imports

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_RunsEnqueuedJobs(t *testing.T) {
	pool := NewPool(2, testLogger())

	var mu sync.Mutex
	seen := map[int64]bool{}
	pool.Start(context.Background(), 2, func(ctx context.Context, jobID int64) {
		mu.Lock()
		seen[jobID] = true
		mu.Unlock()
	})

	for id := int64(1); id <= 5; id++ {
		pool.Enqueue(id)
	}
	pool.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, 5)
	for id := int64(1); id <= 5; id++ {
		assert.True(t, seen[id], "job %d not processed", id)
	}
}

func TestPool_EnqueueAfterStopIsNoop(t *testing.T) {
	pool := NewPool(1, testLogger())
	pool.Start(context.Background(), 1, func(ctx context.Context, jobID int64) {})
	pool.Stop()

	// must not panic on the closed channel
	pool.Enqueue(42)
}

func TestPool_ClampsWorkerCount(t *testing.T) {
	pool := NewPool(0, testLogger())

	done := make(chan int64, 1)
	pool.Start(context.Background(), 0, func(ctx context.Context, jobID int64) {
		done <- jobID
	})
	pool.Enqueue(7)
	assert.Equal(t, int64(7), <-done)
	pool.Stop()
}

func TestPool_ConcurrentEnqueueAndStop(t *testing.T) {
	pool := NewPool(2, testLogger())
	pool.Start(context.Background(), 2, func(ctx context.Context, jobID int64) {})

	// Hammer Enqueue from several goroutines while Stop closes the
	// queue; a send racing the close would panic.
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(base int64) {
			defer wg.Done()
			for i := int64(0); i < 50; i++ {
				pool.Enqueue(base*100 + i)
			}
		}(int64(g))
	}
	pool.Stop()
	wg.Wait()
}
