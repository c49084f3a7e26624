package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_ResultsKeepInputOrder(t *testing.T) {
	inputs := []int{5, 1, 4, 2, 3}
	pool := NewPool(3, func(_ context.Context, n int) (int, error) {
		time.Sleep(time.Duration(n) * time.Millisecond)
		return n * n, nil
	})

	results := pool.Execute(context.Background(), inputs)

	require.Len(t, results, len(inputs))
	for i, r := range results {
		assert.Equal(t, inputs[i], r.Input)
		assert.Equal(t, inputs[i]*inputs[i], r.Result)
		assert.NoError(t, r.Err)
	}
}

func TestPool_RespectsWorkerLimit(t *testing.T) {
	var running, peak atomic.Int32
	pool := NewPool(2, func(_ context.Context, _ int) (struct{}, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return struct{}{}, nil
	})

	pool.Execute(context.Background(), make([]int, 10))
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestPool_FailuresAreIsolated(t *testing.T) {
	boom := errors.New("boom")
	pool := NewPool(2, func(_ context.Context, n int) (int, error) {
		if n%2 == 0 {
			return 0, boom
		}
		return n, nil
	})

	var mu sync.Mutex
	var done []int
	pool.OnDone(func(i int, _ error) {
		mu.Lock()
		done = append(done, i)
		mu.Unlock()
	})

	results := pool.Execute(context.Background(), []int{1, 2, 3, 4})

	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, boom)
	assert.NoError(t, results[2].Err)
	assert.ErrorIs(t, results[3].Err, boom)
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, done)
}

func TestPool_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var ran atomic.Int32
	pool := NewPool(1, func(_ context.Context, n int) (int, error) {
		ran.Add(1)
		if n == 0 {
			cancel()
		}
		return n, nil
	})

	results := pool.Execute(ctx, []int{0, 1, 2, 3})

	assert.Equal(t, int32(1), ran.Load())
	assert.NoError(t, results[0].Err)
	for _, r := range results[1:] {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}

func TestNewPool_ClampsWorkers(t *testing.T) {
	pool := NewPool(0, func(_ context.Context, n int) (int, error) { return n, nil })
	assert.Equal(t, 1, pool.workers)
	assert.Len(t, pool.Execute(context.Background(), nil), 0)
}
