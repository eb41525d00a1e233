// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool_RunAll_ExecutesAllFunctions(t *testing.T) {
	ctx := context.Background()
	pool := NewWorkerPool(2)

	var executed int64
	errFirst := errors.New("first failed")
	errThird := errors.New("third failed")

	functions := []func() error{
		func() error {
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt64(&executed, 1)
			return errFirst
		},
		func() error {
			atomic.AddInt64(&executed, 1)
			return nil
		},
		func() error {
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&executed, 1)
			return errThird
		},
	}

	errs := pool.RunAll(ctx, functions...)

	assert.Equal(t, int64(3), atomic.LoadInt64(&executed))
	require.Len(t, errs, 2)
	assert.Equal(t, []error{errFirst, errThird}, errs, "errors keep submission order")
}

func TestWorkerPool_RunAll_EmptyFunctions(t *testing.T) {
	pool := NewWorkerPool(2)

	assert.Nil(t, pool.RunAll(context.Background()))
}

func TestWorkerPool_RunAll_AllSucceed(t *testing.T) {
	pool := NewWorkerPool(3)

	var counter int64
	increment := func() error {
		atomic.AddInt64(&counter, 1)
		return nil
	}

	errs := pool.RunAll(context.Background(), increment, increment, increment, increment)

	assert.Equal(t, int64(4), atomic.LoadInt64(&counter))
	assert.Empty(t, errs)
}

func TestWorkerPool_RunAll_RespectsLimit(t *testing.T) {
	pool := NewWorkerPool(2)

	var inFlight, maxInFlight int64
	work := func() error {
		n := atomic.AddInt64(&inFlight, 1)
		for {
			current := atomic.LoadInt64(&maxInFlight)
			if n <= current || atomic.CompareAndSwapInt64(&maxInFlight, current, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return nil
	}

	errs := pool.RunAll(context.Background(), work, work, work, work, work)

	assert.Empty(t, errs)
	assert.LessOrEqual(t, atomic.LoadInt64(&maxInFlight), int64(2))
}

func TestWorkerPool_RunAll_WithCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkerPool(2)
	cancel()

	called := false
	errs := pool.RunAll(ctx, func() error {
		called = true
		return nil
	})

	require.Len(t, errs, 1)
	assert.Equal(t, context.Canceled, errs[0])
	assert.False(t, called)
}

func TestNewWorkerPool_InvalidWorkerCount(t *testing.T) {
	tests := []struct {
		name        string
		workerCount int
		expected    int
	}{
		{"zero workers defaults to 1", 0, 1},
		{"negative workers defaults to 1", -1, 1},
		{"positive workers returns same count", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewWorkerPool(tt.workerCount)
			require.NotNil(t, pool)
			assert.Equal(t, tt.expected, pool.workerCount)
		})
	}
}
