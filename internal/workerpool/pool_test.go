package workerpool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsNonPositiveSize(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)
}

func TestSubmitRunsJobsConcurrentlyUpToSize(t *testing.T) {
	p, err := New(2)
	require.NoError(t, err)

	var running int32
	var maxObserved int32
	release := make(chan struct{})

	for i := 0; i < 2; i++ {
		err := p.Submit(context.Background(), func() {
			n := atomic.AddInt32(&running, 1)
			for {
				cur := atomic.LoadInt32(&maxObserved)
				if n <= cur || atomic.CompareAndSwapInt32(&maxObserved, cur, n) {
					break
				}
			}
			<-release
			atomic.AddInt32(&running, -1)
		})
		require.NoError(t, err)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	p.Shutdown()

	assert.Equal(t, int32(2), atomic.LoadInt32(&maxObserved))
}

func TestSubmitBlocksUntilSlotFrees(t *testing.T) {
	p, err := New(1)
	require.NoError(t, err)

	block := make(chan struct{})
	require.NoError(t, p.Submit(context.Background(), func() { <-block }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = p.Submit(ctx, func() {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(block)
	p.Shutdown()
}

func TestSubmitAfterShutdownFails(t *testing.T) {
	p, err := New(1)
	require.NoError(t, err)
	p.Shutdown()

	err = p.Submit(context.Background(), func() {})
	assert.Error(t, err)
}
