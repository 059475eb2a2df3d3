package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	b := New(1, 4, nil)
	defer b.Close()

	var mu sync.Mutex
	var got []string
	require.NoError(t, b.Subscribe(TopicTileAssembled, func(e *Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.Key)
		return nil
	}))

	require.NoError(t, b.Publish(&Event{Topic: TopicTileAssembled, Key: "job-1", Payload: TileAssembledPayload{JobID: "job-1", TileIndex: 0}}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestPublishAfterCloseFails(t *testing.T) {
	b := New(1, 4, nil)
	require.NoError(t, b.Close())

	err := b.Publish(&Event{Topic: TopicTileAssembled})
	assert.Error(t, err)
}

func TestPublishToFullQueueFails(t *testing.T) {
	b := New(1, 1, nil)
	defer b.Close()

	block := make(chan struct{})
	require.NoError(t, b.Subscribe(TopicTileAssembled, func(e *Event) error {
		<-block
		return nil
	}))

	require.NoError(t, b.Publish(&Event{Topic: TopicTileAssembled, Key: "a"}))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, b.Publish(&Event{Topic: TopicTileAssembled, Key: "a"}))

	err := b.Publish(&Event{Topic: TopicTileAssembled, Key: "a"})
	assert.Error(t, err)
	close(block)
}

func TestCloseIsIdempotent(t *testing.T) {
	b := New(2, 2, nil)
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
}

func TestStatsReportsPublishedCount(t *testing.T) {
	b := New(1, 4, nil)
	defer b.Close()
	require.NoError(t, b.Subscribe(TopicTileAssembled, func(e *Event) error { return nil }))
	require.NoError(t, b.Publish(&Event{Topic: TopicTileAssembled, Key: "a"}))

	require.Eventually(t, func() bool {
		return b.Stats().Processed == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(1), b.Stats().Published)
}
