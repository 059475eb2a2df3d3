package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"frakt.systems/frakt/internal/eventbus"
)

func TestNoopSinkDiscardsEvents(t *testing.T) {
	var s Sink = NoopSink{}
	assert.NoError(t, s.Publish(context.Background(), &eventbus.Event{Topic: eventbus.TopicTileAssembled}))
	assert.NoError(t, s.Close())
}
