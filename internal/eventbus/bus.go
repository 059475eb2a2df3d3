// Package eventbus is an in-process, partitioned publish/subscribe bus used
// to fan out render-lifecycle events (tile assembled, render complete) to
// whatever is listening — the audit sink, a future dashboard, tests.
package eventbus

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Event is one published message: Topic selects subscribers, Key
// determines which partition (and therefore which goroutine) processes it,
// and Payload carries the event body.
type Event struct {
	Topic   string
	Key     string
	Payload interface{}
}

// Handler processes one Event.
type Handler func(event *Event) error

// Bus is a partitioned, in-memory event bus.
type Bus interface {
	Publish(event *Event) error
	Subscribe(topic string, handler Handler) error
	Close() error
	Stats() Stats
}

// Stats reports the bus's running counters.
type Stats struct {
	Published int64
	Processed int64
	Queued    []int
}

type partition struct {
	id     int
	queue  chan *Event
	ctx    context.Context
	cancel context.CancelFunc
}

// InMemoryBus implements Bus with a fixed number of partitions, each
// drained by its own goroutine so that events sharing a Key are processed
// in order relative to each other.
type InMemoryBus struct {
	log         *logrus.Logger
	partitions  []*partition
	queueSize   int
	mu          sync.RWMutex
	subscribers map[string]Handler
	closed      int32
	published   int64
	processed   int64
}

// New builds an InMemoryBus with partitionCount goroutines, each buffering
// up to queueSize pending events.
func New(partitionCount, queueSize int, log *logrus.Logger) *InMemoryBus {
	b := &InMemoryBus{
		log:         log,
		queueSize:   queueSize,
		subscribers: make(map[string]Handler),
		partitions:  make([]*partition, partitionCount),
	}
	for i := range b.partitions {
		ctx, cancel := context.WithCancel(context.Background())
		p := &partition{id: i, queue: make(chan *Event, queueSize), ctx: ctx, cancel: cancel}
		b.partitions[i] = p
		go b.runPartition(p)
	}
	return b
}

// Publish routes event to the partition selected by its Key and returns an
// error if the bus is closed or that partition's queue is full.
func (b *InMemoryBus) Publish(event *Event) error {
	if atomic.LoadInt32(&b.closed) == 1 {
		return fmt.Errorf("eventbus: bus is closed")
	}

	p := b.partitions[b.partitionFor(event.Key)]
	select {
	case p.queue <- event:
		atomic.AddInt64(&b.published, 1)
		return nil
	default:
		return fmt.Errorf("eventbus: partition %d queue is full", p.id)
	}
}

// Subscribe registers handler for topic, replacing any previous handler for
// the same topic.
func (b *InMemoryBus) Subscribe(topic string, handler Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if atomic.LoadInt32(&b.closed) == 1 {
		return fmt.Errorf("eventbus: bus is closed")
	}
	b.subscribers[topic] = handler
	return nil
}

// Close stops every partition goroutine. Close is idempotent.
func (b *InMemoryBus) Close() error {
	if !atomic.CompareAndSwapInt32(&b.closed, 0, 1) {
		return nil
	}
	for _, p := range b.partitions {
		p.cancel()
	}
	return nil
}

// Stats reports current counters.
func (b *InMemoryBus) Stats() Stats {
	s := Stats{
		Published: atomic.LoadInt64(&b.published),
		Processed: atomic.LoadInt64(&b.processed),
		Queued:    make([]int, len(b.partitions)),
	}
	for i, p := range b.partitions {
		s.Queued[i] = len(p.queue)
	}
	return s
}

func (b *InMemoryBus) partitionFor(key string) int {
	if len(b.partitions) == 1 {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32()) % len(b.partitions)
}

func (b *InMemoryBus) handlerFor(topic string) (Handler, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	h, ok := b.subscribers[topic]
	return h, ok
}

func (b *InMemoryBus) runPartition(p *partition) {
	for {
		select {
		case <-p.ctx.Done():
			return
		case event := <-p.queue:
			if event == nil {
				continue
			}
			handler, ok := b.handlerFor(event.Topic)
			if !ok {
				continue
			}
			if err := handler(event); err != nil && b.log != nil {
				b.log.WithError(err).WithField("topic", event.Topic).Error("eventbus: handler failed")
			} else {
				atomic.AddInt64(&b.processed, 1)
			}
		}
	}
}
