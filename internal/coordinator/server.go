// Package coordinator implements the TCP server that hands fragment tasks
// to workers and assembles their results into a raster.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"frakt.systems/frakt/internal/eventbus"
	"frakt.systems/frakt/internal/fragment"
	"frakt.systems/frakt/internal/metrics"
	"frakt.systems/frakt/internal/raster"
	"frakt.systems/frakt/internal/wire"
	"frakt.systems/frakt/internal/workerpool"
)

// Server accepts worker connections, dispatches each to the worker pool,
// and services exactly one fragment-task/fragment-result exchange per
// connection before closing it — matching the one-tile-per-connection
// handshake the protocol was designed around.
type Server struct {
	addr   string
	jobID  string
	log    *logrus.Logger
	pool   *workerpool.Pool
	raster *raster.Raster
	asm    *fragment.Assembler
	events *eventbus.InMemoryBus
	sink   raster.Sink

	mu       sync.Mutex
	conns    map[net.Conn]struct{}
	listener net.Listener
	stopped  bool
}

// New builds a Server. sink is invoked once the raster is fully assembled.
// Each Server is assigned a fresh job ID, carried on every published event
// and audit record so a render can be correlated across the event bus.
//
// The Assembler — and the tile cursor it holds — is built once here and
// shared by every connection handleConnection spawns, so successive worker
// connections walk the planner's tile sequence forward instead of each
// restarting it from zero.
func New(addr string, pool *workerpool.Pool, planner *fragment.Planner, out *raster.Raster, policy fragment.ExhaustionPolicy, events *eventbus.InMemoryBus, sink raster.Sink, log *logrus.Logger) *Server {
	jobID := uuid.New().String()
	asm := fragment.NewAssembler(planner, out, policy).
		WithEvents(busPublisher{bus: events, jobID: jobID}).
		WithMetrics(metrics.AssemblerRecorder{})

	return &Server{
		addr:   addr,
		jobID:  jobID,
		log:    log,
		pool:   pool,
		raster: out,
		asm:    asm,
		events: events,
		sink:   sink,
		conns:  make(map[net.Conn]struct{}),
	}
}

// Serve listens on s.addr and accepts connections until ctx is cancelled.
// It blocks until the listener is closed.
func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("coordinator: listening on %s: %w", s.addr, err)
	}
	s.listener = listener
	s.log.WithField("addr", s.addr).Info("coordinator listening")

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			s.mu.Lock()
			stopped := s.stopped
			s.mu.Unlock()
			if stopped {
				return nil
			}
			return fmt.Errorf("coordinator: accept: %w", err)
		}

		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			conn.Close()
			return nil
		}
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		metrics.ActiveConnections.Inc()
		submitErr := s.pool.Submit(ctx, func() {
			defer metrics.ActiveConnections.Dec()
			s.handleConnection(conn)
		})
		if submitErr != nil {
			s.log.WithError(submitErr).Warn("coordinator: dropping connection, pool unavailable")
			metrics.ActiveConnections.Dec()
			s.closeConn(conn)
		}
	}
}

// Stop closes the listener and every tracked connection, then waits for
// in-flight handlers to finish via the worker pool's Shutdown.
func (s *Server) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	if s.listener != nil {
		s.listener.Close()
	}
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.pool.Shutdown()
}

func (s *Server) closeConn(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	conn.Close()
}

// handleConnection services one request/result round-trip: it expects a
// FragmentRequest, replies with a FragmentTask, then either a FragmentResult
// (assembled into the raster) or the connection closing. It never sends
// more than one task per connection — workers that want more reconnect.
func (s *Server) handleConnection(conn net.Conn) {
	defer s.closeConn(conn)

	log := s.log.WithFields(logrus.Fields{"remote": conn.RemoteAddr(), "job_id": s.jobID})
	log.Debug("coordinator: connection accepted")

	msg, _, err := wire.Read(conn)
	if err != nil {
		log.WithError(err).Debug("coordinator: reading request")
		return
	}
	if msg.Kind != wire.KindFragmentRequest {
		log.Warn("coordinator: expected FragmentRequest")
		return
	}

	task, idx, ok := s.asm.NextTask()
	if !ok {
		log.Debug("coordinator: no more tiles, closing")
		return
	}

	taskMsg := wire.Message{Kind: wire.KindFragmentTask, FragmentTask: &task}
	if err := wire.Write(conn, taskMsg, wire.Identification()); err != nil {
		log.WithError(err).Warn("coordinator: writing task")
		return
	}

	resultMsg, payload, err := wire.Read(conn)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.WithError(err).Debug("coordinator: reading result")
		}
		return
	}
	if resultMsg.Kind != wire.KindFragmentResult || resultMsg.FragmentResult == nil {
		log.Warn("coordinator: expected FragmentResult")
		return
	}

	if err := s.asm.Accept(idx, *resultMsg.FragmentResult, payload); err != nil {
		log.WithError(err).Warn("coordinator: rejecting result")
		return
	}

	if s.raster.Complete() {
		metrics.RendersCompletedTotal.Inc()
		if err := s.sink.Write(s.raster); err != nil {
			log.WithError(err).Error("coordinator: writing raster")
		}
		s.events.Publish(&eventbus.Event{
			Topic:   eventbus.TopicRenderComplete,
			Key:     s.jobID,
			Payload: eventbus.RenderCompletePayload{JobID: s.jobID},
		})
	}
}

type busPublisher struct {
	bus   *eventbus.InMemoryBus
	jobID string
}

func (p busPublisher) Publish(e fragment.TileEvent) {
	p.bus.Publish(&eventbus.Event{
		Topic:   eventbus.TopicTileAssembled,
		Key:     p.jobID,
		Payload: eventbus.TileAssembledPayload{JobID: p.jobID, TileIndex: e.TileIndex},
	})
}
