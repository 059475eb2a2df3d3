package fragment

import (
	"bytes"
	"fmt"
	"sync/atomic"

	"frakt.systems/frakt/internal/raster"
	"frakt.systems/frakt/internal/wire"
)

// TileEvent describes one tile landing in the raster, published to whatever
// EventPublisher the Assembler was built with.
type TileEvent struct {
	TileIndex int
	Complete  bool
}

// EventPublisher receives TileEvents as tiles are assembled. Implementations
// must not block for long; the assembler calls Publish synchronously.
type EventPublisher interface {
	Publish(event TileEvent)
}

// noopPublisher discards every event; it is the Assembler's default so
// callers that don't care about render events don't need a stub.
type noopPublisher struct{}

func (noopPublisher) Publish(TileEvent) {}

// MetricsRecorder observes assembled tiles and mismatched results. A nil
// recorder is valid; Assembler guards every call.
type MetricsRecorder interface {
	ObserveTileAssembled()
	ObserveIdentificationMismatch()
}

// ExhaustionPolicy controls what TaskAt on a fully-exhausted Planner means
// for NextTask: Close ends the connection, Wrap restarts the tile sequence
// from zero.
type ExhaustionPolicy int

const (
	// ExhaustionClose reports no more tasks once the grid is exhausted.
	ExhaustionClose ExhaustionPolicy = iota
	// ExhaustionWrap restarts the tile sequence from index 0.
	ExhaustionWrap
)

// Assembler tracks the coordinator's position through a Planner's tile
// sequence, validates returned results, and writes them into a shared
// Raster. One Assembler is shared across every connection the coordinator
// services: NextTask's cursor advance is atomic, so concurrent connections
// each claim a distinct tile index, and Accept's writes land in the same
// Raster under its own lock.
type Assembler struct {
	planner  *Planner
	raster   *raster.Raster
	policy   ExhaustionPolicy
	events   EventPublisher
	metrics  MetricsRecorder
	cursor   int64
	gridCols int
}

// NewAssembler builds an Assembler over planner's tile sequence, writing
// assembled tiles into out. gridCols is the planner's grid width in tiles,
// used to translate a tile index into the raster's pixel coordinates.
func NewAssembler(planner *Planner, out *raster.Raster, policy ExhaustionPolicy) *Assembler {
	return &Assembler{
		planner:  planner,
		raster:   out,
		policy:   policy,
		events:   noopPublisher{},
		gridCols: GridSize,
	}
}

// WithEvents attaches an EventPublisher, replacing the default no-op.
func (a *Assembler) WithEvents(p EventPublisher) *Assembler {
	a.events = p
	return a
}

// WithMetrics attaches a MetricsRecorder.
func (a *Assembler) WithMetrics(m MetricsRecorder) *Assembler {
	a.metrics = m
	return a
}

// NextTask returns the next FragmentTask, the tile index it corresponds to
// (pass this back into Accept), and advances the cursor shared by every
// connection. ok is false once the grid is exhausted under
// ExhaustionClose; under ExhaustionWrap the cursor resets to 0 instead of
// ever returning false.
func (a *Assembler) NextTask() (wire.FragmentTask, int, bool) {
	k := int(atomic.AddInt64(&a.cursor, 1) - 1)
	task, ok := a.planner.TaskAt(k)
	if ok {
		return task, k, true
	}

	if a.policy == ExhaustionClose {
		return wire.FragmentTask{}, 0, false
	}

	atomic.StoreInt64(&a.cursor, 1)
	task, ok = a.planner.TaskAt(0)
	return task, 0, ok
}

// Accept validates a worker's FragmentResult payload against the expected
// identification bytes, decodes its pixel stream, and writes it into the
// shared raster at tileIndex's position. It returns an error describing a
// protocol violation (wrong identification, short payload, malformed pixel
// stream) without writing anything to the raster.
func (a *Assembler) Accept(tileIndex int, result wire.FragmentResult, payload []byte) error {
	const idLen = 16

	if len(payload) < idLen {
		a.recordMismatch()
		return fmt.Errorf("fragment: result payload is %d bytes, shorter than the %d-byte identification", len(payload), idLen)
	}

	if !bytes.Equal(payload[:idLen], wire.Identification()) {
		a.recordMismatch()
		return fmt.Errorf("fragment: result identification does not match the coordinator's")
	}

	pixels, err := wire.DecodePixels(payload[idLen:])
	if err != nil {
		a.recordMismatch()
		return fmt.Errorf("fragment: decoding result pixels: %w", err)
	}

	row := tileIndex / a.gridCols
	col := tileIndex % a.gridCols
	originX := col * int(result.Resolution.NX)
	originY := row * int(result.Resolution.NY)

	if err := a.raster.WriteTile(originX, originY, result.Resolution, pixels); err != nil {
		return fmt.Errorf("fragment: writing tile %d: %w", tileIndex, err)
	}

	if a.metrics != nil {
		a.metrics.ObserveTileAssembled()
	}
	a.events.Publish(TileEvent{TileIndex: tileIndex, Complete: a.raster.Complete()})

	return nil
}

func (a *Assembler) recordMismatch() {
	if a.metrics != nil {
		a.metrics.ObserveIdentificationMismatch()
	}
}
