// Package metrics implements Prometheus instrumentation for the render
// pipeline: tiles assembled, protocol mismatches, worker connections, and
// per-tile compute latency.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TilesAssembledTotal counts tiles successfully written into a raster.
	TilesAssembledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frakt_tiles_assembled_total",
		Help: "Total number of fragment results successfully assembled into a raster.",
	})

	// IdentificationMismatchesTotal counts results rejected for an
	// identification or payload mismatch.
	IdentificationMismatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frakt_identification_mismatches_total",
		Help: "Total number of fragment results rejected for a bad identification or payload.",
	})

	// ActiveConnections tracks worker connections currently being serviced.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "frakt_active_connections",
		Help: "Number of worker connections currently being serviced by the coordinator.",
	})

	// TileComputeSeconds measures kernel compute latency per tile on the
	// worker side.
	TileComputeSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "frakt_tile_compute_seconds",
			Help:    "Latency of computing one fragment task, by fractal kind.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// RendersCompletedTotal counts fully-assembled renders (every tile in the
	// grid written).
	RendersCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frakt_renders_completed_total",
		Help: "Total number of render jobs whose raster was fully assembled.",
	})
)

// AssemblerRecorder adapts the package-level counters to
// fragment.MetricsRecorder without internal/fragment importing this
// package directly.
type AssemblerRecorder struct{}

// ObserveTileAssembled increments TilesAssembledTotal.
func (AssemblerRecorder) ObserveTileAssembled() { TilesAssembledTotal.Inc() }

// ObserveIdentificationMismatch increments IdentificationMismatchesTotal.
func (AssemblerRecorder) ObserveIdentificationMismatch() { IdentificationMismatchesTotal.Inc() }
