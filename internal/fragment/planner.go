// Package fragment implements the tile planner and the result assembler:
// enumerating FragmentTasks over the image plane and writing returned
// payloads back into the output raster.
package fragment

import (
	"frakt.systems/frakt/internal/complexnum"
	"frakt.systems/frakt/internal/wire"
)

// GridSize is the fixed tile grid: 4 columns by 4 rows.
const GridSize = 4

// DefaultJob is the single job description the planner currently supports:
// a GridSize x GridSize grid over [-1.2, 1.2] x [-1.2, 1.2], 300x300 px per
// tile, rendered with the Julia set c = 0.285 + 0.013i.
var DefaultJob = JobConfig{
	PlaneMin:     wire.Point{X: -1.2, Y: -1.2},
	PlaneMax:     wire.Point{X: 1.2, Y: 1.2},
	TileNX:       300,
	TileNY:       300,
	MaxIteration: 64,
	Fractal: wire.FractalDescriptor{
		Kind: wire.KindJulia,
		Julia: &wire.JuliaParams{
			C:                         complexnum.New(0.285, 0.013),
			DivergenceThresholdSquare: 4.0,
		},
	},
}

// JobConfig describes the render job the planner partitions into tiles.
type JobConfig struct {
	PlaneMin     wire.Point
	PlaneMax     wire.Point
	TileNX       uint16
	TileNY       uint16
	MaxIteration uint16
	Fractal      wire.FractalDescriptor
}

// TileCount returns the total number of tiles in the job's grid.
func (j JobConfig) TileCount() int {
	return GridSize * GridSize
}

// Planner is a stateless enumerator of FragmentTasks over a JobConfig's
// grid. Tile k occupies row k/GridSize, column k%GridSize.
type Planner struct {
	job JobConfig
}

// NewPlanner builds a Planner for job.
func NewPlanner(job JobConfig) *Planner {
	return &Planner{job: job}
}

// Job returns the planner's job configuration.
func (p *Planner) Job() JobConfig {
	return p.job
}

// TaskAt returns the FragmentTask for tile index k, and whether k falls
// within the grid (false once the job is exhausted).
func (p *Planner) TaskAt(k int) (wire.FragmentTask, bool) {
	if k < 0 || k >= p.job.TileCount() {
		return wire.FragmentTask{}, false
	}

	row := k / GridSize
	col := k % GridSize

	planeWidth := p.job.PlaneMax.X - p.job.PlaneMin.X
	planeHeight := p.job.PlaneMax.Y - p.job.PlaneMin.Y
	tileWidth := planeWidth / GridSize
	tileHeight := planeHeight / GridSize

	minX := p.job.PlaneMin.X + float64(col)*tileWidth
	minY := p.job.PlaneMin.Y + float64(row)*tileHeight

	task := wire.FragmentTask{
		ID:           wire.U8Data{Offset: 0, Count: 16},
		MaxIteration: p.job.MaxIteration,
		Resolution:   wire.Resolution{NX: p.job.TileNX, NY: p.job.TileNY},
		Range: wire.Range{
			Min: wire.Point{X: minX, Y: minY},
			Max: wire.Point{X: minX + tileWidth, Y: minY + tileHeight},
		},
		Fractal: p.job.Fractal,
	}
	return task, true
}
