package fragment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frakt.systems/frakt/internal/wire"
)

func TestPlannerCoversTheWholeGridExactlyOnce(t *testing.T) {
	p := NewPlanner(DefaultJob)

	seen := make(map[wire.Range]bool)
	for k := 0; k < p.Job().TileCount(); k++ {
		task, ok := p.TaskAt(k)
		require.True(t, ok, "tile %d", k)
		assert.False(t, seen[task.Range], "tile %d duplicates a previous range", k)
		seen[task.Range] = true

		assert.Equal(t, uint16(300), task.Resolution.NX)
		assert.Equal(t, uint16(300), task.Resolution.NY)
		assert.Equal(t, uint16(64), task.MaxIteration)
		assert.Equal(t, wire.KindJulia, task.Fractal.Kind)
	}

	_, ok := p.TaskAt(p.Job().TileCount())
	assert.False(t, ok)
}

func TestPlannerTilesAreContiguous(t *testing.T) {
	p := NewPlanner(DefaultJob)

	first, _ := p.TaskAt(0)
	second, _ := p.TaskAt(1)
	assert.InDelta(t, first.Range.Max.X, second.Range.Min.X, 1e-12)
}

func TestPlannerRejectsNegativeIndex(t *testing.T) {
	p := NewPlanner(DefaultJob)
	_, ok := p.TaskAt(-1)
	assert.False(t, ok)
}
