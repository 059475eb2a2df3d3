package raster

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frakt.systems/frakt/internal/wire"
)

func TestWriteTilePlacesPixelsAtOrigin(t *testing.T) {
	r := New(4, 4)
	tile := []wire.PixelIntensity{
		{Zn: 0.1, Count: 1}, {Zn: 0.2, Count: 1},
		{Zn: 0.3, Count: 1}, {Zn: 0.4, Count: 1},
	}

	require.NoError(t, r.WriteTile(2, 2, wire.Resolution{NX: 2, NY: 2}, tile))
	assert.False(t, r.Complete())

	img := r.Image()
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())

	first, last := img.RGBAAt(2, 2), img.RGBAAt(3, 3)
	assert.Equal(t, color(phase(0.1)), [3]uint8{first.R, first.G, first.B})
	assert.Equal(t, color(phase(0.4)), [3]uint8{last.R, last.G, last.B})
}

func TestCompleteOnceEveryPixelWritten(t *testing.T) {
	r := New(2, 2)
	tile := []wire.PixelIntensity{{}, {}, {}, {}}
	require.NoError(t, r.WriteTile(0, 0, wire.Resolution{NX: 2, NY: 2}, tile))
	assert.True(t, r.Complete())
}

func TestWriteTileRejectsMismatchedPixelCount(t *testing.T) {
	r := New(4, 4)
	err := r.WriteTile(0, 0, wire.Resolution{NX: 2, NY: 2}, []wire.PixelIntensity{{}})
	assert.Error(t, err)
}

func TestWriterSinkProducesValidPNG(t *testing.T) {
	r := New(2, 2)
	require.NoError(t, r.WriteTile(0, 0, wire.Resolution{NX: 2, NY: 2}, []wire.PixelIntensity{{}, {}, {}, {}}))

	var buf bytes.Buffer
	require.NoError(t, WriterSink{W: &buf}.Write(r))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
}

func TestColorChannelsAreClamped(t *testing.T) {
	for _, t64 := range []float64{0, 0.25, 0.5, 0.75, 0.999} {
		rgb := color(t64)
		for _, c := range rgb {
			assert.GreaterOrEqual(t, c, uint8(0))
		}
	}
}

func TestPhaseWrapsIntoUnitInterval(t *testing.T) {
	assert.InDelta(t, 0.5, phase(0), 1e-6)
	p := phase(1.0)
	assert.GreaterOrEqual(t, p, 0.0)
	assert.Less(t, p, 1.0)
}
