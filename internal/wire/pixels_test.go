package wire

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePixelsIsBigEndian(t *testing.T) {
	pixels := []PixelIntensity{
		{Zn: 0.5, Count: 0.25},
		{Zn: 1.0, Count: 0.0},
	}

	data := EncodePixels(pixels)
	require.Len(t, data, len(pixels)*bytesPerPixel)

	for i, p := range pixels {
		off := i * bytesPerPixel
		gotZn := math.Float32frombits(binary.BigEndian.Uint32(data[off : off+4]))
		gotCount := math.Float32frombits(binary.BigEndian.Uint32(data[off+4 : off+8]))
		assert.Equal(t, p.Zn, gotZn)
		assert.Equal(t, p.Count, gotCount)
	}
}

func TestDecodePixelsRoundTrip(t *testing.T) {
	pixels := []PixelIntensity{
		{Zn: 0.018979378, Count: 1.0},
		{Zn: 0, Count: 0},
	}

	decoded, err := DecodePixels(EncodePixels(pixels))
	require.NoError(t, err)
	assert.Equal(t, pixels, decoded)
}

func TestDecodePixelsRejectsPartialChunks(t *testing.T) {
	_, err := DecodePixels([]byte{1, 2, 3})
	assert.Error(t, err)
}
