package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

const bytesPerPixel = 8 // two big-endian float32s: zn, count

// EncodePixels serializes a row-major slice of PixelIntensity into the
// big-endian byte stream used as the pixel portion of a FragmentResult
// payload (zn first, then count, per pixel).
func EncodePixels(pixels []PixelIntensity) []byte {
	out := make([]byte, len(pixels)*bytesPerPixel)
	for i, p := range pixels {
		off := i * bytesPerPixel
		binary.BigEndian.PutUint32(out[off:off+4], math.Float32bits(p.Zn))
		binary.BigEndian.PutUint32(out[off+4:off+8], math.Float32bits(p.Count))
	}
	return out
}

// DecodePixels parses a big-endian pixel stream back into PixelIntensity
// values. It errors if data is not an exact multiple of 8 bytes.
func DecodePixels(data []byte) ([]PixelIntensity, error) {
	if len(data)%bytesPerPixel != 0 {
		return nil, fmt.Errorf("wire: pixel stream length %d is not a multiple of %d", len(data), bytesPerPixel)
	}
	n := len(data) / bytesPerPixel
	pixels := make([]PixelIntensity, n)
	for i := 0; i < n; i++ {
		off := i * bytesPerPixel
		pixels[i] = PixelIntensity{
			Zn:    math.Float32frombits(binary.BigEndian.Uint32(data[off : off+4])),
			Count: math.Float32frombits(binary.BigEndian.Uint32(data[off+4 : off+8])),
		}
	}
	return pixels, nil
}
