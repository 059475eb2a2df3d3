package fractal

import (
	"frakt.systems/frakt/internal/complexnum"
	"frakt.systems/frakt/internal/wire"
)

// juliaKernel iterates z <- z^2 + c from z0 = (px, py), escaping when
// |z|^2 exceeds the descriptor's divergence threshold. zn and count are only
// updated after a successful (finite) iteration, so a pixel that escapes on
// its very first check keeps the zero value for both.
func juliaKernel(descriptor wire.FractalDescriptor, maxIteration uint16, resolution wire.Resolution, rng wire.Range) []wire.PixelIntensity {
	params := descriptor.Julia
	out := make([]wire.PixelIntensity, 0, int(resolution.NX)*int(resolution.NY))

	for y := uint16(0); y < resolution.NY; y++ {
		py := pixelCoord(y, resolution.NY, rng.Min.Y, rng.Max.Y)
		for x := uint16(0); x < resolution.NX; x++ {
			px := pixelCoord(x, resolution.NX, rng.Min.X, rng.Max.X)
			out = append(out, escapeTimePixel(complexnum.New(px, py), params.C, params.DivergenceThresholdSquare, maxIteration))
		}
	}
	return out
}

// mandelbrotKernel is the same recurrence as Julia with c = (px, py) taken
// as both the map constant and the starting point, and a fixed escape
// radius of 2 (threshold-squared 4.0).
func mandelbrotKernel(_ wire.FractalDescriptor, maxIteration uint16, resolution wire.Resolution, rng wire.Range) []wire.PixelIntensity {
	const escapeThresholdSquare = 4.0
	out := make([]wire.PixelIntensity, 0, int(resolution.NX)*int(resolution.NY))

	for y := uint16(0); y < resolution.NY; y++ {
		py := pixelCoord(y, resolution.NY, rng.Min.Y, rng.Max.Y)
		for x := uint16(0); x < resolution.NX; x++ {
			px := pixelCoord(x, resolution.NX, rng.Min.X, rng.Max.X)
			c := complexnum.New(px, py)
			out = append(out, escapeTimePixel(c, c, escapeThresholdSquare, maxIteration))
		}
	}
	return out
}

// escapeTimePixel runs the shared z <- z^2 + c escape-time recurrence
// starting from z0, stopping when z's squared norm exceeds
// divergenceThresholdSquare or the next update would be non-finite. It
// performs at most maxIteration+1 updates.
func escapeTimePixel(z0, c complexnum.Complex, divergenceThresholdSquare float64, maxIteration uint16) wire.PixelIntensity {
	z := z0
	var zn, count float64

	for i := 0; i <= int(maxIteration); i++ {
		if z.NormSquared() > divergenceThresholdSquare {
			break
		}
		next := z.Square().Add(c)
		if !next.IsFinite() {
			break
		}
		z = next
		zn = z.NormSquared() / divergenceThresholdSquare
		count = float64(i) / float64(maxIteration)
	}

	return wire.PixelIntensity{Zn: float32(zn), Count: float32(count)}
}
