package fractal

import (
	"frakt.systems/frakt/internal/complexnum"
	"frakt.systems/frakt/internal/wire"
)

const iteratedSinZEscapeThresholdSquare = 50.0

// iteratedSinZKernel iterates z <- sin(z) * c, escaping when |z|^2 > 50.
func iteratedSinZKernel(descriptor wire.FractalDescriptor, maxIteration uint16, resolution wire.Resolution, rng wire.Range) []wire.PixelIntensity {
	c := descriptor.IteratedSinZ.C
	out := make([]wire.PixelIntensity, 0, int(resolution.NX)*int(resolution.NY))

	for y := uint16(0); y < resolution.NY; y++ {
		py := pixelCoord(y, resolution.NY, rng.Min.Y, rng.Max.Y)
		for x := uint16(0); x < resolution.NX; x++ {
			px := pixelCoord(x, resolution.NX, rng.Min.X, rng.Max.X)
			z := complexnum.New(px, py)
			var zn, count float64

			for i := 0; i <= int(maxIteration); i++ {
				if z.NormSquared() > iteratedSinZEscapeThresholdSquare {
					break
				}
				next := z.Sin().Mul(c)
				if !next.IsFinite() {
					break
				}
				z = next
				zn = z.NormSquared() / iteratedSinZEscapeThresholdSquare
				count = float64(i) / float64(maxIteration)
			}

			out = append(out, wire.PixelIntensity{Zn: float32(zn), Count: float32(count)})
		}
	}
	return out
}
