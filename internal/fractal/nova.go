package fractal

import (
	"frakt.systems/frakt/internal/complexnum"
	"frakt.systems/frakt/internal/wire"
)

// novaRoot runs z <- z - p(z)/p'(z) + c from z0 = 1+0i, where c is the
// pixel's plane coordinate rather than the starting point.
func novaRoot(c complexnum.Complex, maxIteration uint16, step func(complexnum.Complex) complexnum.Complex) int {
	z := complexnum.New(1, 0)
	i := 0
	for i < int(maxIteration) {
		next := step(z).Add(c)
		if !next.IsFinite() {
			break
		}
		deltaSq := next.Sub(z).NormSquared()
		z = next
		i++
		if deltaSq < newtonConvergenceEpsilonSquare {
			break
		}
	}
	return i
}

func novaNewtonRaphsonZ3Kernel(_ wire.FractalDescriptor, maxIteration uint16, resolution wire.Resolution, rng wire.Range) []wire.PixelIntensity {
	one := complexnum.New(1, 0)
	three := complexnum.New(3, 0)
	out := make([]wire.PixelIntensity, 0, int(resolution.NX)*int(resolution.NY))

	for y := uint16(0); y < resolution.NY; y++ {
		py := pixelCoord(y, resolution.NY, rng.Min.Y, rng.Max.Y)
		for x := uint16(0); x < resolution.NX; x++ {
			px := pixelCoord(x, resolution.NX, rng.Min.X, rng.Max.X)
			c := complexnum.New(px, py)

			i := novaRoot(c, maxIteration, func(z complexnum.Complex) complexnum.Complex {
				return z.Sub(z.Cube().Sub(one).Div(z.Square().Mul(three)))
			})

			count := float64(i) / float64(maxIteration)
			out = append(out, wire.PixelIntensity{Zn: 0, Count: float32(count)})
		}
	}
	return out
}

func novaNewtonRaphsonZ4Kernel(_ wire.FractalDescriptor, maxIteration uint16, resolution wire.Resolution, rng wire.Range) []wire.PixelIntensity {
	one := complexnum.New(1, 0)
	four := complexnum.New(4, 0)
	out := make([]wire.PixelIntensity, 0, int(resolution.NX)*int(resolution.NY))

	for y := uint16(0); y < resolution.NY; y++ {
		py := pixelCoord(y, resolution.NY, rng.Min.Y, rng.Max.Y)
		for x := uint16(0); x < resolution.NX; x++ {
			px := pixelCoord(x, resolution.NX, rng.Min.X, rng.Max.X)
			c := complexnum.New(px, py)

			i := novaRoot(c, maxIteration, func(z complexnum.Complex) complexnum.Complex {
				return z.Sub(z.Fourth().Sub(one).Div(z.Cube().Mul(four)))
			})

			count := float64(i) / float64(maxIteration)
			out = append(out, wire.PixelIntensity{Zn: 0, Count: float32(count)})
		}
	}
	return out
}
