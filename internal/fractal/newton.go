package fractal

import (
	"math"

	"frakt.systems/frakt/internal/complexnum"
	"frakt.systems/frakt/internal/wire"
)

const newtonConvergenceEpsilonSquare = 1e-6

// newtonRoot runs Newton-Raphson's z <- z - p(z)/p'(z) from z0 until the
// squared step size drops below epsilon or the iteration cap is reached,
// returning the final z and the number of iterations performed.
func newtonRoot(z0 complexnum.Complex, maxIteration uint16, step func(complexnum.Complex) complexnum.Complex) (complexnum.Complex, int) {
	z := z0
	i := 0
	for i < int(maxIteration) {
		next := step(z)
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
	return z, i
}

func newtonRaphsonZ3Kernel(_ wire.FractalDescriptor, maxIteration uint16, resolution wire.Resolution, rng wire.Range) []wire.PixelIntensity {
	one := complexnum.New(1, 0)
	three := complexnum.New(3, 0)
	out := make([]wire.PixelIntensity, 0, int(resolution.NX)*int(resolution.NY))

	for y := uint16(0); y < resolution.NY; y++ {
		py := pixelCoord(y, resolution.NY, rng.Min.Y, rng.Max.Y)
		for x := uint16(0); x < resolution.NX; x++ {
			px := pixelCoord(x, resolution.NX, rng.Min.X, rng.Max.X)
			z0 := complexnum.New(px, py)

			z, i := newtonRoot(z0, maxIteration, func(z complexnum.Complex) complexnum.Complex {
				return z.Sub(z.Cube().Sub(one).Div(z.Square().Mul(three)))
			})

			zn := 0.5 + z.Arg()/(2*math.Pi)
			count := float64(i) / float64(maxIteration)
			out = append(out, wire.PixelIntensity{Zn: float32(zn), Count: float32(count)})
		}
	}
	return out
}

func newtonRaphsonZ4Kernel(_ wire.FractalDescriptor, maxIteration uint16, resolution wire.Resolution, rng wire.Range) []wire.PixelIntensity {
	one := complexnum.New(1, 0)
	four := complexnum.New(4, 0)
	out := make([]wire.PixelIntensity, 0, int(resolution.NX)*int(resolution.NY))

	for y := uint16(0); y < resolution.NY; y++ {
		py := pixelCoord(y, resolution.NY, rng.Min.Y, rng.Max.Y)
		for x := uint16(0); x < resolution.NX; x++ {
			px := pixelCoord(x, resolution.NX, rng.Min.X, rng.Max.X)
			z0 := complexnum.New(px, py)

			z, i := newtonRoot(z0, maxIteration, func(z complexnum.Complex) complexnum.Complex {
				return z.Sub(z.Fourth().Sub(one).Div(z.Cube().Mul(four)))
			})

			zn := 0.5 + z.Arg()/(2*math.Pi)
			count := float64(i) / float64(maxIteration)
			out = append(out, wire.PixelIntensity{Zn: float32(zn), Count: float32(count)})
		}
	}
	return out
}
