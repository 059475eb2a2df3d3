// Package fractal implements the seven escape-time compute kernels: pure
// functions from (descriptor, max iteration, resolution, range) to a dense
// row-major array of per-pixel intensities.
package fractal

import (
	"fmt"
	"sync"

	"frakt.systems/frakt/internal/wire"
)

// Kernel computes one tile's worth of pixel intensities for a single
// fractal descriptor.
type Kernel func(descriptor wire.FractalDescriptor, maxIteration uint16, resolution wire.Resolution, rng wire.Range) []wire.PixelIntensity

var (
	registryMu sync.RWMutex
	registry   = map[wire.FractalKind]Kernel{}
)

func register(kind wire.FractalKind, k Kernel) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[kind] = k
}

// Lookup returns the kernel registered for kind, or an error if none is
// registered — the set of kinds is closed, so this should only happen for a
// FractalDescriptor built by hand rather than decoded off the wire.
func Lookup(kind wire.FractalKind) (Kernel, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	k, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("fractal: no kernel registered for %q", kind)
	}
	return k, nil
}

// Compute dispatches descriptor.Kind to its registered kernel and runs it.
func Compute(descriptor wire.FractalDescriptor, maxIteration uint16, resolution wire.Resolution, rng wire.Range) ([]wire.PixelIntensity, error) {
	k, err := Lookup(descriptor.Kind)
	if err != nil {
		return nil, err
	}
	return k(descriptor, maxIteration, resolution, rng), nil
}

// pixelCoord maps a pixel index to its plane coordinate. Note the absence of
// (n-1) normalization: the right/bottom edges stop one step short of
// range.max, by design, so the next tile's first column/row (at its own
// range.min, equal to this range.max) follows on without repeating one.
func pixelCoord(i, n uint16, lo, hi float64) float64 {
	return lo + (hi-lo)*(float64(i)/float64(n))
}

func init() {
	register(wire.KindJulia, juliaKernel)
	register(wire.KindMandelbrot, mandelbrotKernel)
	register(wire.KindIteratedSinZ, iteratedSinZKernel)
	register(wire.KindNewtonRaphsonZ3, newtonRaphsonZ3Kernel)
	register(wire.KindNewtonRaphsonZ4, newtonRaphsonZ4Kernel)
	register(wire.KindNovaNewtonRaphsonZ3, novaNewtonRaphsonZ3Kernel)
	register(wire.KindNovaNewtonRaphsonZ4, novaNewtonRaphsonZ4Kernel)
}
