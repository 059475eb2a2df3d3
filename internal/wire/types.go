// Package wire defines the data model exchanged between the coordinator and
// its workers, and the framing codec that puts it on a TCP stream.
package wire

import "frakt.systems/frakt/internal/complexnum"

// Point is a coordinate in the fractal plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Range is an axis-aligned rectangle with Min.X <= Max.X and Min.Y <= Max.Y.
type Range struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Resolution is the pixel dimensions of a tile. Both fields must be > 0.
type Resolution struct {
	NX uint16 `json:"nx"`
	NY uint16 `json:"ny"`
}

// U8Data is a view into the binary payload: count bytes starting at offset.
type U8Data struct {
	Offset uint32 `json:"offset"`
	Count  uint32 `json:"count"`
}

// PixelData describes where the pixel stream begins in the payload and how
// many pixels (not bytes) it carries.
type PixelData struct {
	Offset uint32 `json:"offset"`
	Count  uint32 `json:"count"`
}

// PixelIntensity is a kernel's output at one pixel.
type PixelIntensity struct {
	Zn    float32 `json:"zn"`
	Count float32 `json:"count"`
}

// identificationBytes is the fixed 16-byte leading payload of every
// FragmentTask, echoed by workers as the leading bytes of their result.
var identificationBytes = [16]byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x6A, 0x87, 0x9C, 0xFA, 0xB3, 0x9B, 0x6F, 0xD4,
}

// Identification returns a copy of the coordinator's fixed identification
// bytes. Callers must not rely on the returned slice's backing array being
// shared across calls.
func Identification() []byte {
	out := make([]byte, len(identificationBytes))
	copy(out, identificationBytes[:])
	return out
}

// ─── Fractal descriptors ────────────────────────────────────────────────────

// FractalKind names the closed set of descriptor variants. The value is also
// the JSON tag used on the wire.
type FractalKind string

const (
	KindJulia               FractalKind = "Julia"
	KindMandelbrot          FractalKind = "Mandelbrot"
	KindIteratedSinZ        FractalKind = "IteratedSinZ"
	KindNewtonRaphsonZ3     FractalKind = "NewtonRaphsonZ3"
	KindNewtonRaphsonZ4     FractalKind = "NewtonRaphsonZ4"
	KindNovaNewtonRaphsonZ3 FractalKind = "NovaNewtonRaphsonZ3"
	KindNovaNewtonRaphsonZ4 FractalKind = "NovaNewtonRaphsonZ4"
)

// JuliaParams carries the Julia set's constant and escape threshold.
type JuliaParams struct {
	C                         complexnum.Complex `json:"c"`
	DivergenceThresholdSquare float64            `json:"divergence_threshold_square"`
}

// IteratedSinZParams carries the multiplier used by the sin(z)*c recurrence.
type IteratedSinZParams struct {
	C complexnum.Complex `json:"c"`
}

// FractalDescriptor is the tagged variant over the seven supported fractal
// families. Kind selects which of the *Params fields is meaningful; the
// remaining fields are zero. Mandelbrot and the Newton/Nova variants carry no
// parameters of their own (empty object on the wire).
type FractalDescriptor struct {
	Kind         FractalKind         `json:"-"`
	Julia        *JuliaParams        `json:"-"`
	IteratedSinZ *IteratedSinZParams `json:"-"`
}

// ─── Messages ───────────────────────────────────────────────────────────────

// FragmentRequest is issued by a worker asking for work.
type FragmentRequest struct {
	WorkerName      string `json:"worker_name"`
	MaximalWorkLoad uint32 `json:"maximal_work_load"`
}

// FragmentTask is issued by the coordinator describing one tile to render.
type FragmentTask struct {
	ID           U8Data            `json:"id"`
	MaxIteration uint16            `json:"max_iteration"`
	Resolution   Resolution        `json:"resolution"`
	Range        Range             `json:"range"`
	Fractal      FractalDescriptor `json:"fractal"`
}

// FragmentResult is returned by a worker carrying the computed tile.
type FragmentResult struct {
	ID         U8Data     `json:"id"`
	Resolution Resolution `json:"resolution"`
	Range      Range      `json:"range"`
	Pixels     PixelData  `json:"pixels"`
}

// MessageKind discriminates the Message tagged union.
type MessageKind int

const (
	KindFragmentRequest MessageKind = iota
	KindFragmentTask
	KindFragmentResult
)

// Message is the externally-tagged union carried as the JSON body of every
// wire frame: exactly one of the embedded pointers is non-nil, matching Kind.
type Message struct {
	Kind            MessageKind
	FragmentRequest *FragmentRequest
	FragmentTask    *FragmentTask
	FragmentResult  *FragmentResult
}
