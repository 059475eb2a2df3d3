// Package complexnum implements the complex-number value type used by the
// fractal compute kernels. It is deliberately allocation-free: every
// operation returns a new value on the stack, never mutates its receiver,
// and carries no hidden state.
package complexnum

import "math"

// Complex is a point in the complex plane, re + im*i.
type Complex struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

// New builds a Complex from its real and imaginary parts.
func New(re, im float64) Complex {
	return Complex{Re: re, Im: im}
}

// Add returns c + other.
func (c Complex) Add(other Complex) Complex {
	return Complex{Re: c.Re + other.Re, Im: c.Im + other.Im}
}

// Sub returns c - other.
func (c Complex) Sub(other Complex) Complex {
	return Complex{Re: c.Re - other.Re, Im: c.Im - other.Im}
}

// Mul returns c * other.
func (c Complex) Mul(other Complex) Complex {
	return Complex{
		Re: c.Re*other.Re - c.Im*other.Im,
		Im: c.Re*other.Im + c.Im*other.Re,
	}
}

// Div returns c / other.
func (c Complex) Div(other Complex) Complex {
	denom := other.Re*other.Re + other.Im*other.Im
	return Complex{
		Re: (c.Re*other.Re + c.Im*other.Im) / denom,
		Im: (c.Im*other.Re - c.Re*other.Im) / denom,
	}
}

// Square returns c^2.
func (c Complex) Square() Complex {
	return Complex{
		Re: c.Re*c.Re - c.Im*c.Im,
		Im: 2 * c.Re * c.Im,
	}
}

// Cube returns c^3.
func (c Complex) Cube() Complex {
	return Complex{
		Re: c.Re * (c.Re*c.Re - 3*c.Im*c.Im),
		Im: c.Im * (3*c.Re*c.Re - c.Im*c.Im),
	}
}

// Fourth returns c^4.
func (c Complex) Fourth() Complex {
	return c.Square().Square()
}

// Pow returns c^n for n >= 0 by repeated multiplication.
func (c Complex) Pow(n uint) Complex {
	result := Complex{Re: 1, Im: 0}
	for i := uint(0); i < n; i++ {
		result = result.Mul(c)
	}
	return result
}

// Sin returns sin(c) = sin(re)*cosh(im) + i*cos(re)*sinh(im).
func (c Complex) Sin() Complex {
	return Complex{
		Re: math.Sin(c.Re) * math.Cosh(c.Im),
		Im: math.Cos(c.Re) * math.Sinh(c.Im),
	}
}

// Norm returns |c|.
func (c Complex) Norm() float64 {
	return math.Sqrt(c.NormSquared())
}

// NormSquared returns |c|^2, i.e. re^2 + im^2.
func (c Complex) NormSquared() float64 {
	return c.Re*c.Re + c.Im*c.Im
}

// Arg returns atan2(im, re).
func (c Complex) Arg() float64 {
	return math.Atan2(c.Im, c.Re)
}

// IsFinite reports whether both components are finite (not NaN or +-Inf).
func (c Complex) IsFinite() bool {
	return !math.IsNaN(c.Re) && !math.IsInf(c.Re, 0) &&
		!math.IsNaN(c.Im) && !math.IsInf(c.Im, 0)
}
