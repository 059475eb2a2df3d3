package complexnum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddIsAssociative(t *testing.T) {
	a := New(1.5, -2.25)
	b := New(-0.75, 3.0)
	c := New(4.0, 1.0)

	left := a.Add(b).Add(c)
	right := a.Add(b.Add(c))

	assert.InDelta(t, right.Re, left.Re, 1e-9)
	assert.InDelta(t, right.Im, left.Im, 1e-9)
}

func TestMulIsCommutative(t *testing.T) {
	a := New(2.0, 3.0)
	b := New(-1.0, 0.5)

	assert.Equal(t, a.Mul(b), b.Mul(a))
}

func TestMulDistributesOverAdd(t *testing.T) {
	a := New(1.0, 2.0)
	b := New(3.0, -1.0)
	c := New(-2.0, 0.5)

	left := a.Mul(b.Add(c))
	right := a.Mul(b).Add(a.Mul(c))

	assert.InDelta(t, right.Re, left.Re, 1e-9)
	assert.InDelta(t, right.Im, left.Im, 1e-9)
}

func TestSquareMatchesSelfMultiplication(t *testing.T) {
	a := New(0.285, 0.013)
	assert.Equal(t, a.Mul(a), a.Square())
}

func TestCubeMatchesSelfMultiplication(t *testing.T) {
	a := New(1.1, -0.4)
	assert.InDelta(t, a.Mul(a).Mul(a).Re, a.Cube().Re, 1e-9)
	assert.InDelta(t, a.Mul(a).Mul(a).Im, a.Cube().Im, 1e-9)
}

func TestPowMatchesRepeatedMultiplication(t *testing.T) {
	a := New(0.9, -0.3)
	for n := uint(0); n <= 8; n++ {
		expected := New(1, 0)
		for i := uint(0); i < n; i++ {
			expected = expected.Mul(a)
		}
		got := a.Pow(n)
		assert.InDelta(t, expected.Re, got.Re, 1e-9, "n=%d", n)
		assert.InDelta(t, expected.Im, got.Im, 1e-9, "n=%d", n)
	}
}

func TestNormSquaredMatchesNormSquared(t *testing.T) {
	a := New(3, 4)
	assert.Equal(t, 25.0, a.NormSquared())
	assert.Equal(t, 5.0, a.Norm())
}

func TestArgMatchesAtan2(t *testing.T) {
	a := New(0, 1)
	assert.InDelta(t, math.Pi/2, a.Arg(), 1e-12)
}

func TestDivIsInverseOfMul(t *testing.T) {
	a := New(2, 1)
	b := New(-1, 3)

	quotient := a.Mul(b).Div(b)
	assert.InDelta(t, a.Re, quotient.Re, 1e-9)
	assert.InDelta(t, a.Im, quotient.Im, 1e-9)
}

func TestIsFinite(t *testing.T) {
	assert.True(t, New(1, 1).IsFinite())
	assert.False(t, New(math.Inf(1), 0).IsFinite())
	assert.False(t, New(0, math.NaN()).IsFinite())
}
