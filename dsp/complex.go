package dsp

import "math/cmplx"

// ComplexAdd returns a + b.
func ComplexAdd(a, b complex128) complex128 {
	return a + b
}

// ComplexSub returns a - b.
func ComplexSub(a, b complex128) complex128 {
	return a - b
}

// ComplexMul returns a * b.
func ComplexMul(a, b complex128) complex128 {
	return a * b
}

// ComplexScale returns c scaled by the real factor s.
func ComplexScale(c complex128, s float64) complex128 {
	return c * complex(s, 0)
}

// ComplexAbs returns the magnitude of c.
func ComplexAbs(c complex128) float64 {
	return cmplx.Abs(c)
}
