package dsp

import (
	"math"
	"testing"
)

func TestComplexArithmetic(t *testing.T) {
	a := complex(1, 2)
	b := complex(3, -1)

	if got := ComplexAdd(a, b); got != complex(4, 1) {
		t.Errorf("ComplexAdd(%v, %v) = %v, want %v", a, b, got, complex(4, 1))
	}

	if got := ComplexSub(a, b); got != complex(-2, 3) {
		t.Errorf("ComplexSub(%v, %v) = %v, want %v", a, b, got, complex(-2, 3))
	}

	if got := ComplexMul(a, b); got != complex(5, 5) {
		t.Errorf("ComplexMul(%v, %v) = %v, want %v", a, b, got, complex(5, 5))
	}

	if got := ComplexScale(a, 2); got != complex(2, 4) {
		t.Errorf("ComplexScale(%v, 2) = %v, want %v", a, got, complex(2, 4))
	}
}

func TestComplexAbs(t *testing.T) {
	if got, want := ComplexAbs(complex(3, 4)), 5.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("ComplexAbs(3+4i) = %v, want %v", got, want)
	}
}
