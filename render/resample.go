package render

import "math/cmplx"

// Strategy compresses partitionSize transform samples down to a single
// display value, folding one sample (value) into the running result
// (previous) at a time.
type Strategy func(previous float64, value complex128, partitionSize int) float64

// ResampleMax keeps the peak magnitude seen in the partition.
func ResampleMax(previous float64, value complex128, _ int) float64 {
	if m := cmplx.Abs(value); m > previous {
		return m
	}
	return previous
}

// ResampleAvg accumulates the mean magnitude over the partition.
func ResampleAvg(previous float64, value complex128, partitionSize int) float64 {
	return previous + cmplx.Abs(value)/float64(partitionSize)
}
