package render

import "math"

// SemitoneGrid builds a frequency bank of count frequencies spaced by
// 1/divisionsPerSemitone of a semitone, starting at baseFrequencyHz.
// divisionsPerSemitone of 1 yields a chromatic scale.
func SemitoneGrid(baseFrequencyHz float64, count int, divisionsPerSemitone int) []float64 {
	frequencies := make([]float64, count)
	step := 12 * float64(divisionsPerSemitone)

	for i := range frequencies {
		frequencies[i] = baseFrequencyHz * math.Pow(2, float64(i)/step)
	}

	return frequencies
}
