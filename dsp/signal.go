package dsp

// Signal is a uniformly-sampled sequence of T, either float64 for a
// measured real-valued signal or complex128 for a wavelet kernel or a
// transform row.
type Signal[T any] struct {
	SampleRate int
	Samples    []T
}

// NewSignalFromFunc builds a Signal by sampling f at 1/sampleRate
// intervals over [0, durationSeconds). The sample count is
// floor(durationSeconds * sampleRate).
func NewSignalFromFunc[T any](durationSeconds float64, sampleRate int, f func(t float64) T) Signal[T] {
	n := int(durationSeconds * float64(sampleRate))
	samples := make([]T, n)

	for i := range samples {
		t := float64(i) / float64(sampleRate)
		samples[i] = f(t)
	}

	return Signal[T]{SampleRate: sampleRate, Samples: samples}
}
