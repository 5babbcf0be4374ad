package dsp

import "math"

// DefaultWaveNumber is the wave number K used by the engine unless a
// caller builds its own factory with MorletFactory.
const DefaultWaveNumber = 16.0

// WaveletFactory materialises a complex-valued wavelet kernel at a given
// centre frequency and sample rate. Transform calls a WaveletFactory once
// per frequency in the bank; it never inspects how the kernel was built.
type WaveletFactory func(frequencyHz float64, sampleRate int) Signal[complex128]

// MorletFactory returns a WaveletFactory generating Morlet wavelets with
// the given wave number. The kernel is a Gaussian-windowed complex
// sinusoid:
//
//	psi(t) = exp(-x(t)^2) * (cos(2*pi*f*t) + i*sin(2*pi*f*t))
//	x(t)   = f*t - halfLength,  halfLength = 2*waveNumber
//
// halfLength sets the envelope's support: the Gaussian is negligible
// outside [0, 2*halfLength/f], peaking at t = halfLength/f. The kernel is
// sampled over exactly that window, with ceil(2*halfLength/f*sampleRate)
// samples at 1/sampleRate spacing.
func MorletFactory(waveNumber float64) WaveletFactory {
	halfLength := 2 * waveNumber

	return func(frequencyHz float64, sampleRate int) Signal[complex128] {
		durationSeconds := 2 * halfLength / frequencyHz
		n := int(math.Ceil(durationSeconds * float64(sampleRate)))

		samples := make([]complex128, n)
		for i := range samples {
			t := float64(i) / float64(sampleRate)
			x := frequencyHz*t - halfLength
			envelope := math.Exp(-x * x)
			phase := 2 * math.Pi * frequencyHz * t
			samples[i] = complex(math.Cos(phase)*envelope, math.Sin(phase)*envelope)
		}

		return Signal[complex128]{SampleRate: sampleRate, Samples: samples}
	}
}
