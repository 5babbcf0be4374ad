package dsp

import "math"

// Convolve computes the valid region of the linear convolution of signal
// with kernel, scaled by 1/len(kernel), and selects the direct or
// spectral algorithm per a cost-model estimate of operation count. The
// result has the same length as signal.
//
// A zero-length kernel yields an all-zero result of len(signal); a
// zero-length signal yields an empty result.
func Convolve(signal []float64, kernel []complex128) []complex128 {
	n := len(signal)
	m := len(kernel)

	if n == 0 {
		return []complex128{}
	}

	if m == 0 {
		return make([]complex128, n)
	}

	full := dispatchFullConvolution(signal, kernel)

	out := make([]complex128, n)
	scale := complex(1/float64(m), 0)
	start := m - 1

	for i := 0; i < n; i++ {
		out[i] = full[start+i] * scale
	}

	return out
}

// dispatchFullConvolution picks between ConvolveDirect and
// ConvolveSpectral by comparing their estimated operation counts:
// spectral costs N*log2(N) where N is the next power of two covering the
// full convolution length, direct costs n*m.
func dispatchFullConvolution(signal []float64, kernel []complex128) []complex128 {
	n, m := len(signal), len(kernel)
	convLen := n + m - 1
	paddedLen := NextPow2(convLen)

	spectralCost := float64(paddedLen) * math.Log2(float64(paddedLen))
	directCost := float64(n) * float64(m)

	if spectralCost <= directCost {
		return ConvolveSpectral(signal, kernel)
	}

	return ConvolveDirect(signal, kernel)
}

// ConvolveDirect computes the full linear convolution of signal and
// kernel by direct summation, with length len(signal)+len(kernel)-1.
func ConvolveDirect(signal []float64, kernel []complex128) []complex128 {
	n, m := len(signal), len(kernel)
	out := make([]complex128, n+m-1)

	for k := range out {
		var sum complex128

		for j := 0; j < m; j++ {
			si := k - j
			if si >= 0 && si < n {
				sum += complex(signal[si], 0) * kernel[j]
			}
		}

		out[k] = sum
	}

	return out
}

// ConvolveSpectral computes the full linear convolution of signal and
// kernel by zero-padding both to the next power of two covering the
// result length, multiplying their spectra pointwise, and inverting.
func ConvolveSpectral(signal []float64, kernel []complex128) []complex128 {
	n, m := len(signal), len(kernel)
	convLen := n + m - 1
	paddedLen := NextPow2(convLen)

	paddedSignal := make([]float64, paddedLen)
	copy(paddedSignal, signal)

	paddedKernel := make([]complex128, paddedLen)
	copy(paddedKernel, kernel)

	signalSpectrum := FFTReal(paddedSignal)
	kernelSpectrum := FFTComplex(paddedKernel)

	product := make([]complex128, paddedLen)
	for i := range product {
		product[i] = signalSpectrum[i] * kernelSpectrum[i]
	}

	return InverseFFT(product)[:convLen]
}
