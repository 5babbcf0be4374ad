// Package dsp implements the continuous wavelet transform engine: Morlet
// wavelet kernel generation, an in-house radix-2 FFT, a convolution
// dispatcher that picks between the direct and spectral algorithm by
// operation count, and a parallel frequency-bank transform scheduler.
//
// The package is silent: it never logs. Transform reports every
// precondition violation through a returned error rather than a panic.
// The FFT primitives (FFTComplex, FFTReal, InverseFFT) panic when given a
// length that is not a power of two; Transform and Convolve always pad to
// a power of two before calling them.
package dsp
