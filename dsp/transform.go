package dsp

import (
	"fmt"
	"sort"
	"sync"
)

// Matrix is the output of Transform: one row per frequency in the bank,
// in the caller's original order, each row the same length as the input
// signal.
type Matrix [][]complex128

// Transform computes the continuous wavelet transform of signal against
// every frequency in frequencies, using factory to materialise each
// frequency's kernel.
//
// The signal's spectrum is computed once, zero-padded to cover the
// widest kernel actually produced across the bank. Each row is then a
// pointwise spectral multiply against that shared spectrum followed by
// an inverse FFT, trimmed to the valid region and scaled by
// 1/len(kernel) — the same contract as Convolve, but reusing the
// signal's FFT across every row instead of recomputing it.
//
// Rows are scheduled highest-frequency-first across workers goroutines,
// since the highest frequencies carry the cheapest (shortest) kernels;
// each worker writes directly into its row's slot, so the result is
// identical regardless of worker count.
func Transform(signal Signal[float64], factory WaveletFactory, frequencies []float64, workers int) (Matrix, error) {
	return transform(signal, factory, frequencies, workers, nil)
}

// RowObserver is notified as each row of a transform finishes, from
// whichever worker goroutine computed it. It must not retain the row
// slice without copying it.
type RowObserver func(rowIndex int, frequencyHz float64, row []complex128)

// TransformWithProgress behaves exactly like Transform, but additionally
// invokes onRow once per completed row — used by the CLI's live terminal
// and web views, which have no other way to observe a Transform call in
// progress.
func TransformWithProgress(signal Signal[float64], factory WaveletFactory, frequencies []float64, workers int, onRow RowObserver) (Matrix, error) {
	return transform(signal, factory, frequencies, workers, onRow)
}

func transform(signal Signal[float64], factory WaveletFactory, frequencies []float64, workers int, onRow RowObserver) (Matrix, error) {
	if signal.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, signal.SampleRate)
	}

	if len(frequencies) == 0 {
		return nil, ErrEmptyFrequencies
	}

	for _, f := range frequencies {
		if f <= 0 {
			return nil, fmt.Errorf("%w: %v", ErrNonPositiveFrequency, f)
		}
	}

	if workers < 1 {
		workers = 1
	}

	n := len(signal.Samples)
	matrix := make(Matrix, len(frequencies))

	if n == 0 {
		for i := range matrix {
			matrix[i] = []complex128{}
		}
		return matrix, nil
	}

	// Kernels are materialised up front, once per frequency, rather than
	// assumed to shrink monotonically with frequency: a WaveletFactory is
	// a caller-supplied closure (see the WaveletFactory doc), and nothing
	// guarantees its widest kernel belongs to the lowest frequency. Taking
	// the true maximum here — instead of trusting minFreq — means a
	// nonconforming factory still gets a correctly sized shared spectrum
	// instead of having an oversized kernel silently truncated later.
	jobs := make([]transformJob, len(frequencies))
	maxKernelLen := 0
	for i, f := range frequencies {
		kernel := factory(f, signal.SampleRate).Samples
		if len(kernel) > maxKernelLen {
			maxKernelLen = len(kernel)
		}
		jobs[i] = transformJob{rowIndex: i, frequencyHz: f, kernel: kernel}
	}
	sort.Slice(jobs, func(a, b int) bool { return jobs[a].frequencyHz > jobs[b].frequencyHz })

	convLen := n + maxKernelLen - 1
	if convLen < n {
		convLen = n
	}
	paddedLen := NextPow2(convLen)

	paddedSignal := make([]float64, paddedLen)
	copy(paddedSignal, signal.Samples)
	signalSpectrum := FFTReal(paddedSignal)

	var wg sync.WaitGroup
	for _, chunk := range partitionJobs(jobs, workers) {
		wg.Add(1)
		go func(chunk []transformJob) {
			defer wg.Done()
			for _, job := range chunk {
				row := transformRow(job.kernel, signalSpectrum, paddedLen, n)
				matrix[job.rowIndex] = row
				if onRow != nil {
					onRow(job.rowIndex, job.frequencyHz, row)
				}
			}
		}(chunk)
	}
	wg.Wait()

	return matrix, nil
}

type transformJob struct {
	rowIndex    int
	frequencyHz float64
	kernel      []complex128
}

func transformRow(kernel []complex128, signalSpectrum []complex128, paddedLen, n int) []complex128 {
	m := len(kernel)

	row := make([]complex128, n)
	if m == 0 {
		return row
	}

	paddedKernel := make([]complex128, paddedLen)
	copy(paddedKernel, kernel)
	kernelSpectrum := FFTComplex(paddedKernel)

	product := make([]complex128, paddedLen)
	for i := range product {
		product[i] = signalSpectrum[i] * kernelSpectrum[i]
	}

	full := InverseFFT(product)
	scale := complex(1/float64(m), 0)
	start := m - 1

	for i := 0; i < n; i++ {
		idx := start + i
		if idx < len(full) {
			row[i] = full[idx] * scale
		}
	}

	return row
}

// partitionJobs splits jobs into at most workers contiguous chunks of
// approximately equal size, preserving order within each chunk.
func partitionJobs(jobs []transformJob, workers int) [][]transformJob {
	total := len(jobs)
	if workers > total {
		workers = total
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (total + workers - 1) / workers
	chunks := make([][]transformJob, 0, workers)

	for start := 0; start < total; start += chunkSize {
		end := start + chunkSize
		if end > total {
			end = total
		}
		chunks = append(chunks, jobs[start:end])
	}

	return chunks
}
