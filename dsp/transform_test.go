package dsp

import (
	"errors"
	"math"
	"math/cmplx"
	"sync"
	"testing"
)

func TestTransformRejectsInvalidSampleRate(t *testing.T) {
	signal := Signal[float64]{SampleRate: 0, Samples: []float64{1, 2, 3}}

	_, err := Transform(signal, MorletFactory(DefaultWaveNumber), []float64{440}, 1)
	if !errors.Is(err, ErrInvalidSampleRate) {
		t.Errorf("err = %v, want ErrInvalidSampleRate", err)
	}
}

func TestTransformRejectsEmptyFrequencies(t *testing.T) {
	signal := Signal[float64]{SampleRate: 44100, Samples: []float64{1, 2, 3}}

	_, err := Transform(signal, MorletFactory(DefaultWaveNumber), nil, 1)
	if !errors.Is(err, ErrEmptyFrequencies) {
		t.Errorf("err = %v, want ErrEmptyFrequencies", err)
	}
}

func TestTransformRejectsNonPositiveFrequency(t *testing.T) {
	signal := Signal[float64]{SampleRate: 44100, Samples: []float64{1, 2, 3}}

	_, err := Transform(signal, MorletFactory(DefaultWaveNumber), []float64{440, 0, -10}, 1)
	if !errors.Is(err, ErrNonPositiveFrequency) {
		t.Errorf("err = %v, want ErrNonPositiveFrequency", err)
	}
}

func TestTransformEmptySignalYieldsEmptyRows(t *testing.T) {
	signal := Signal[float64]{SampleRate: 44100, Samples: nil}

	matrix, err := Transform(signal, MorletFactory(DefaultWaveNumber), []float64{440, 880}, 2)
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}

	if len(matrix) != 2 {
		t.Fatalf("len(matrix) = %d, want 2", len(matrix))
	}

	for i, row := range matrix {
		if len(row) != 0 {
			t.Errorf("row %d len = %d, want 0", i, len(row))
		}
	}
}

func TestTransformShapeAndRowOrder(t *testing.T) {
	signal := NewSignalFromFunc(0.05, 8000, func(t float64) float64 { return 1 })
	frequencies := []float64{220, 440, 880}

	matrix, err := Transform(signal, MorletFactory(DefaultWaveNumber), frequencies, 4)
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}

	if len(matrix) != len(frequencies) {
		t.Fatalf("len(matrix) = %d, want %d", len(matrix), len(frequencies))
	}

	for i, row := range matrix {
		if len(row) != len(signal.Samples) {
			t.Errorf("row %d len = %d, want %d", i, len(row), len(signal.Samples))
		}
	}
}

// TestTransformDeterministicAcrossWorkerCounts checks that the scheduling
// order (highest frequency first, chunked across workers) never changes
// the numeric result of a row, only the order rows are computed in.
func TestTransformDeterministicAcrossWorkerCounts(t *testing.T) {
	signal := NewSignalFromFunc(0.05, 8000, func(t float64) float64 { return t * t })
	frequencies := []float64{110, 220, 440, 880, 1760}

	single, err := Transform(signal, MorletFactory(DefaultWaveNumber), frequencies, 1)
	if err != nil {
		t.Fatalf("Transform(workers=1) returned error: %v", err)
	}

	parallel, err := Transform(signal, MorletFactory(DefaultWaveNumber), frequencies, 8)
	if err != nil {
		t.Fatalf("Transform(workers=8) returned error: %v", err)
	}

	for row := range single {
		for col := range single[row] {
			if !complexAlmostEqual(single[row][col], parallel[row][col]) {
				t.Errorf("row %d col %d: workers=1 got %v, workers=8 got %v",
					row, col, single[row][col], parallel[row][col])
			}
		}
	}
}

func TestTransformRowMatchesDirectConvolve(t *testing.T) {
	signal := NewSignalFromFunc(0.02, 4000, func(t float64) float64 { return t })
	frequencies := []float64{500}

	matrix, err := Transform(signal, MorletFactory(DefaultWaveNumber), frequencies, 1)
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}

	kernel := MorletFactory(DefaultWaveNumber)(500, signal.SampleRate).Samples
	want := Convolve(signal.Samples, kernel)

	row := matrix[0]
	for i := range row {
		if !complexAlmostEqual(row[i], want[i]) {
			t.Errorf("row[%d] = %v, want %v", i, row[i], want[i])
		}
	}
}

func TestPartitionJobsCoversAllAndCapsWorkers(t *testing.T) {
	jobs := make([]transformJob, 10)
	for i := range jobs {
		jobs[i] = transformJob{rowIndex: i, frequencyHz: float64(i)}
	}

	chunks := partitionJobs(jobs, 3)
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	if total != len(jobs) {
		t.Errorf("partitioned job count = %d, want %d", total, len(jobs))
	}
	if len(chunks) > 3 {
		t.Errorf("got %d chunks, want at most 3", len(chunks))
	}

	chunksOverWorkers := partitionJobs(jobs, 100)
	if len(chunksOverWorkers) != len(jobs) {
		t.Errorf("got %d chunks for 100 workers over %d jobs, want %d", len(chunksOverWorkers), len(jobs), len(jobs))
	}
}

// TestTransformSingleToneLocalisation runs the single-tone localisation
// scenario: a 1s, 2048Hz-rate 200Hz sine against a 1-500Hz bank of 2048
// bins should have its magnitude peak, at every time index, in the bin
// nearest 200Hz.
func TestTransformSingleToneLocalisation(t *testing.T) {
	const sampleRate = 2048
	const toneHz = 200.0
	const bins = 2048

	signal := NewSignalFromFunc(1.0, sampleRate, func(t float64) float64 {
		return math.Sin(2 * math.Pi * toneHz * t)
	})

	frequencies := make([]float64, bins)
	for i := range frequencies {
		frequencies[i] = 1 + float64(i)*(500-1)/float64(bins-1)
	}

	wantIdx := 0
	bestDiff := math.Abs(frequencies[0] - toneHz)
	for i, f := range frequencies {
		if d := math.Abs(f - toneHz); d < bestDiff {
			bestDiff = d
			wantIdx = i
		}
	}

	matrix, err := Transform(signal, MorletFactory(DefaultWaveNumber), frequencies, 4)
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}

	for col := 0; col < len(signal.Samples); col++ {
		peakIdx := 0
		peakMag := cmplx.Abs(matrix[0][col])
		for row := 1; row < len(matrix); row++ {
			if m := cmplx.Abs(matrix[row][col]); m > peakMag {
				peakMag = m
				peakIdx = row
			}
		}

		if peakIdx != wantIdx {
			t.Errorf("time index %d: peak bin = %d (%.3f Hz), want %d (%.3f Hz)",
				col, peakIdx, frequencies[peakIdx], wantIdx, frequencies[wantIdx])
		}
	}
}

func TestTransformWithProgressCallsObserverForEveryRow(t *testing.T) {
	signal := NewSignalFromFunc(0.03, 8000, func(t float64) float64 { return t })
	frequencies := []float64{220, 440, 880}

	var mu sync.Mutex
	seen := make(map[int]bool)

	matrix, err := TransformWithProgress(signal, MorletFactory(DefaultWaveNumber), frequencies, 4,
		func(rowIndex int, frequencyHz float64, row []complex128) {
			mu.Lock()
			defer mu.Unlock()
			seen[rowIndex] = true
			if len(row) != len(signal.Samples) {
				t.Errorf("observed row %d has len %d, want %d", rowIndex, len(row), len(signal.Samples))
			}
		})
	if err != nil {
		t.Fatalf("TransformWithProgress returned error: %v", err)
	}

	if len(seen) != len(frequencies) {
		t.Errorf("observer saw %d distinct rows, want %d", len(seen), len(frequencies))
	}

	for i := range matrix {
		if !seen[i] {
			t.Errorf("observer never saw row %d", i)
		}
	}
}
