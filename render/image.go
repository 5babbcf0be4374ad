package render

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"

	"gonum.org/v1/gonum/floats"

	"github.com/Pasqg/subtune/dsp"
)

// ErrEmptyMatrix is returned by Output when the matrix has no rows or
// its rows are empty.
var ErrEmptyMatrix = errors.New("render: matrix has no rows or columns")

// Options controls how a dsp.Matrix is rendered to an image.
type Options struct {
	ColorScheme         ColorScheme
	Resample            Strategy
	PixelsPerSecond     int
	PixelsPerFrequency  int
	PianoRoll           bool
}

// DefaultOptions returns sensible rendering defaults: a heat-map colour
// scheme, peak-hold time resampling, 100 pixel columns per second of
// audio, four pixels tall per frequency row, and no piano-roll gutter.
func DefaultOptions() Options {
	return Options{
		ColorScheme:        HeatMap,
		Resample:           ResampleMax,
		PixelsPerSecond:    100,
		PixelsPerFrequency: 4,
		PianoRoll:          false,
	}
}

const pianoRollGutterWidth = 24

// Output renders a transform matrix to an RGBA image. Row r of the
// matrix is drawn as the row of pixels for frequencies[r]; columns are
// compressed from sampleRate/PixelsPerSecond transform samples per pixel
// using opts.Resample, and coloured by opts.ColorScheme after peak
// normalisation across the whole image.
func Output(matrix dsp.Matrix, sampleRate int, frequencies []float64, opts Options) (*image.RGBA, error) {
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return nil, ErrEmptyMatrix
	}

	chunkSize := sampleRate / opts.PixelsPerSecond
	if chunkSize < 1 {
		chunkSize = 1
	}

	rows := len(matrix)
	cols := len(matrix[0]) / chunkSize
	if cols < 1 {
		cols = 1
	}

	gutter := 0
	if opts.PianoRoll {
		gutter = pianoRollGutterWidth
	}

	sampled := make([][]float64, rows)
	flat := make([]float64, 0, rows*cols)

	for r := 0; r < rows; r++ {
		row := make([]float64, cols)
		for c := 0; c < cols; c++ {
			offset := c * chunkSize
			end := offset + chunkSize
			if end > len(matrix[r]) {
				end = len(matrix[r])
			}
			count := end - offset
			if count < 1 {
				count = 1
			}

			var value float64
			for k := offset; k < end; k++ {
				value = opts.Resample(value, matrix[r][k], count)
			}
			row[c] = value
		}
		sampled[r] = row
		flat = append(flat, row...)
	}

	maxVal := floats.Max(flat)
	if maxVal == 0 {
		maxVal = 1
	}

	width := gutter + cols
	height := rows * opts.PixelsPerFrequency
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for r := 0; r < rows; r++ {
		for py := 0; py < opts.PixelsPerFrequency; py++ {
			y := r*opts.PixelsPerFrequency + py

			if opts.PianoRoll {
				drawGutterRow(img, y, gutter, frequencies[r])
			}

			for c := 0; c < cols; c++ {
				rr, gg, bb := opts.ColorScheme.Color(sampled[r][c] / maxVal)
				img.Set(gutter+c, y, color.RGBA{R: rr, G: gg, B: bb, A: 255})
			}
		}
	}

	return img, nil
}

func drawGutterRow(img *image.RGBA, y, gutter int, frequencyHz float64) {
	col := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if IsBlackKey(NoteClass(frequencyHz)) {
		col = color.RGBA{A: 255}
	}

	for x := 0; x < gutter; x++ {
		img.Set(x, y, col)
	}
}

// WritePNG encodes img as a PNG at path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}
