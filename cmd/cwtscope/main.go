// Command cwtscope runs a continuous wavelet transform over a WAV file
// and renders the result as a spectrogram PNG.
//
// Usage:
//
//	cwtscope [options] <input.wav> <output.png>
//
// Options:
//
//	-base          Base frequency of the semitone grid, in Hz (default 55)
//	-notes         Number of semitones in the grid (default 48)
//	-divisions     Frequency divisions per semitone (default 1)
//	-workers       Number of parallel workers (default: number of CPUs)
//	-wave-number   Morlet wave number K (default 16)
//	-piano-roll    Draw a piano-roll gutter alongside the spectrogram
//	-grayscale     Use the grayscale colour scheme instead of the heat map
//	-tui           Show a live terminal view while the transform runs
//	-web           Serve a live web view on the given port while it runs
//	-resample-to   Resample the input audio to this sample rate first (0 disables)
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Pasqg/subtune/cmd/cwtscope/tui"
	"github.com/Pasqg/subtune/cmd/cwtscope/web"
	"github.com/Pasqg/subtune/dsp"
	"github.com/Pasqg/subtune/internal/audiosrc"
	"github.com/Pasqg/subtune/pkg/resampler"
	"github.com/Pasqg/subtune/render"
)

var (
	baseFreq    = flag.Float64("base", 55, "Base frequency of the semitone grid, in Hz")
	notes       = flag.Int("notes", 48, "Number of semitones in the grid")
	divisions   = flag.Int("divisions", 1, "Frequency divisions per semitone")
	workers     = flag.Int("workers", runtime.NumCPU(), "Number of parallel workers")
	waveNumber  = flag.Float64("wave-number", dsp.DefaultWaveNumber, "Morlet wave number K")
	pianoRoll   = flag.Bool("piano-roll", false, "Draw a piano-roll gutter alongside the spectrogram")
	grayscale   = flag.Bool("grayscale", false, "Use the grayscale colour scheme instead of the heat map")
	showTUI     = flag.Bool("tui", false, "Show a live terminal view while the transform runs")
	webPort     = flag.Int("web", 0, "Serve a live web view on the given port while it runs (0 disables)")
	resampleTo  = flag.Int("resample-to", 0, "Resample the input audio to this sample rate before transforming (0 disables)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <input.wav> <output.png>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Runs a continuous wavelet transform over a WAV file and renders it as a spectrogram PNG.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), flag.Arg(1)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(inputPath, outputPath string) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", inputPath, err)
	}
	defer f.Close()

	wav, err := audiosrc.Parse(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", inputPath, err)
	}

	slog.Info("loaded audio", "file", inputPath, "sampleRate", wav.SampleRate,
		"channels", wav.NumChannels, "duration", wav.Duration())

	samples := wav.Mono()
	sampleRate := wav.SampleRate

	if *resampleTo > 0 && *resampleTo != sampleRate {
		resampled, err := resampleMono(samples, sampleRate, *resampleTo)
		if err != nil {
			return fmt.Errorf("resampling to %dHz: %w", *resampleTo, err)
		}
		samples = resampled
		sampleRate = *resampleTo
		slog.Info("resampled audio", "from", wav.SampleRate, "to", sampleRate)
	}

	signal := dsp.Signal[float64]{SampleRate: sampleRate, Samples: samples}
	frequencies := render.SemitoneGrid(*baseFreq, *notes, *divisions)
	factory := dsp.MorletFactory(*waveNumber)

	var webServer *web.Server
	if *webPort > 0 {
		webServer = web.NewServer(*webPort, len(frequencies))
		go func() {
			if err := webServer.Start(); err != nil {
				slog.Error("web server stopped", "error", err)
			}
		}()
	}

	var tuiState *tui.State
	if *showTUI {
		tuiState = tui.NewState(frequencies, len(signal.Samples))
	}

	var rowsDone int64
	start := time.Now()

	onRow := func(rowIndex int, frequencyHz float64, row []complex128) {
		done := atomic.AddInt64(&rowsDone, 1)
		slog.Debug("row computed", "frequency", frequencyHz, "index", rowIndex)

		if tuiState != nil {
			tuiState.OnRow(rowIndex, row)
		}
		if webServer != nil {
			webServer.BroadcastRow(rowIndex, frequencyHz, int(done))
		}
	}

	tuiDone := make(chan error, 1)
	if tuiState != nil {
		go func() { tuiDone <- tui.Run(tuiState) }()
	}

	matrix, err := dsp.TransformWithProgress(signal, factory, frequencies, *workers, onRow)
	if err != nil {
		return fmt.Errorf("running transform: %w", err)
	}

	slog.Info("transform complete", "elapsed", time.Since(start), "rows", len(matrix))

	if tuiState != nil {
		<-tuiDone
	}

	opts := render.DefaultOptions()
	opts.PianoRoll = *pianoRoll
	if *grayscale {
		opts.ColorScheme = render.Grayscale
	}

	img, err := render.Output(matrix, sampleRate, frequencies, opts)
	if err != nil {
		return fmt.Errorf("rendering image: %w", err)
	}

	if err := render.WritePNG(outputPath, img); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}

	if webServer != nil {
		pngBytes, err := os.ReadFile(outputPath)
		if err != nil {
			slog.Error("reading rendered image for web view", "error", err)
		} else {
			webServer.SetImage(pngBytes)
		}
	}

	slog.Info("spectrogram written", "file", outputPath)
	return nil
}

// resampleMono resamples a mono float64 signal through the
// Blackman-windowed sinc resampler, converting to and from float32 at
// its boundary since that is the precision the resampler operates at.
func resampleMono(samples []float64, srcRate, dstRate int) ([]float64, error) {
	f32 := make([]float32, len(samples))
	for i, s := range samples {
		f32[i] = float32(s)
	}

	resampled, err := resampler.New().Resample(f32, float64(srcRate), float64(dstRate))
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(resampled))
	for i, s := range resampled {
		out[i] = float64(s)
	}
	return out, nil
}
