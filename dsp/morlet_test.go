package dsp

import (
	"math"
	"testing"
)

const epsilon = 1e-6

func assertEpsilon(t *testing.T, actual, expected float64, msg string) {
	t.Helper()
	if math.Abs(actual-expected) > epsilon {
		t.Errorf("%s: got %v, want %v within %v", msg, actual, expected, epsilon)
	}
}

// TestMorletAnchors checks the three defining identities of the Morlet
// kernel against MorletFactory's actual output: it vanishes at the
// start and end of its support window and peaks at exactly 1+0i at the
// midpoint, for a spread of frequencies. Choosing an integer sample
// rate equal to the frequency puts the start and peak anchors on exact
// sample indices (0 and halfLength); the end anchor is checked at the
// last sample, which lies at or one step before the window's end where
// the envelope is just as negligible. The assertions bind to sig.Samples
// rather than to a hand-rolled stand-in for the formula.
func TestMorletAnchors(t *testing.T) {
	factory := MorletFactory(DefaultWaveNumber)
	halfLength := int(2 * DefaultWaveNumber)

	for freq := 1.0; freq <= 100; freq++ {
		sampleRate := int(freq)
		sig := factory(freq, sampleRate)

		start := sig.Samples[0]
		assertEpsilon(t, real(start), 0, "start real")
		assertEpsilon(t, imag(start), 0, "start imag")

		peak := sig.Samples[halfLength]
		assertEpsilon(t, real(peak), 1, "peak real")
		assertEpsilon(t, imag(peak), 0, "peak imag")

		end := sig.Samples[len(sig.Samples)-1]
		assertEpsilon(t, real(end), 0, "end real")
		assertEpsilon(t, imag(end), 0, "end imag")
	}
}

func TestMorletFactorySampleCount(t *testing.T) {
	factory := MorletFactory(DefaultWaveNumber)
	sig := factory(440, 44100)

	halfLength := 2 * DefaultWaveNumber
	wantLen := int(math.Ceil(2 * halfLength / 440 * 44100))

	if len(sig.Samples) != wantLen {
		t.Errorf("len(Samples) = %d, want %d", len(sig.Samples), wantLen)
	}

	if sig.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", sig.SampleRate)
	}
}

func TestMorletHigherFrequencyShorterKernel(t *testing.T) {
	factory := MorletFactory(DefaultWaveNumber)

	low := factory(110, 44100)
	high := factory(880, 44100)

	if len(high.Samples) >= len(low.Samples) {
		t.Errorf("higher frequency kernel (%d) should be shorter than lower frequency kernel (%d)",
			len(high.Samples), len(low.Samples))
	}
}
