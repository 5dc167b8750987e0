package effects

import (
	"math"
	"math/rand"
	"testing"
)

func TestNilChainIsSafe(t *testing.T) {
	var c *Chain

	buf := []int16{100, -100, 32767, -32768}
	c.Process(buf) // must not panic
	c.Reset()
	c.SetDrive(0.5)

	if c.Drive() != 0 || c.Mix() != 0 || c.Cutoff() != 0 || c.Resonance() != 0 {
		t.Error("nil chain getters must return 0")
	}
	if c.DistortionEnabled() || c.FilterEnabled() {
		t.Error("nil chain must report stages disabled")
	}
}

func TestParameterClamping(t *testing.T) {
	c := NewChain(48000)

	cases := []struct {
		set  func(float64)
		get  func() float64
		name string
	}{
		{c.SetDrive, c.Drive, "drive"},
		{c.SetMix, c.Mix, "mix"},
		{c.SetCutoff, c.Cutoff, "cutoff"},
		{c.SetResonance, c.Resonance, "resonance"},
	}
	for _, tc := range cases {
		tc.set(1.5)
		if got := tc.get(); got != 1 {
			t.Errorf("%s: set 1.5, got %g, want clamp to 1", tc.name, got)
		}
		tc.set(-0.5)
		if got := tc.get(); got != 0 {
			t.Errorf("%s: set -0.5, got %g, want clamp to 0", tc.name, got)
		}
		tc.set(0.25)
		if got := tc.get(); got != 0.25 {
			t.Errorf("%s: set 0.25, got %g", tc.name, got)
		}
	}
}

func TestDisabledChainPassesThrough(t *testing.T) {
	c := NewChain(48000)

	buf := []int16{0, 1000, -1000, 32767, -32768, 7}
	want := append([]int16(nil), buf...)
	c.Process(buf)
	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("sample %d changed with both stages off: %d -> %d", i, want[i], buf[i])
		}
	}
}

func TestDistortionIdentityRegion(t *testing.T) {
	c := NewChain(48000)
	c.SetDistortionEnabled(true)
	c.SetDrive(0)
	c.SetMix(1)

	// Inputs below the 0.33 amplitude knee pass through untouched at
	// zero drive.
	buf := []int16{0, 500, -500, 5000, -5000, 10000, -10000}
	want := append([]int16(nil), buf...)
	c.Process(buf)
	for i := range buf {
		if buf[i] != want[i] {
			t.Errorf("sample %d: %d -> %d, want identity below the knee", i, want[i], buf[i])
		}
	}
}

func TestDistortionBoundedAtFullDrive(t *testing.T) {
	c := NewChain(48000)
	c.SetDistortionEnabled(true)
	c.SetDrive(1)
	c.SetMix(1)

	buf := make([]int16, 512)
	for i := range buf {
		buf[i] = 32767
	}
	c.Process(buf)
	for i, s := range buf {
		if s < 0 {
			t.Fatalf("sample %d flipped sign: %d", i, s)
		}
	}
}

func TestDistortionMixCrossfade(t *testing.T) {
	c := NewChain(48000)
	c.SetDistortionEnabled(true)
	c.SetDrive(1)

	// Fully dry: heavy drive must not alter the signal.
	c.SetMix(0)
	buf := []int16{8000, -8000}
	c.Process(buf)
	if buf[0] != 8000 || buf[1] != -8000 {
		t.Errorf("mix=0 must be fully dry, got %v", buf)
	}
}

func TestFilterStabilityWorstCase(t *testing.T) {
	const sampleRate = 48000
	c := NewChain(sampleRate)
	c.SetFilterEnabled(true)
	c.SetCutoff(1)
	c.SetResonance(1)

	// Ten seconds of full-scale noise through the worst-case
	// coefficients must stay representable and must not poison the
	// integrators.
	rng := rand.New(rand.NewSource(1))
	buf := make([]int16, 1024)
	nonZero := false
	for frame := 0; frame < sampleRate*10*2/len(buf); frame++ {
		for i := range buf {
			buf[i] = int16(rng.Intn(65536) - 32768)
		}
		c.Process(buf)
		for _, s := range buf {
			if s != 0 {
				nonZero = true
			}
		}
	}
	if !nonZero {
		t.Fatal("filter produced silence from noise")
	}

	// With silent input the resonant tail must die out; a blown-up or
	// NaN-poisoned filter never decays.
	for i := range buf {
		buf[i] = 0
	}
	for frame := 0; frame < sampleRate*2/len(buf); frame++ {
		c.Process(buf)
		for i := range buf {
			buf[i] = 0
		}
	}
	silent := make([]int16, 1024)
	c.Process(silent)
	for i, s := range silent {
		if s > 16 || s < -16 {
			t.Fatalf("sample %d = %d, filter tail did not decay", i, s)
		}
	}
}

func TestFilterResetZeroesIntegrators(t *testing.T) {
	c := NewChain(48000)
	c.SetFilterEnabled(true)
	c.SetCutoff(0.5)
	c.SetResonance(0.5)

	// Charge the integrators.
	buf := make([]int16, 256)
	for i := range buf {
		buf[i] = 20000
	}
	c.Process(buf)

	c.Reset()

	// Reset must not touch parameters.
	if c.Cutoff() != 0.5 || c.Resonance() != 0.5 {
		t.Error("reset changed filter parameters")
	}

	// Zero state plus zero input stays exactly zero.
	zero := make([]int16, 256)
	c.Process(zero)
	for i, s := range zero {
		if s != 0 {
			t.Fatalf("sample %d = %d after reset, want 0", i, s)
		}
	}
}

func TestFilterAttenuatesAboveCutoff(t *testing.T) {
	const sampleRate = 48000
	c := NewChain(sampleRate)
	c.SetFilterEnabled(true)
	c.SetCutoff(0.05) // ~576 Hz
	c.SetResonance(0)

	// A high-frequency tone should come out much quieter than it went in.
	buf := make([]int16, sampleRate/2)
	for i := 0; i < len(buf); i += 2 {
		s := int16(20000 * math.Sin(2*math.Pi*8000*float64(i/2)/sampleRate))
		buf[i] = s
		buf[i+1] = s
	}
	c.Process(buf)

	var peak int16
	for _, s := range buf[len(buf)/2:] {
		if s > peak {
			peak = s
		}
	}
	if peak > 5000 {
		t.Errorf("peak %d after low-pass at 8 kHz, want strong attenuation", peak)
	}
}
