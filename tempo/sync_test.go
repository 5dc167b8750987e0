package tempo

import (
	"math"
	"testing"
	"time"
)

// feedPulses delivers n pulses at a fixed interval starting from base
// and returns the time after the last pulse.
func feedPulses(s *Synchronizer, base time.Time, n int, interval time.Duration) time.Time {
	t := base
	for i := 0; i < n; i++ {
		s.PulseAt(t)
		t = t.Add(interval)
	}
	return t
}

func TestConvergesOnSteadyClock(t *testing.T) {
	s := NewSynchronizer()

	// 20833 us between pulses is 120 BPM at 24 pulses per quarter.
	feedPulses(s, time.Unix(0, 0), 30, 20833*time.Microsecond)

	bpm := s.BPM()
	if math.Abs(bpm-120) > 1.2 {
		t.Errorf("BPM = %.3f, want 120 within 1%%", bpm)
	}
}

func TestFirstPulseProducesNoEstimate(t *testing.T) {
	s := NewSynchronizer()
	s.PulseAt(time.Unix(0, 0))
	if s.BPM() != 0 {
		t.Errorf("BPM = %.3f after a single pulse, want 0", s.BPM())
	}
}

func TestOutlierIntervalRejected(t *testing.T) {
	s := NewSynchronizer()
	interval := 20833 * time.Microsecond

	last := feedPulses(s, time.Unix(0, 0), 30, interval)
	before := s.BPM()

	// A five second dropout must neither update nor poison the estimate.
	last = last.Add(5 * time.Second)
	s.PulseAt(last)
	if s.BPM() != before {
		t.Errorf("BPM changed from %.3f to %.3f on outlier", before, s.BPM())
	}

	// The stream recovers at the same tempo afterwards.
	feedPulses(s, last.Add(interval), 30, interval)
	if math.Abs(s.BPM()-120) > 1.2 {
		t.Errorf("BPM = %.3f after recovery, want 120 within 1%%", s.BPM())
	}
}

func TestImplausiblyFastPulsesRejected(t *testing.T) {
	s := NewSynchronizer()
	feedPulses(s, time.Unix(0, 0), 30, 20833*time.Microsecond)
	before := s.BPM()

	// Sub-millisecond double-trigger glitch.
	base := time.Unix(10, 0)
	s.PulseAt(base)
	s.PulseAt(base.Add(200 * time.Microsecond))
	if s.BPM() != before {
		t.Errorf("BPM changed from %.3f to %.3f on glitch", before, s.BPM())
	}
}

func TestTracksTempoChange(t *testing.T) {
	s := NewSynchronizer()
	last := feedPulses(s, time.Unix(0, 0), 48, 20833*time.Microsecond) // 120 BPM

	// 150 BPM: 60e6 / (150*24) us.
	feedPulses(s, last, 120, 16667*time.Microsecond)
	if math.Abs(s.BPM()-150) > 3 {
		t.Errorf("BPM = %.3f after tempo change, want ~150", s.BPM())
	}
}

func TestDisableClearsState(t *testing.T) {
	s := NewSynchronizer()
	feedPulses(s, time.Unix(0, 0), 30, 20833*time.Microsecond)
	if s.BPM() == 0 {
		t.Fatal("expected an estimate before disabling")
	}

	s.SetEnabled(false)
	if s.BPM() != 0 {
		t.Error("disabled synchronizer must not report a stale BPM")
	}
	if s.PulseCount() != 0 {
		t.Error("disabling must clear the pulse count")
	}

	// Pulses while disabled are ignored.
	s.PulseAt(time.Unix(100, 0))
	if s.PulseCount() != 0 {
		t.Error("pulse accepted while disabled")
	}

	// Re-enabling starts from scratch: one pulse is baseline only.
	s.SetEnabled(true)
	s.PulseAt(time.Unix(200, 0))
	if s.BPM() != 0 {
		t.Error("first pulse after re-enable must not produce an estimate")
	}
}

func TestResetClearsEstimate(t *testing.T) {
	s := NewSynchronizer()
	feedPulses(s, time.Unix(0, 0), 30, 20833*time.Microsecond)
	s.Reset()
	if s.BPM() != 0 || s.PulseCount() != 0 {
		t.Error("reset must clear the estimate and pulse history")
	}
}
