// Package tempo recovers a BPM estimate from an external MIDI clock
// pulse stream. The estimate is advisory display/sync data, not a clock
// source driving playback.
package tempo

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// PulsesPerQuarter is the MIDI clock standard: 24 pulses per quarter note.
const PulsesPerQuarter = 24

const (
	// Plausibility window for a single pulse interval. Anything outside
	// is treated as a transmission glitch and does not touch the estimate.
	minIntervalUS = 1_000     // 1 ms
	maxIntervalUS = 1_000_000 // 1 s

	// windowDecay bounds the running sums to roughly the last quarter
	// note of pulses, an exponentially weighted window rather than a
	// hard ring buffer.
	windowDecay = 0.95
)

// Synchronizer estimates tempo from raw hardware clock pulses. Pulse
// delivery is serialized by the transport that delivers it; the BPM
// read side is lock-free and may be stale by at most one pulse.
type Synchronizer struct {
	mu            sync.Mutex
	enabled       bool
	havePulse     bool
	lastPulse     time.Time
	pulseCount    int
	intervalSum   float64 // accepted intervals, microseconds
	intervalCount float64

	bpm atomicFloat64
}

func NewSynchronizer() *Synchronizer {
	return &Synchronizer{enabled: true}
}

// Pulse records a clock pulse arriving now.
func (s *Synchronizer) Pulse() {
	s.PulseAt(time.Now())
}

// PulseAt records a clock pulse with an explicit arrival time. The
// first pulse only establishes a baseline and produces no estimate.
func (s *Synchronizer) PulseAt(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}

	s.pulseCount++
	if !s.havePulse {
		s.havePulse = true
		s.lastPulse = t
		return
	}

	interval := float64(t.Sub(s.lastPulse).Microseconds())
	s.lastPulse = t
	if interval <= minIntervalUS || interval >= maxIntervalUS {
		return
	}

	s.intervalSum += interval
	s.intervalCount++
	if s.intervalCount > PulsesPerQuarter {
		s.intervalSum *= windowDecay
		s.intervalCount *= windowDecay
	}

	avg := s.intervalSum / s.intervalCount
	s.bpm.Store(60_000_000 / (avg * PulsesPerQuarter))
}

// BPM returns the current estimate, or 0 before any estimate exists.
// Lock-free; safe to call from a UI thread during pulse delivery.
func (s *Synchronizer) BPM() float64 {
	return s.bpm.Load()
}

// PulseCount returns the number of pulses seen since the last reset.
func (s *Synchronizer) PulseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pulseCount
}

// SetEnabled turns synchronization on or off. Disabling clears all
// state so a stale estimate is never reported as current.
func (s *Synchronizer) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
	if !enabled {
		s.resetLocked()
	}
}

// Enabled reports whether synchronization is active.
func (s *Synchronizer) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Reset discards the estimate and all pulse history.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Synchronizer) resetLocked() {
	s.havePulse = false
	s.lastPulse = time.Time{}
	s.pulseCount = 0
	s.intervalSum = 0
	s.intervalCount = 0
	s.bpm.Store(0)
}

// atomicFloat64 stores a float64 as its bit pattern for lock-free
// latest-value hand-off between threads.
type atomicFloat64 struct {
	bits atomic.Uint64
}

func (f *atomicFloat64) Store(v float64) { f.bits.Store(math.Float64bits(v)) }
func (f *atomicFloat64) Load() float64   { return math.Float64frombits(f.bits.Load()) }
