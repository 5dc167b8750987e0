// Package effects is the real-time output chain: a saturation-style
// distortion stage followed by a resonant state-variable filter, applied
// in place to interleaved 16-bit stereo buffers on the audio thread.
package effects

import (
	"math"
	"sync/atomic"
)

// Chain holds the two effect stages and their parameters. Parameters
// are written from the control thread and read from the audio thread as
// lock-free scalars; a momentary mix of old and new values across one
// buffer is acceptable, so no cross-parameter consistency is needed.
//
// A nil *Chain is safe to call into: processing is a no-op and getters
// return zero values.
type Chain struct {
	sampleRate float64

	distEnabled   atomic.Bool
	drive         atomicUnit
	mix           atomicUnit
	filterEnabled atomic.Bool
	cutoff        atomicUnit
	resonance     atomicUnit

	left  svFilter
	right svFilter
}

// NewChain creates an effects chain for the given sample rate. Both
// stages start disabled with zeroed parameters.
func NewChain(sampleRate int) *Chain {
	return &Chain{sampleRate: float64(sampleRate)}
}

// Process runs the enabled stages over an interleaved stereo int16
// buffer in place. It does not allocate, lock or block; per-buffer cost
// is linear in the frame count.
func (c *Chain) Process(buf []int16) {
	if c == nil {
		return
	}

	distOn := c.distEnabled.Load()
	filterOn := c.filterEnabled.Load()
	if !distOn && !filterOn {
		return
	}

	var dist distortion
	if distOn {
		dist = makeDistortion(c.drive.Load(), c.mix.Load())
	}
	var fc, q float64
	if filterOn {
		fc, q = filterCoefficients(c.cutoff.Load(), c.resonance.Load(), c.sampleRate)
	}

	for i := 0; i+1 < len(buf); i += 2 {
		l := float64(buf[i]) / 32768
		r := float64(buf[i+1]) / 32768

		if distOn {
			l = dist.process(l)
			r = dist.process(r)
		}
		if filterOn {
			l = c.left.process(l, fc, q)
			r = c.right.process(r, fc, q)
		}

		buf[i] = clampSample(l)
		buf[i+1] = clampSample(r)
	}
}

// Reset zeroes both channels' filter integrators without touching any
// parameter. Call when playback restarts so stale filter state does not
// produce an audible transient.
func (c *Chain) Reset() {
	if c == nil {
		return
	}
	c.left.reset()
	c.right.reset()
}

// SetDistortionEnabled gates the distortion stage.
func (c *Chain) SetDistortionEnabled(on bool) {
	if c != nil {
		c.distEnabled.Store(on)
	}
}

// DistortionEnabled reports whether the distortion stage is active.
func (c *Chain) DistortionEnabled() bool {
	return c != nil && c.distEnabled.Load()
}

// SetDrive sets the distortion drive, clamped to [0, 1].
func (c *Chain) SetDrive(v float64) {
	if c != nil {
		c.drive.Store(v)
	}
}

// Drive returns the distortion drive.
func (c *Chain) Drive() float64 {
	if c == nil {
		return 0
	}
	return c.drive.Load()
}

// SetMix sets the distortion dry/wet mix, clamped to [0, 1].
func (c *Chain) SetMix(v float64) {
	if c != nil {
		c.mix.Store(v)
	}
}

// Mix returns the distortion dry/wet mix.
func (c *Chain) Mix() float64 {
	if c == nil {
		return 0
	}
	return c.mix.Load()
}

// SetFilterEnabled gates the filter stage.
func (c *Chain) SetFilterEnabled(on bool) {
	if c != nil {
		c.filterEnabled.Store(on)
	}
}

// FilterEnabled reports whether the filter stage is active.
func (c *Chain) FilterEnabled() bool {
	return c != nil && c.filterEnabled.Load()
}

// SetCutoff sets the normalized filter cutoff, clamped to [0, 1].
func (c *Chain) SetCutoff(v float64) {
	if c != nil {
		c.cutoff.Store(v)
	}
}

// Cutoff returns the normalized filter cutoff.
func (c *Chain) Cutoff() float64 {
	if c == nil {
		return 0
	}
	return c.cutoff.Load()
}

// SetResonance sets the filter resonance, clamped to [0, 1].
func (c *Chain) SetResonance(v float64) {
	if c != nil {
		c.resonance.Store(v)
	}
}

// Resonance returns the filter resonance.
func (c *Chain) Resonance() float64 {
	if c == nil {
		return 0
	}
	return c.resonance.Load()
}

func clampSample(v float64) int16 {
	v *= 32768
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// atomicUnit is a unit-range parameter stored as a float32 bit pattern
// for lock-free hand-off between the control and audio threads. Writes
// clamp to [0, 1].
type atomicUnit struct {
	bits atomic.Uint32
}

func (u *atomicUnit) Store(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	u.bits.Store(math.Float32bits(float32(v)))
}

func (u *atomicUnit) Load() float64 {
	return float64(math.Float32frombits(u.bits.Load()))
}
