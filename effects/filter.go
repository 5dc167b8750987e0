package effects

import "math"

// nyquistSafety keeps the cutoff under Nyquist so the Chamberlin
// integrators stay numerically stable at full cutoff.
const nyquistSafety = 0.48

// minDamping stops the filter short of self-oscillation at maximum
// resonance.
const minDamping = 0.1

// svFilter is one channel of a two-pole Chamberlin state-variable
// filter. The two integrators persist across buffers and are only
// cleared by an explicit reset.
type svFilter struct {
	low  float64
	band float64
}

// filterCoefficients maps normalized cutoff and resonance to the
// integrator coefficient f and damping q.
func filterCoefficients(cutoff, resonance, sampleRate float64) (f, q float64) {
	freq := cutoff * (sampleRate / 2) * nyquistSafety
	f = 2 * math.Sin(math.Pi*freq/sampleRate)
	q = 0.7 - resonance*0.6
	if q < minDamping {
		q = minDamping
	}
	return f, q
}

// process advances both integrators for one input sample and returns
// the low-pass output.
func (s *svFilter) process(x, f, q float64) float64 {
	s.low += f * s.band
	high := x - s.low - q*s.band
	s.band += f * high
	return s.low
}

func (s *svFilter) reset() {
	s.low = 0
	s.band = 0
}
