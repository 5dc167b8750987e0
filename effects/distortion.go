package effects

import "math"

// satKnee is the amplitude below which the saturation curve is the
// identity; above it the signal is quadratically compressed toward the
// clamp point at 1.0.
const satKnee = 0.33

// distortion holds per-buffer derived coefficients for the saturation
// stage. Drive and mix are snapshotted once per buffer.
type distortion struct {
	pre    float64
	makeup float64
	mix    float64
}

func makeDistortion(drive, mix float64) distortion {
	return distortion{
		pre:    1 + drive*9,         // drive 0 = clean, 1 = 10x gain
		makeup: 1 / (1 + drive*0.5), // offsets loudness loss from compression
		mix:    mix,
	}
}

func (d distortion) process(x float64) float64 {
	wet := saturate(x*d.pre) * d.makeup
	return x*(1-d.mix) + wet*d.mix
}

// saturate applies the three-zone transfer curve: identity below the
// knee, a sign-preserving quadratic from the knee to 1.0, hard clamp
// beyond. The quadratic meets the knee at satKnee and flattens to 1.0
// with zero slope, so the clamp region joins without a step.
func saturate(x float64) float64 {
	ax := math.Abs(x)
	if ax < satKnee {
		return x
	}
	if ax > 1 {
		return math.Copysign(1, x)
	}
	y := 1 - (1-ax)*(1-ax)/(1-satKnee)
	return math.Copysign(y, x)
}
