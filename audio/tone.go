package audio

import "math"

// ToneSource is a stand-in playback engine for the demo command: a
// fixed-pitch stereo tone that fires a row notification at a steady
// rate, the way a tracker engine notifies on row boundaries. The
// callback runs on the audio thread; keep it brief.
type ToneSource struct {
	freq       float64
	sampleRate float64
	amplitude  float64

	framesPerRow int
	rowFrames    int
	onRow        func()

	phase float64
}

// NewToneSource creates a tone at freq Hz that calls onRow once per row
// at the given tempo (rows are sixteenth notes: four per beat).
func NewToneSource(sampleRate int, freq, bpm float64, onRow func()) *ToneSource {
	framesPerRow := int(float64(sampleRate) * 60 / (bpm * 4))
	if framesPerRow < 1 {
		framesPerRow = 1
	}
	return &ToneSource{
		freq:         freq,
		sampleRate:   float64(sampleRate),
		amplitude:    0.5,
		framesPerRow: framesPerRow,
		onRow:        onRow,
	}
}

// Render fills buf with the tone and fires row callbacks on schedule.
func (t *ToneSource) Render(buf []int16) {
	step := 2 * math.Pi * t.freq / t.sampleRate
	for i := 0; i+1 < len(buf); i += 2 {
		s := int16(math.Sin(t.phase) * t.amplitude * 32767)
		buf[i] = s
		buf[i+1] = s
		t.phase += step
		if t.phase > 2*math.Pi {
			t.phase -= 2 * math.Pi
		}

		t.rowFrames++
		if t.rowFrames >= t.framesPerRow {
			t.rowFrames = 0
			if t.onRow != nil {
				t.onRow()
			}
		}
	}
}
