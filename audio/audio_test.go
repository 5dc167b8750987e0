package audio

import (
	"testing"

	"github.com/gbraad-modplug/regroove-sub001/effects"
)

func TestToneSourceRowCadence(t *testing.T) {
	const sampleRate = 48000
	rows := 0
	src := NewToneSource(sampleRate, 220, 125, func() { rows++ })

	// 125 BPM at four rows per beat is 5760 frames per row.
	buf := make([]int16, 1024) // 512 frames
	framesPerRow := sampleRate * 60 / (125 * 4)
	for rendered := 0; rendered < framesPerRow*10; rendered += len(buf) / 2 {
		src.Render(buf)
	}
	if rows != 10 {
		t.Errorf("fired %d row callbacks over 10 rows of audio, want 10", rows)
	}
}

func TestToneSourceOutputBounded(t *testing.T) {
	src := NewToneSource(48000, 220, 125, nil)
	buf := make([]int16, 2048)
	src.Render(buf)

	peak := int16(0)
	for i := 0; i+1 < len(buf); i += 2 {
		if buf[i] != buf[i+1] {
			t.Fatalf("frame %d not equal across channels: %d vs %d", i/2, buf[i], buf[i+1])
		}
		if buf[i] > peak {
			peak = buf[i]
		}
	}
	// Half-scale tone with headroom for the effects chain.
	if peak < 10000 || peak > 17000 {
		t.Errorf("peak = %d, want a half-scale tone", peak)
	}
}

// rampSource fills frames with a known counting pattern.
type rampSource struct{ next int16 }

func (s *rampSource) Render(buf []int16) {
	for i := range buf {
		buf[i] = s.next
		s.next++
	}
}

func TestStreamReaderConversion(t *testing.T) {
	r := &streamReader{source: &rampSource{next: -2}, chain: nil}

	p := make([]byte, 16) // four frames
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if n != 16 {
		t.Fatalf("Read() = %d bytes, want 16", n)
	}

	// Samples -2..5 as little-endian int16.
	want := []int16{-2, -1, 0, 1, 2, 3, 4, 5}
	for i, w := range want {
		got := int16(uint16(p[i*2]) | uint16(p[i*2+1])<<8)
		if got != w {
			t.Errorf("sample %d = %d, want %d", i, got, w)
		}
	}
}

func TestStreamReaderAppliesChain(t *testing.T) {
	chain := effects.NewChain(48000)
	chain.SetDistortionEnabled(true)
	chain.SetDrive(1)
	chain.SetMix(1)

	r := &streamReader{source: &rampSource{next: 16000}, chain: chain}
	p := make([]byte, 8)
	if _, err := r.Read(p); err != nil {
		t.Fatal(err)
	}

	s0 := int16(uint16(p[0]) | uint16(p[1])<<8)
	if s0 == 16000 {
		t.Error("chain not applied to the stream")
	}
}

func TestStreamReaderShortBuffer(t *testing.T) {
	r := &streamReader{source: &rampSource{}, chain: nil}
	if n, err := r.Read(make([]byte, 3)); n != 0 || err != nil {
		t.Errorf("Read(3 bytes) = %d, %v, want 0 frames and no error", n, err)
	}
}
