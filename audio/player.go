// Package audio feeds rendered sample buffers through the effects
// chain into the output device. The rendering engine itself is an
// external collaborator behind the SampleSource interface.
package audio

import (
	"encoding/binary"
	"fmt"

	"github.com/ebitengine/oto/v3"

	"github.com/gbraad-modplug/regroove-sub001/effects"
)

// SampleSource renders interleaved 16-bit stereo audio. Render is
// called on the audio thread; implementations must not block.
type SampleSource interface {
	Render(buf []int16)
}

// streamReader adapts a SampleSource plus effects chain to the int16
// little-endian byte stream the output device consumes.
type streamReader struct {
	source SampleSource
	chain  *effects.Chain
	buf    []int16
}

func (r *streamReader) Read(p []byte) (int, error) {
	frames := len(p) / 4
	if frames == 0 {
		return 0, nil
	}
	need := frames * 2
	if cap(r.buf) < need {
		r.buf = make([]int16, need)
	}
	r.buf = r.buf[:need]

	r.source.Render(r.buf)
	r.chain.Process(r.buf)

	for i, s := range r.buf {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(s))
	}
	return frames * 4, nil
}

// Player owns the output device and the stream feeding it.
type Player struct {
	player *oto.Player
}

// NewPlayer opens the output device and prepares a stream that renders
// from source and applies chain in place. Call Play to start.
func NewPlayer(sampleRate, framesPerBuffer int, source SampleSource, chain *effects.Chain) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("open audio context: %w", err)
	}
	<-ready

	pl := ctx.NewPlayer(&streamReader{source: source, chain: chain})
	if framesPerBuffer > 0 {
		pl.SetBufferSize(framesPerBuffer * 4)
	}
	return &Player{player: pl}, nil
}

func (p *Player) Play()  { p.player.Play() }
func (p *Player) Pause() { p.player.Pause() }

// IsPlaying reports whether the device is consuming samples.
func (p *Player) IsPlaying() bool { return p.player.IsPlaying() }

func (p *Player) Close() error {
	p.player.Pause()
	return p.player.Close()
}
