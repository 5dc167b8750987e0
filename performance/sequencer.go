// Package performance records resolved control actions against an
// absolute transport position and replays them deterministically.
package performance

import (
	"sync"

	"github.com/gbraad-modplug/regroove-sub001/input"
)

// MaxEvents is the hard cap on the automation log. Recording past the
// cap drops events instead of failing.
const MaxEvents = 4096

// RowsPerOrder is the display convention for converting an absolute
// performance row into order:row form. It is not used for event matching.
const RowsPerOrder = 64

// Event is one recorded automation entry. Immutable once recorded.
type Event struct {
	Row    int
	Action input.Action
	Param  int
	Value  float64
}

// TickStatus reports what a Tick call did.
type TickStatus int

const (
	// TickIgnored means the sequencer was idle and the row did not move.
	TickIgnored TickStatus = iota
	// TickAdvanced means the performance row was incremented.
	TickAdvanced
)

// Sequencer is the automation recorder/player. Tick calls may arrive
// from the playback engine's row-notification thread while Record calls
// arrive from the input thread, so all state is mutex-guarded; critical
// sections are short.
type Sequencer struct {
	mu        sync.Mutex
	row       int
	cursor    int
	recording bool
	playing   bool
	log       []Event
}

func NewSequencer() *Sequencer {
	return &Sequencer{log: make([]Event, 0, 256)}
}

// StartRecording clears the log, resets the performance row and enters
// record mode. Playback is stopped first; the two modes are exclusive.
func (s *Sequencer) StartRecording() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
	s.recording = true
	s.log = s.log[:0]
	s.row = 0
	s.cursor = 0
}

// StopRecording leaves record mode. The log is kept.
func (s *Sequencer) StopRecording() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recording = false
}

// StartPlaying resets the row and cursor and enters playback mode.
// Replay always starts from the beginning of the log; the log itself
// is preserved. Recording is stopped first.
func (s *Sequencer) StartPlaying() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recording = false
	s.playing = true
	s.row = 0
	s.cursor = 0
}

// StopPlaying leaves playback mode.
func (s *Sequencer) StopPlaying() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
}

// Tick advances the performance row by one. Called by the playback
// engine on every transport row change. Idle ticks are ignored.
func (s *Sequencer) Tick() TickStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.recording && !s.playing {
		return TickIgnored
	}
	s.row++
	return TickAdvanced
}

// Record appends an event at the current performance row. Only valid
// while recording; reports false when not recording or when the log is
// full (a soft limit, not an error).
func (s *Sequencer) Record(action input.Action, param int, value float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.recording || len(s.log) >= MaxEvents {
		return false
	}
	s.log = append(s.log, Event{Row: s.row, Action: action, Param: param, Value: value})
	return true
}

// EventsAtCurrentRow copies every logged event for the current row into
// buf and returns the count, truncated to len(buf). The scan starts at
// the playback cursor, skips past rows already behind the transport and
// stops without consuming the first event of a later row. Only valid
// while playing; correctness relies on the log being row-ordered, which
// append-only recording in tick order guarantees.
func (s *Sequencer) EventsAtCurrentRow(buf []Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing {
		return 0
	}

	n := 0
	for s.cursor < len(s.log) {
		e := s.log[s.cursor]
		if e.Row > s.row {
			break
		}
		if e.Row == s.row && n < len(buf) {
			buf[n] = e
			n++
		}
		s.cursor++
	}
	return n
}

// Row returns the absolute performance row.
func (s *Sequencer) Row() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.row
}

// Position returns the performance row as order:row for display.
func (s *Sequencer) Position() (order, row int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.row / RowsPerOrder, s.row % RowsPerOrder
}

// Recording reports whether the sequencer is in record mode.
func (s *Sequencer) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// Playing reports whether the sequencer is in playback mode.
func (s *Sequencer) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Len returns the number of recorded events.
func (s *Sequencer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.log)
}

// Events returns a copy of the automation log.
func (s *Sequencer) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.log))
	copy(out, s.log)
	return out
}
