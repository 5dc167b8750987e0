// Package control wires raw input to the automation, tempo and effects
// components and dispatches resolved actions to the playback engine.
package control

import (
	"context"

	"github.com/gbraad-modplug/regroove-sub001/debug"
	"github.com/gbraad-modplug/regroove-sub001/effects"
	"github.com/gbraad-modplug/regroove-sub001/input"
	"github.com/gbraad-modplug/regroove-sub001/midi"
	"github.com/gbraad-modplug/regroove-sub001/performance"
	"github.com/gbraad-modplug/regroove-sub001/tempo"
)

// Dispatcher executes resolved actions against the playback engine.
// The engine itself (pattern decoding, row advancement, sample mixing)
// lives outside this module.
type Dispatcher interface {
	Dispatch(ev input.Event)
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(input.Event)

func (f DispatcherFunc) Dispatch(ev input.Event) { f(ev) }

// replayBatch bounds how many automation events one row can replay.
const replayBatch = 16

// Manager routes events between the MIDI bridge, the resolver, the
// performance sequencer and the dispatcher. One Manager per performance;
// all fields are set at construction and never replaced.
type Manager struct {
	resolver   *input.Resolver
	seq        *performance.Sequencer
	clock      *tempo.Synchronizer
	chain      *effects.Chain
	dispatcher Dispatcher

	// UpdateChan gets a non-blocking signal whenever display-relevant
	// state changes.
	UpdateChan chan struct{}
}

func NewManager(resolver *input.Resolver, seq *performance.Sequencer, clock *tempo.Synchronizer, chain *effects.Chain, dispatcher Dispatcher) *Manager {
	return &Manager{
		resolver:   resolver,
		seq:        seq,
		clock:      clock,
		chain:      chain,
		dispatcher: dispatcher,
		UpdateChan: make(chan struct{}, 1),
	}
}

// Attach consumes a port's CC and clock channels until the port closes
// or ctx is cancelled. Runs its own goroutine; call once per connect.
func (m *Manager) Attach(ctx context.Context, port *midi.Port) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-port.CC():
				if !ok {
					return
				}
				m.HandleCC(ev)
			case ev, ok := <-port.Clock():
				if !ok {
					return
				}
				m.HandleClock(ev)
			}
		}
	}()
}

// HandleKey resolves a key code and applies the mapped action, if any.
func (m *Manager) HandleKey(code int) {
	if ev, ok := m.resolver.ResolveKey(code); ok {
		m.apply(ev)
	}
}

// HandleCC resolves a control-change message and applies the mapped
// action, if any.
func (m *Manager) HandleCC(cc midi.CCEvent) {
	if ev, ok := m.resolver.ResolveCC(int(cc.Controller), cc.Value); ok {
		m.apply(ev)
	}
}

// HandleClock feeds one hardware clock pulse to the tempo estimator.
func (m *Manager) HandleClock(ev midi.ClockEvent) {
	m.clock.PulseAt(ev.At)
}

// RowAdvanced is the playback engine's row-change notification. It
// advances the performance row and, during playback, replays every
// automation event recorded at the new row.
func (m *Manager) RowAdvanced() {
	if m.seq.Tick() == performance.TickIgnored {
		return
	}
	m.replayRow()
	m.notify()
}

// replayRow dispatches the automation events logged at the current row.
func (m *Manager) replayRow() {
	var buf [replayBatch]performance.Event
	n := m.seq.EventsAtCurrentRow(buf[:])
	for i := 0; i < n; i++ {
		e := buf[i]
		debug.Log("replay", "row=%d %s param=%d", e.Row, e.Action, e.Param)
		m.dispatcher.Dispatch(input.Event{Action: e.Action, Param: e.Param, Value: e.Value})
	}
}

func (m *Manager) apply(ev input.Event) {
	if m.seq.Recording() {
		m.seq.Record(ev.Action, ev.Param, ev.Value)
	}
	debug.Log("action", "%s param=%d value=%.3f", ev.Action, ev.Param, ev.Value)
	m.dispatcher.Dispatch(ev)
	m.notify()
}

// ToggleRecording flips record mode. Entering record discards the
// previous take.
func (m *Manager) ToggleRecording() {
	if m.seq.Recording() {
		m.seq.StopRecording()
	} else {
		m.seq.StartRecording()
	}
	m.notify()
}

// TogglePlayback flips automation replay. Entering playback restarts
// from the top of the log, clears stale filter state and immediately
// replays anything logged at row 0.
func (m *Manager) TogglePlayback() {
	if m.seq.Playing() {
		m.seq.StopPlaying()
	} else {
		m.seq.StartPlaying()
		m.chain.Reset()
		m.replayRow()
	}
	m.notify()
}

// Sequencer returns the performance sequencer.
func (m *Manager) Sequencer() *performance.Sequencer { return m.seq }

// Chain returns the effects chain.
func (m *Manager) Chain() *effects.Chain { return m.chain }

// Status is a display snapshot.
type Status struct {
	Row        int
	Order      int
	OrderRow   int
	Recording  bool
	Playing    bool
	EventCount int
	BPM        float64
	ClockSync  bool
}

// Snapshot collects display state in one call.
func (m *Manager) Snapshot() Status {
	order, row := m.seq.Position()
	return Status{
		Row:        m.seq.Row(),
		Order:      order,
		OrderRow:   row,
		Recording:  m.seq.Recording(),
		Playing:    m.seq.Playing(),
		EventCount: m.seq.Len(),
		BPM:        m.clock.BPM(),
		ClockSync:  m.clock.Enabled(),
	}
}

func (m *Manager) notify() {
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}
