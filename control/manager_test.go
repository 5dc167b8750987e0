package control

import (
	"testing"
	"time"

	"github.com/gbraad-modplug/regroove-sub001/effects"
	"github.com/gbraad-modplug/regroove-sub001/input"
	"github.com/gbraad-modplug/regroove-sub001/midi"
	"github.com/gbraad-modplug/regroove-sub001/performance"
	"github.com/gbraad-modplug/regroove-sub001/tempo"
)

// captureDispatcher records every dispatched event in order.
type captureDispatcher struct {
	events []input.Event
}

func (d *captureDispatcher) Dispatch(ev input.Event) {
	d.events = append(d.events, ev)
}

func newTestManager() (*Manager, *captureDispatcher) {
	r := input.NewResolver()
	r.MapKey('m', input.ActionChannelMute, 0)
	r.MapCC(7, input.ActionChannelVolume, 2, input.TriggerContinuous)
	r.MapCC(41, input.ActionRetrigger, 0, input.TriggerThreshold)

	d := &captureDispatcher{}
	m := NewManager(r, performance.NewSequencer(), tempo.NewSynchronizer(), effects.NewChain(48000), d)
	return m, d
}

func TestHandleKeyDispatchesMappedAction(t *testing.T) {
	m, d := newTestManager()

	m.HandleKey('m')
	if len(d.events) != 1 || d.events[0].Action != input.ActionChannelMute {
		t.Fatalf("events = %+v, want one channel mute", d.events)
	}

	// Unmapped keys are silently dropped.
	m.HandleKey('z')
	if len(d.events) != 1 {
		t.Errorf("unmapped key dispatched: %+v", d.events)
	}
}

func TestHandleCCContinuousAndThreshold(t *testing.T) {
	m, d := newTestManager()

	m.HandleCC(midi.CCEvent{Controller: 7, Value: 64})
	if len(d.events) != 1 || d.events[0].Action != input.ActionChannelVolume {
		t.Fatalf("events = %+v, want one volume action", d.events)
	}
	if v := d.events[0].Value; v != 64 {
		t.Errorf("value = %g, want the raw CC value 64", v)
	}

	// Threshold mapping fires only on the rising edge.
	m.HandleCC(midi.CCEvent{Controller: 41, Value: 100})
	m.HandleCC(midi.CCEvent{Controller: 41, Value: 110})
	m.HandleCC(midi.CCEvent{Controller: 41, Value: 10})
	if len(d.events) != 2 {
		t.Fatalf("events = %+v, want one retrigger for the held fader", d.events)
	}
	if d.events[1].Action != input.ActionRetrigger {
		t.Errorf("second event = %+v", d.events[1])
	}
}

func TestRecordReplayFlow(t *testing.T) {
	m, d := newTestManager()

	m.ToggleRecording()
	m.HandleKey('m') // row 0
	m.RowAdvanced()  // row 1
	m.HandleKey('m') // row 1
	m.ToggleRecording()

	if got := len(d.events); got != 2 {
		t.Fatalf("dispatched %d events while recording, want 2 (live passthrough)", got)
	}
	if m.Sequencer().Len() != 2 {
		t.Fatalf("recorded %d events, want 2", m.Sequencer().Len())
	}

	// Entering playback replays row 0 immediately.
	m.TogglePlayback()
	if got := len(d.events); got != 3 {
		t.Fatalf("dispatched %d events after playback start, want 3 (row 0 replayed)", got)
	}

	m.RowAdvanced() // row 1 replays the second event
	if got := len(d.events); got != 4 {
		t.Fatalf("dispatched %d events after row 1, want 4", got)
	}

	m.RowAdvanced() // row 2, nothing logged
	if got := len(d.events); got != 4 {
		t.Errorf("dispatched %d events after empty row, want 4", got)
	}
}

func TestRowAdvancedIdle(t *testing.T) {
	m, d := newTestManager()
	m.RowAdvanced()
	if len(d.events) != 0 {
		t.Errorf("idle row advance dispatched %+v", d.events)
	}
	if m.Sequencer().Row() != 0 {
		t.Error("idle row advance moved the row")
	}
}

func TestToggleRecordingDiscardsTake(t *testing.T) {
	m, _ := newTestManager()

	m.ToggleRecording()
	m.HandleKey('m')
	m.ToggleRecording()
	if m.Sequencer().Len() != 1 {
		t.Fatal("first take not captured")
	}

	m.ToggleRecording()
	if m.Sequencer().Len() != 0 {
		t.Error("re-entering record mode must discard the previous take")
	}
}

func TestHandleClockFeedsEstimator(t *testing.T) {
	m, _ := newTestManager()

	base := time.Unix(0, 0)
	for i := 0; i < 30; i++ {
		m.HandleClock(midi.ClockEvent{At: base})
		base = base.Add(20833 * time.Microsecond)
	}

	st := m.Snapshot()
	if st.BPM < 118 || st.BPM > 122 {
		t.Errorf("BPM = %.3f, want ~120", st.BPM)
	}
}

func TestSnapshot(t *testing.T) {
	m, _ := newTestManager()

	m.ToggleRecording()
	m.HandleKey('m')
	m.RowAdvanced()

	st := m.Snapshot()
	if !st.Recording || st.Playing {
		t.Errorf("snapshot modes = %+v", st)
	}
	if st.Row != 1 || st.EventCount != 1 {
		t.Errorf("snapshot = %+v, want row 1 with 1 event", st)
	}
}

func TestNotifyNeverBlocks(t *testing.T) {
	m, _ := newTestManager()

	// Nobody drains UpdateChan; repeated actions must not deadlock.
	for i := 0; i < 10; i++ {
		m.HandleKey('m')
	}
	select {
	case <-m.UpdateChan:
	default:
		t.Error("expected a pending update signal")
	}
}
