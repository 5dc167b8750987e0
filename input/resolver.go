package input

// TriggerMode selects how a MIDI mapping fires.
type TriggerMode int

const (
	// TriggerContinuous fires on every message, passing the raw value
	// through. Used for faders and knobs (e.g. channel volume).
	TriggerContinuous TriggerMode = iota

	// TriggerThreshold fires once when the value crosses the threshold
	// upward. A held or ramping controller does not re-trigger until the
	// value falls below the threshold again.
	TriggerThreshold
)

// DefaultThreshold is the level-crossing point for threshold mappings,
// the midpoint of the 0-127 CC range.
const DefaultThreshold = 64

// UnmappedSource marks an unused mapping slot; it never matches any input.
const UnmappedSource = -1

// Mapping ties a raw source identifier (key code or CC number) to an action.
type Mapping struct {
	Source int
	Action Action
	Param  int
	Mode   TriggerMode

	// last holds the previous CC value so threshold mappings can detect
	// a rising edge rather than firing level-sensitively.
	last uint8
}

// Resolver converts raw control identifiers into Events via two static
// tables, one for keyboard keys and one for MIDI control change numbers.
// It is not safe for concurrent use; confine it to the input thread.
type Resolver struct {
	midi []Mapping
	keys []Mapping
}

func NewResolver() *Resolver {
	return &Resolver{}
}

// MapCC adds a MIDI CC mapping.
func (r *Resolver) MapCC(cc int, action Action, param int, mode TriggerMode) {
	r.midi = append(r.midi, Mapping{Source: cc, Action: action, Param: param, Mode: mode})
}

// MapKey adds a keyboard mapping. Keys are momentary, so there is no
// trigger mode: every key press fires.
func (r *Resolver) MapKey(code int, action Action, param int) {
	r.keys = append(r.keys, Mapping{Source: code, Action: action, Param: param})
}

// ClearCC removes all MIDI mappings.
func (r *Resolver) ClearCC() { r.midi = r.midi[:0] }

// ClearKeys removes all keyboard mappings.
func (r *Resolver) ClearKeys() { r.keys = r.keys[:0] }

// CCMappings returns the MIDI mapping table.
func (r *Resolver) CCMappings() []Mapping { return r.midi }

// KeyMappings returns the keyboard mapping table.
func (r *Resolver) KeyMappings() []Mapping { return r.keys }

// ResolveKey looks up a key code and returns the mapped event, if any.
func (r *Resolver) ResolveKey(code int) (Event, bool) {
	for i := range r.keys {
		m := &r.keys[i]
		if m.Source == UnmappedSource || m.Source != code {
			continue
		}
		return Event{Action: m.Action, Param: m.Param}, true
	}
	return Event{}, false
}

// ResolveCC looks up a CC number and returns the mapped event, if any.
// Continuous mappings fire every message with the raw value; threshold
// mappings fire only on an upward crossing of DefaultThreshold.
func (r *Resolver) ResolveCC(cc int, value uint8) (Event, bool) {
	for i := range r.midi {
		m := &r.midi[i]
		if m.Source == UnmappedSource || m.Source != cc {
			continue
		}

		switch m.Mode {
		case TriggerContinuous:
			return Event{Action: m.Action, Param: m.Param, Value: float64(value)}, true

		case TriggerThreshold:
			fired := m.last < DefaultThreshold && value >= DefaultThreshold
			m.last = value
			if fired {
				return Event{Action: m.Action, Param: m.Param, Value: float64(value)}, true
			}
			return Event{}, false
		}
	}
	return Event{}, false
}
