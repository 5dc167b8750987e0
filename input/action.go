package input

import "strconv"

// Action is an abstract performance command, decoupled from whatever
// key or controller produced it. Actions are stable integers because the
// automation file format stores them numerically.
type Action int

const (
	ActionNone Action = iota
	ActionPlay
	ActionPause
	ActionStop
	ActionRetrigger
	ActionNextOrder
	ActionPrevOrder
	ActionLoopTillRow
	ActionHalveLoop
	ActionFullLoop
	ActionPatternMode
	ActionMuteAll
	ActionUnmuteAll
	ActionChannelMute
	ActionChannelSolo
	ActionChannelVolume
	ActionPitchUp
	ActionPitchDown
	ActionQuit
	ActionFilePrev
	ActionFileNext
	ActionFileLoad

	numActions
)

var actionNames = map[Action]string{
	ActionNone:          "none",
	ActionPlay:          "play",
	ActionPause:         "pause",
	ActionStop:          "stop",
	ActionRetrigger:     "retrigger",
	ActionNextOrder:     "next-order",
	ActionPrevOrder:     "prev-order",
	ActionLoopTillRow:   "loop-till-row",
	ActionHalveLoop:     "halve-loop",
	ActionFullLoop:      "full-loop",
	ActionPatternMode:   "pattern-mode",
	ActionMuteAll:       "mute-all",
	ActionUnmuteAll:     "unmute-all",
	ActionChannelMute:   "channel-mute",
	ActionChannelSolo:   "channel-solo",
	ActionChannelVolume: "channel-volume",
	ActionPitchUp:       "pitch-up",
	ActionPitchDown:     "pitch-down",
	ActionQuit:          "quit",
	ActionFilePrev:      "file-prev",
	ActionFileNext:      "file-next",
	ActionFileLoad:      "file-load",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "action(" + strconv.Itoa(int(a)) + ")"
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	return a > ActionNone && a < numActions
}

// Event is a resolved control input: the action plus an optional
// parameter (e.g. channel index) and continuous value (e.g. raw CC value).
type Event struct {
	Action Action
	Param  int
	Value  float64
}
