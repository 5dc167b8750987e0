// Package midi bridges hardware MIDI input to the control layer. It
// routes single-byte clock pulses and control-change messages onto
// bounded channels so driver callbacks never block on processing.
package midi

import "time"

// CCEvent is a control-change message from the input port.
type CCEvent struct {
	Controller uint8
	Value      uint8
}

// ClockEvent is the arrival time of one hardware clock pulse.
type ClockEvent struct {
	At time.Time
}

// DeviceEventType distinguishes connect from disconnect notifications.
type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceEvent is emitted when the watched input port appears or vanishes.
type DeviceEvent struct {
	Type DeviceEventType
	ID   string
	Port *Port
}
