package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"github.com/gbraad-modplug/regroove-sub001/debug"
)

// DeviceManager watches for the configured input port and handles
// hot-plug: the controller can be connected or power-cycled at any time
// during a performance and the port is reopened automatically.
type DeviceManager struct {
	want string // case-insensitive substring of the port name

	mu       sync.RWMutex
	port     *Port
	events   chan DeviceEvent
	pollRate time.Duration
}

// NewDeviceManager creates a manager watching for the named port. An
// empty name matches the first available input port.
func NewDeviceManager(portName string) *DeviceManager {
	return &DeviceManager{
		want:     strings.ToLower(portName),
		events:   make(chan DeviceEvent, 16),
		pollRate: time.Second,
	}
}

// Events returns the connect/disconnect notification channel.
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Port returns the currently connected port, or nil.
func (dm *DeviceManager) Port() *Port {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.port
}

// Run polls for port changes until ctx is cancelled (blocking - run in
// goroutine).
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.disconnect()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	// Port enumeration can hang on a wedged MIDI service; give up on
	// this scan after a timeout rather than stall the poll loop.
	ch := make(chan []drivers.In, 1)
	go func() {
		ch <- gomidi.GetInPorts()
	}()

	var inPorts []drivers.In
	select {
	case inPorts = <-ch:
	case <-time.After(3 * time.Second):
		return
	}

	match := dm.findMatch(inPorts)

	dm.mu.RLock()
	current := dm.port
	dm.mu.RUnlock()

	// Disconnect if the open port vanished.
	if current != nil && (match == nil || match.String() != current.ID()) {
		dm.disconnect()
		current = nil
	}

	if current != nil || match == nil {
		return
	}

	port, err := OpenPort(match)
	if err != nil {
		debug.Log("midi", "open %s: %v", match.String(), err)
		return
	}

	dm.mu.Lock()
	dm.port = port
	dm.mu.Unlock()

	debug.Log("midi", "connected %s", port.ID())
	dm.events <- DeviceEvent{Type: DeviceConnected, ID: port.ID(), Port: port}
}

func (dm *DeviceManager) findMatch(inPorts []drivers.In) drivers.In {
	for i, in := range inPorts {
		if dm.want == "" || strings.Contains(strings.ToLower(in.String()), dm.want) {
			return inPorts[i]
		}
	}
	return nil
}

func (dm *DeviceManager) disconnect() {
	dm.mu.Lock()
	port := dm.port
	dm.port = nil
	dm.mu.Unlock()

	if port == nil {
		return
	}
	id := port.ID()
	port.Close()
	debug.Log("midi", "disconnected %s", id)
	dm.events <- DeviceEvent{Type: DeviceDisconnected, ID: id}
}
