package midi

import (
	"fmt"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/gbraad-modplug/regroove-sub001/debug"
)

// Port is an open MIDI input. Incoming messages are routed by status:
// timing clock pulses (0xF8) go to the clock channel, control-change
// messages to the CC channel. Everything else is ignored. Both channels
// drop when full rather than stall the driver callback.
type Port struct {
	id       string
	stopFunc func()

	ccChan    chan CCEvent
	clockChan chan ClockEvent
}

// OpenPort opens the given input port and starts listening. Timing
// messages are requested explicitly; drivers filter them by default.
func OpenPort(in drivers.In) (*Port, error) {
	p := &Port{
		id:        in.String(),
		ccChan:    make(chan CCEvent, 64),
		clockChan: make(chan ClockEvent, 64),
	}

	stop, err := gomidi.ListenTo(in, p.route, gomidi.UseTimeCode())
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	p.stopFunc = stop
	return p, nil
}

func (p *Port) route(msg gomidi.Message, timestampms int32) {
	switch {
	case msg.Is(gomidi.RealTimeMsg):
		if msg.Type() == gomidi.TimingClockMsg {
			select {
			case p.clockChan <- ClockEvent{At: time.Now()}:
			default:
			}
		}
	default:
		var channel, controller, value uint8
		if msg.GetControlChange(&channel, &controller, &value) {
			select {
			case p.ccChan <- CCEvent{Controller: controller, Value: value}:
			default:
				debug.Log("midi", "cc channel full, dropping cc=%d", controller)
			}
		}
	}
}

// ID returns the port name.
func (p *Port) ID() string { return p.id }

// CC returns the control-change channel.
func (p *Port) CC() <-chan CCEvent { return p.ccChan }

// Clock returns the clock-pulse channel.
func (p *Port) Clock() <-chan ClockEvent { return p.clockChan }

// Close stops listening and closes both channels.
func (p *Port) Close() error {
	if p.stopFunc != nil {
		p.stopFunc()
		p.stopFunc = nil
	}
	close(p.ccChan)
	close(p.clockChan)
	return nil
}
