package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

func runPorts(cmd *cobra.Command, args []string) error {
	// Port enumeration can hang on a wedged MIDI service.
	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: gomidi.GetInPorts(), outs: gomidi.GetOutPorts()}
	}()

	var r result
	select {
	case r = <-ch:
	case <-time.After(3 * time.Second):
		return fmt.Errorf("timed out enumerating MIDI ports")
	}

	fmt.Println("MIDI input ports:")
	for i, p := range r.ins {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("\nMIDI output ports:")
	for i, p := range r.outs {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	return nil
}
