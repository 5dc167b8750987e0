package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "regroove",
	Short: "Live-performance control layer for a pattern-based tracker",
	Long: `regroove turns controller input (keys, MIDI CC, MIDI clock) into
transport and mixing actions, records and replays them as an automation
track synchronized to song position, estimates tempo from an external
hardware clock, and applies a real-time effects chain to the output.

The pattern playback engine itself is an external collaborator; the run
command drives the chain with a built-in test tone.`,
	Version: version,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the performance surface",
	Long: `Connect to the configured MIDI input, open the audio output and
start the terminal UI.

Examples:
  regroove run
  regroove run --port nanokontrol --tone 220
  regroove run --debug`,
	RunE: runPerform,
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI input and output ports",
	RunE:  runPorts,
}

var (
	flagPort    string
	flagTone    float64
	flagBPM     float64
	flagNoAudio bool
	flagDebug   bool
)

func init() {
	runCmd.Flags().StringVar(&flagPort, "port", "", "MIDI input port name (substring match, overrides config)")
	runCmd.Flags().Float64Var(&flagTone, "tone", 220, "test tone frequency in Hz")
	runCmd.Flags().Float64Var(&flagBPM, "bpm", 125, "test tone row rate in BPM")
	runCmd.Flags().BoolVar(&flagNoAudio, "no-audio", false, "run without audio output")
	runCmd.Flags().BoolVar(&flagDebug, "debug", false, "log to ~/.config/regroove/debug.log")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(portsCmd)
}
