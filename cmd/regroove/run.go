package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gbraad-modplug/regroove-sub001/audio"
	"github.com/gbraad-modplug/regroove-sub001/config"
	"github.com/gbraad-modplug/regroove-sub001/control"
	"github.com/gbraad-modplug/regroove-sub001/debug"
	"github.com/gbraad-modplug/regroove-sub001/effects"
	"github.com/gbraad-modplug/regroove-sub001/input"
	"github.com/gbraad-modplug/regroove-sub001/midi"
	"github.com/gbraad-modplug/regroove-sub001/performance"
	"github.com/gbraad-modplug/regroove-sub001/tempo"
	"github.com/gbraad-modplug/regroove-sub001/tui"
)

func runPerform(cmd *cobra.Command, args []string) error {
	if flagDebug {
		path, err := debug.Enable()
		if err != nil {
			return fmt.Errorf("enable debug log: %w", err)
		}
		defer debug.Disable()
		fmt.Fprintf(cmd.ErrOrStderr(), "debug log: %s\n", path)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagPort != "" {
		cfg.MIDIInput = flagPort
	}

	resolver := input.NewResolver()
	if cfg.MappingFile != "" {
		if err := resolver.LoadMappings(cfg.MappingFile); err != nil {
			debug.Log("config", "mappings: %v", err)
			defaultMappings(resolver)
		}
	} else {
		defaultMappings(resolver)
	}

	seq := performance.NewSequencer()
	if cfg.AutomationFile != "" {
		// Missing automation file just means a fresh performance.
		if err := seq.Load(cfg.AutomationFile); err != nil {
			debug.Log("config", "automation: %v", err)
		}
	}

	clock := tempo.NewSynchronizer()
	clock.SetEnabled(cfg.ClockSync)

	chain := effects.NewChain(cfg.SampleRate)
	applyEffects(chain, cfg.Effects)

	// The playback engine is external; log dispatched actions so a run
	// without one is still observable.
	dispatcher := control.DispatcherFunc(func(ev input.Event) {
		debug.Log("dispatch", "%s param=%d value=%.3f", ev.Action, ev.Param, ev.Value)
	})

	manager := control.NewManager(resolver, seq, clock, chain, dispatcher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deviceMgr := midi.NewDeviceManager(cfg.MIDIInput)
	go deviceMgr.Run(ctx)

	if !flagNoAudio {
		tone := audio.NewToneSource(cfg.SampleRate, flagTone, flagBPM, manager.RowAdvanced)
		player, err := audio.NewPlayer(cfg.SampleRate, cfg.FramesPerBuffer, tone, chain)
		if err != nil {
			return fmt.Errorf("open audio: %w", err)
		}
		defer player.Close()
		player.Play()
	}

	m := tui.NewModel(ctx, manager, deviceMgr, cfg.AutomationFile)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// defaultMappings is the fallback control layout when no mapping file
// is configured: transport on the home row, a nanoKONTROL-style CC page
// for the mixer.
func defaultMappings(r *input.Resolver) {
	r.MapKey(' ', input.ActionPlay, 0)
	r.MapKey('o', input.ActionPause, 0)
	r.MapKey('s', input.ActionStop, 0)
	r.MapKey('t', input.ActionRetrigger, 0)
	r.MapKey('n', input.ActionNextOrder, 0)
	r.MapKey('b', input.ActionPrevOrder, 0)
	r.MapKey('l', input.ActionLoopTillRow, 0)
	r.MapKey('h', input.ActionHalveLoop, 0)
	r.MapKey('g', input.ActionFullLoop, 0)
	r.MapKey('m', input.ActionMuteAll, 0)
	r.MapKey('u', input.ActionUnmuteAll, 0)
	r.MapKey('+', input.ActionPitchUp, 0)
	r.MapKey('-', input.ActionPitchDown, 0)

	// Buttons fire on the rising edge; faders pass values through.
	for ch := 0; ch < 8; ch++ {
		r.MapCC(32+ch, input.ActionChannelMute, ch, input.TriggerThreshold)
		r.MapCC(48+ch, input.ActionChannelSolo, ch, input.TriggerThreshold)
		r.MapCC(0+ch, input.ActionChannelVolume, ch, input.TriggerContinuous)
	}
	r.MapCC(41, input.ActionPlay, 0, input.TriggerThreshold)
	r.MapCC(42, input.ActionStop, 0, input.TriggerThreshold)
	r.MapCC(43, input.ActionPrevOrder, 0, input.TriggerThreshold)
	r.MapCC(44, input.ActionNextOrder, 0, input.TriggerThreshold)
}

func applyEffects(chain *effects.Chain, fx config.EffectsConfig) {
	chain.SetDistortionEnabled(fx.DistortionEnabled)
	chain.SetDrive(fx.Drive)
	chain.SetMix(fx.Mix)
	chain.SetFilterEnabled(fx.FilterEnabled)
	chain.SetCutoff(fx.Cutoff)
	chain.SetResonance(fx.Resonance)
}
