// Package tui is the terminal front end: transport and automation
// status, tempo readout and effects controls. Unhandled keys are fed
// through the keyboard mapping so mapped keys behave exactly like
// hardware controller input.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gbraad-modplug/regroove-sub001/control"
	"github.com/gbraad-modplug/regroove-sub001/midi"
)

// paramStep is the per-keypress increment for effects parameters.
const paramStep = 0.05

type Model struct {
	Manager   *control.Manager
	DeviceMgr *midi.DeviceManager

	ctx            context.Context
	automationFile string
	portID         string // connected port name (empty if none)
	flash          string // one-line feedback for save/load
	quitting       bool
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

type tickMsg time.Time

func NewModel(ctx context.Context, manager *control.Manager, deviceMgr *midi.DeviceManager, automationFile string) Model {
	return Model{
		Manager:        manager,
		DeviceMgr:      deviceMgr,
		ctx:            ctx,
		automationFile: automationFile,
	}
}

func ListenForUpdates(manager *control.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event := <-deviceMgr.Events()
		return DeviceEventMsg(event)
	}
}

func tick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Manager),
		ListenForDevices(m.DeviceMgr),
		tick(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case UpdateMsg:
		return m, ListenForUpdates(m.Manager)

	case tickMsg:
		// Periodic refresh so the BPM readout tracks the external clock
		// even when no action fires.
		return m, tick()

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		if event.Type == midi.DeviceConnected {
			m.portID = event.ID
			m.Manager.Attach(m.ctx, event.Port)
		} else if m.portID == event.ID {
			m.portID = ""
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	chain := m.Manager.Chain()

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "R":
		m.Manager.ToggleRecording()

	case "P":
		m.Manager.TogglePlayback()

	case "S":
		m.flash = m.saveAutomation()

	case "L":
		m.flash = m.loadAutomation()

	case "d":
		chain.SetDistortionEnabled(!chain.DistortionEnabled())

	case "f":
		chain.SetFilterEnabled(!chain.FilterEnabled())

	case "[":
		chain.SetDrive(chain.Drive() - paramStep)
	case "]":
		chain.SetDrive(chain.Drive() + paramStep)
	case "{":
		chain.SetMix(chain.Mix() - paramStep)
	case "}":
		chain.SetMix(chain.Mix() + paramStep)
	case ",":
		chain.SetCutoff(chain.Cutoff() - paramStep)
	case ".":
		chain.SetCutoff(chain.Cutoff() + paramStep)
	case "<":
		chain.SetResonance(chain.Resonance() - paramStep)
	case ">":
		chain.SetResonance(chain.Resonance() + paramStep)

	default:
		// Single-rune keys go through the keyboard mapping.
		runes := []rune(msg.String())
		if len(runes) == 1 {
			m.Manager.HandleKey(int(runes[0]))
		}
	}
	return m, nil
}

func (m Model) saveAutomation() string {
	if m.automationFile == "" {
		return "no automation file configured"
	}
	if err := m.Manager.Sequencer().Save(m.automationFile); err != nil {
		return fmt.Sprintf("save failed: %v", err)
	}
	return fmt.Sprintf("saved %d events", m.Manager.Sequencer().Len())
}

func (m Model) loadAutomation() string {
	if m.automationFile == "" {
		return "no automation file configured"
	}
	if err := m.Manager.Sequencer().Load(m.automationFile); err != nil {
		return fmt.Sprintf("load failed: %v", err)
	}
	return fmt.Sprintf("loaded %d events", m.Manager.Sequencer().Len())
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	recStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	playStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)

	st := m.Manager.Snapshot()
	chain := m.Manager.Chain()

	mode := "IDLE"
	modeStyle := dimStyle
	switch {
	case st.Recording:
		mode = "REC "
		modeStyle = recStyle
	case st.Playing:
		mode = "PLAY"
		modeStyle = playStyle
	}

	port := "no device"
	if m.portID != "" {
		port = m.portID
	}

	bpm := "  --.-"
	if st.BPM > 0 {
		bpm = fmt.Sprintf("%6.1f", st.BPM)
	}

	header := headerStyle.Render("regroove") + "  " +
		modeStyle.Render(mode) +
		fmt.Sprintf("  %03d:%02d  row %d  events %d", st.Order, st.OrderRow, st.Row, st.EventCount)

	clock := fmt.Sprintf("clock %s bpm  %s", bpm, dimStyle.Render(port))

	fx := fmt.Sprintf("dist %s drive %.2f mix %.2f   filt %s cutoff %.2f res %.2f",
		onOff(chain.DistortionEnabled()), chain.Drive(), chain.Mix(),
		onOff(chain.FilterEnabled()), chain.Cutoff(), chain.Resonance())

	help := dimStyle.Render("R:rec P:replay S/L:save/load  d/f:fx on-off  [ ] { } , . < >:params  q:quit")

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(clock)
	out.WriteString("\n")
	out.WriteString(fx)
	out.WriteString("\n\n")
	out.WriteString(help)
	if m.flash != "" {
		out.WriteString("\n")
		out.WriteString(dimStyle.Render(m.flash))
	}
	return out.String()
}

func onOff(on bool) string {
	if on {
		return "on "
	}
	return "off"
}
