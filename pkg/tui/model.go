// Package tui is the renderer (C5) and input/action dispatcher (C6): a
// single bubbletea program that polls the monitor and app state on its own
// cadence, and suspends itself to hand the terminal to external commands
// for logs/restart/stop/shell actions.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dockedup/dockedup/pkg/appstate"
	"github.com/dockedup/dockedup/pkg/dockerapi"
	"github.com/dockedup/dockedup/pkg/monitor"
)

// Model is the bubbletea program's root model.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	api     dockerapi.ContainerAPI
	mon     *monitor.Monitor
	state   *appstate.State
	refresh time.Duration

	spinner       spinner.Model
	help          help.Model
	ready         bool
	monitorErr    error
	width         int
	height        int
	pendingAsk    *confirmPrompt
	lastActionMsg string
	awaitingAck   bool // lastActionMsg is an action result awaiting Enter, not an Aborted. notice
	showHelp      bool
	quitting      bool
}

// confirmPrompt tracks an in-flight y/n confirmation for a destructive
// action (§4.6 step 2).
type confirmPrompt struct {
	containerID string
	name        string
	action      string // "restart" or "stop"
}

// New builds a Model. mon has not been started yet; Init starts it so the
// spinner has something to show while the initial populate runs.
func New(ctx context.Context, api dockerapi.ContainerAPI, mon *monitor.Monitor, state *appstate.State, refresh time.Duration) Model {
	ctx, cancel := context.WithCancel(ctx)
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StyleInfo

	return Model{
		ctx:     ctx,
		cancel:  cancel,
		api:     api,
		mon:     mon,
		state:   state,
		refresh: refresh,
		spinner: sp,
		help:    help.New(),
	}
}

type monitorReadyMsg struct{}
type monitorErrMsg struct{ err error }
type tickMsg time.Time
type uiUpdatedMsg struct{}
type actionDoneMsg struct {
	message string
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startMonitor())
}

func (m Model) startMonitor() tea.Cmd {
	return func() tea.Msg {
		if err := m.mon.Run(m.ctx); err != nil {
			return monitorErrMsg{err}
		}
		return monitorReadyMsg{}
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func waitForUIUpdate(state *appstate.State) tea.Cmd {
	return func() tea.Msg {
		<-state.UIUpdated()
		return uiUpdatedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.ready {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case monitorErrMsg:
		m.monitorErr = msg.err
		m.ready = true
		return m, nil

	case monitorReadyMsg:
		m.ready = true
		m.refreshSnapshot()
		return m, tea.Batch(tickCmd(m.refresh), waitForUIUpdate(m.state))

	case tickMsg:
		m.refreshSnapshot()
		return m, tickCmd(m.refresh)

	case uiUpdatedMsg:
		return m, waitForUIUpdate(m.state)

	case actionDoneMsg:
		m.lastActionMsg = msg.message
		m.awaitingAck = msg.message != ""
		return m, nil

	case clearMessageMsg:
		m.lastActionMsg = ""
		m.awaitingAck = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// refreshSnapshot pulls the latest grouped snapshot from the monitor and
// feeds its flattening into app state, so selection identity is preserved
// across churn (invariant 6, §3).
func (m Model) refreshSnapshot() {
	snap := m.mon.Snapshot()
	m.state.UpdateContainers(snap.Flatten())
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return m.spinner.View() + " connecting to the daemon…\n"
	}
	if m.monitorErr != nil {
		return StyleError.Render("Failed to start monitor: "+m.monitorErr.Error()) + "\n"
	}
	return m.renderLayout()
}
