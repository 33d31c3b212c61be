package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dockedup/dockedup/pkg/logger"
)

const logsTail = 100

// messageLifetime bounds how long the "Aborted." notice stays on screen;
// action results stay until Enter instead.
const messageLifetime = time.Second

// handleKey is the input dispatcher (C6). Navigation mutates app state
// directly; container actions suspend the display via tea.ExecProcess or
// run one-shot and report their outcome, per the action protocol in §4.6.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.pendingAsk != nil {
		return m.resolveConfirm(msg)
	}

	// An action result (restart/stop outcome, logs/exec exit error) stays
	// up until the operator hits Enter (§4.6 step 3, §7 Action-NonZero/
	// Action-Exception) — only Quit is still honored in the meantime.
	if m.awaitingAck {
		switch {
		case key.Matches(msg, keys.Enter):
			m.lastActionMsg = ""
			m.awaitingAck = false
			return m, nil
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		m.state.MoveSelection(-1)
		return m, nil

	case key.Matches(msg, keys.Down):
		m.state.MoveSelection(1)
		return m, nil

	case key.Matches(msg, keys.PageUp):
		m.state.ScrollView(-1)
		return m, nil

	case key.Matches(msg, keys.PageDown):
		m.state.ScrollView(1)
		return m, nil

	case key.Matches(msg, keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, keys.Logs):
		return m.runLogs()

	case key.Matches(msg, keys.Restart):
		return m.askConfirm("restart")

	case key.Matches(msg, keys.Stop):
		return m.askConfirm("stop")

	case key.Matches(msg, keys.Shell):
		return m.runShell()
	}
	return m, nil
}

func (m Model) askConfirm(action string) (tea.Model, tea.Cmd) {
	sel, ok := m.state.GetSelected()
	if !ok {
		return m, nil
	}
	m.pendingAsk = &confirmPrompt{containerID: sel.ID, name: sel.Name, action: action}
	return m, nil
}

func (m Model) resolveConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ask := m.pendingAsk
	m.pendingAsk = nil

	if msg.String() != "y" {
		m.lastActionMsg = "Aborted."
		return m, clearMessageAfter()
	}
	return m.runOneShot(ask.containerID, ask.name, ask.action)
}

// runOneShot invokes a one-shot daemon action (restart/stop) and reports
// its outcome as a status line, per Action-NonZero in §7.
func (m Model) runOneShot(id, name, verb string) (tea.Model, tea.Cmd) {
	act := m.api.Restart
	if verb == "stop" {
		act = m.api.Stop
	}
	return m, func() tea.Msg {
		result, err := act(m.ctx, id)
		if err != nil {
			return actionDoneMsg{message: fmt.Sprintf("%s %s failed: %v", verb, name, err)}
		}
		if result.ExitCode != 0 {
			return actionDoneMsg{message: fmt.Sprintf("Command failed (exit %d): %s", result.ExitCode, result.Stderr)}
		}
		return actionDoneMsg{message: fmt.Sprintf("%s: %s succeeded", name, verb)}
	}
}

// runLogs follows logs for a running container, or shows a static tail for
// a stopped one, handing the terminal over via tea.ExecProcess.
func (m Model) runLogs() (tea.Model, tea.Cmd) {
	sel, ok := m.state.GetSelected()
	if !ok {
		return m, nil
	}
	follow := sel.RawStatus == "running"
	cmd, err := m.api.Logs(m.ctx, sel.ID, logsTail, follow)
	if err != nil {
		logger.Error("logs: failed to start for %s: %v", sel.Name, err)
		m.lastActionMsg = fmt.Sprintf("logs failed: %v", err)
		m.awaitingAck = true
		return m, nil
	}
	return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
		if err != nil {
			return actionDoneMsg{message: fmt.Sprintf("logs exited with error: %v", err)}
		}
		return actionDoneMsg{message: ""}
	})
}

// runShell attaches an interactive /bin/sh session to the selected
// container, handing the terminal over via tea.ExecProcess.
func (m Model) runShell() (tea.Model, tea.Cmd) {
	sel, ok := m.state.GetSelected()
	if !ok {
		return m, nil
	}
	cmd, err := m.api.ExecInteractive(m.ctx, sel.ID, []string{"/bin/sh"})
	if err != nil {
		logger.Error("shell: failed to start for %s: %v", sel.Name, err)
		m.lastActionMsg = fmt.Sprintf("exec failed: %v", err)
		m.awaitingAck = true
		return m, nil
	}
	return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
		if err != nil {
			return actionDoneMsg{message: fmt.Sprintf("shell exited with error: %v", err)}
		}
		return actionDoneMsg{message: ""}
	})
}

type clearMessageMsg struct{}

func clearMessageAfter() tea.Cmd {
	return tea.Tick(messageLifetime, func(time.Time) tea.Msg { return clearMessageMsg{} })
}
