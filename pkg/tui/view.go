package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dockedup/dockedup/pkg/format"
	"github.com/dockedup/dockedup/pkg/monitor"
)

const rowsPerProjectPanel = 8

var tableHeaders = []string{"Container", "Status", "Uptime", "Health", "CPU %", "MEM USAGE / LIMIT"}

// renderLayout composes the three-part layout described in §4.5: a fixed
// header, the flex main area of project panels, and a one-line footer.
func (m Model) renderLayout() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(m.help.FullHelpView(keys.FullHelp()))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderMain())
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	title := StyleHeader.Render(" dockedup — live container dashboard ")
	if m.state.DebugMode() {
		title += "  " + StyleError.Render("[DEBUG MODE]")
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title) + "\n\n"
}

func (m Model) renderMain() string {
	flat := m.state.Flat()
	if len(flat) == 0 {
		msg := StyleEmpty.Render("No containers found.")
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, msg) + "\n"
	}

	groups := groupByProject(flat)
	selectedIdx := m.state.SelectedIndex()
	scroll := m.state.ScrollOffset()

	visible := rowsPerProjectPanel
	if m.height > 0 {
		visible = m.height / rowsPerProjectPanel
	}
	if visible < 1 {
		visible = 1
	}
	start := scroll
	if start > len(groups)-1 {
		start = len(groups) - 1
	}
	if start < 0 {
		start = 0
	}
	end := start + visible
	if end > len(groups) {
		end = len(groups)
	}

	var b strings.Builder
	flatOffset := flatIndexOffset(flat, groups, start)
	for _, g := range groups[start:end] {
		b.WriteString(m.renderProjectPanel(g, selectedIdx, flatOffset))
		flatOffset += len(g.Containers)
		b.WriteString("\n")
	}
	return b.String()
}

// projectRows is a project name paired with its containers, used only for
// rendering (monitor.ProjectGroup already has this shape; this type exists
// so the view package can recompute grouping from app state's flat list,
// which may reorder across a refresh independently of the monitor).
type projectRows struct {
	project    string
	containers []monitor.Record
}

func groupByProject(flat []monitor.Record) []projectRows {
	var order []string
	byProject := map[string][]monitor.Record{}
	for _, r := range flat {
		if _, ok := byProject[r.Project]; !ok {
			order = append(order, r.Project)
		}
		byProject[r.Project] = append(byProject[r.Project], r)
	}
	groups := make([]projectRows, 0, len(order))
	for _, p := range order {
		groups = append(groups, projectRows{project: p, containers: byProject[p]})
	}
	return groups
}

func flatIndexOffset(flat []monitor.Record, groups []projectRows, uptoGroup int) int {
	offset := 0
	for i := 0; i < uptoGroup && i < len(groups); i++ {
		offset += len(groups[i].containers)
	}
	return offset
}

func (m Model) renderProjectPanel(g projectRows, selectedIdx, flatOffset int) string {
	rows := make([][]string, 0, len(g.containers))
	for _, c := range g.containers {
		rows = append(rows, []string{
			c.Name,
			renderStyled(c.StatusDisplay),
			format.Uptime(c.StartedAt, time.Now()),
			renderStyled(c.HealthDisplay),
			renderStyled(c.CPUDisplay),
			renderStyled(c.MemoryDisplay),
		})
	}

	t := table.New().
		Headers(tableHeaders...).
		Rows(rows...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorPrimary)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true)
			}
			if flatOffset+row == selectedIdx {
				return StyleSelectedRow
			}
			return lipgloss.NewStyle()
		})

	title := StyleTitle.Render(g.project)
	return title + "\n" + t.String() + "\n"
}

func (m Model) renderFooter() string {
	if m.pendingAsk != nil {
		prompt := fmt.Sprintf("%s %q? [y/n]", m.pendingAsk.action, m.pendingAsk.name)
		return StyleWarning.Render(prompt)
	}
	if m.lastActionMsg != "" {
		msg := m.lastActionMsg
		if m.awaitingAck {
			msg += "  [enter to continue]"
		}
		return StyleFooter.Render(msg)
	}

	legend := keys.ShortHelp()
	if _, ok := m.state.GetSelected(); ok {
		legend = append(legend, actionHelp()...)
	}
	return StyleFooter.Render(m.help.ShortHelpView(legend))
}
